// Package costrules assigns cost estimates to activity and meal descriptions
// that carry no explicit price. Rules live in an ordered, first-match-wins
// table so they can be tuned and tested independently of any parsing logic.
package costrules

import "strings"

// Rule matches lower-cased description text against one or more keywords.
// With MatchAll set, every keyword must appear; otherwise any one suffices.
type Rule struct {
	Keywords []string `mapstructure:"keywords" json:"keywords"`
	MatchAll bool     `mapstructure:"match_all" json:"match_all"`
	Cost     int      `mapstructure:"cost" json:"cost"`
}

func (r Rule) matches(lower string) bool {
	if len(r.Keywords) == 0 {
		return false
	}
	for _, kw := range r.Keywords {
		found := strings.Contains(lower, kw)
		if r.MatchAll && !found {
			return false
		}
		if !r.MatchAll && found {
			return true
		}
	}
	return r.MatchAll
}

// Table is the full estimation policy: ordered activity rules with a base
// default, and ordered meal rules where an unmatched meal contributes zero.
type Table struct {
	Activities      []Rule `mapstructure:"activities" json:"activities"`
	ActivityDefault int    `mapstructure:"activity_default" json:"activity_default"`
	Meals           []Rule `mapstructure:"meals" json:"meals"`
}

// DefaultTable returns the built-in estimation amounts. Rules are checked in
// order: cultural sites, then premium experiences (safari, northern lights),
// then casual visits, with a base amount for everything unmatched. The
// amounts order base < casual < cultural < premium.
func DefaultTable() Table {
	return Table{
		Activities: []Rule{
			{Keywords: []string{"museum", "cathedral"}, Cost: 45},
			{Keywords: []string{"safari", "northern lights"}, Cost: 120},
			{Keywords: []string{"sauna", "visit"}, Cost: 30},
		},
		ActivityDefault: 20,
		Meals: []Rule{
			{Keywords: []string{"dinner", "restaurant"}, MatchAll: true, Cost: 60},
			{Keywords: []string{"lunch"}, Cost: 25},
			{Keywords: []string{"breakfast"}, Cost: 15},
		},
	}
}

// ActivityCost returns the first matching rule's amount, or the base default.
func (t Table) ActivityCost(description string) int {
	lower := strings.ToLower(description)
	for _, rule := range t.Activities {
		if rule.matches(lower) {
			return rule.Cost
		}
	}
	return t.ActivityDefault
}

// MealCost returns the first matching meal rule's amount. Unmatched meals
// contribute nothing.
func (t Table) MealCost(description string) int {
	lower := strings.ToLower(description)
	for _, rule := range t.Meals {
		if rule.matches(lower) {
			return rule.Cost
		}
	}
	return 0
}

// DayCost sums the estimates for a day's activities and meals.
func (t Table) DayCost(activities, meals []string) int {
	total := 0
	for _, a := range activities {
		total += t.ActivityCost(a)
	}
	for _, m := range meals {
		total += t.MealCost(m)
	}
	return total
}
