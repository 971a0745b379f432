// Package policy holds the budget-driven trip policy tables: duration tiers
// and cost-split percentages. The tables are data, not code, so they can be
// tuned from configuration without touching the pipeline.
package policy

import (
	"strconv"

	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// DurationTier maps a budget ceiling to a trip length in days. Tiers are
// evaluated in order; the first tier whose MaxBudget is not exceeded wins.
type DurationTier struct {
	MaxBudget float64 `mapstructure:"max_budget" json:"max_budget"`
	Days      int     `mapstructure:"days" json:"days"`
}

// DurationTable selects a trip duration from budget and mode. DefaultDays
// applies when the budget exceeds every tier ceiling.
//
// Two variants exist because the generation API and the conversational flow
// historically used slightly different thresholds. They are kept separate on
// purpose; collapsing them is a product decision, not a refactor.
type DurationTable struct {
	Staycation  []DurationTier `mapstructure:"staycation" json:"staycation"`
	Vacation    []DurationTier `mapstructure:"vacation" json:"vacation"`
	DefaultDays int            `mapstructure:"default_days" json:"default_days"`

	// LowBudgetStaycationMax is the budget below which a staycation is
	// treated as low-budget for cost-split purposes. The server table uses
	// 200, the chat table 300; the divergence is inherited and deliberate.
	LowBudgetStaycationMax float64 `mapstructure:"low_budget_staycation_max" json:"low_budget_staycation_max"`
}

// ServerDurationTable returns the tiers used by the generation API.
func ServerDurationTable() DurationTable {
	return DurationTable{
		Staycation: []DurationTier{
			{MaxBudget: 150, Days: 1},
			{MaxBudget: 300, Days: 2},
			{MaxBudget: 600, Days: 3},
			{MaxBudget: 1000, Days: 5},
		},
		Vacation: []DurationTier{
			{MaxBudget: 500, Days: 2},
			{MaxBudget: 1000, Days: 3},
			{MaxBudget: 2000, Days: 5},
		},
		DefaultDays:            7,
		LowBudgetStaycationMax: 200,
	}
}

// ChatDurationTable returns the tiers used by the conversational flow.
func ChatDurationTable() DurationTable {
	return DurationTable{
		Staycation: []DurationTier{
			{MaxBudget: 150, Days: 1},
			{MaxBudget: 350, Days: 2},
			{MaxBudget: 600, Days: 3},
			{MaxBudget: 1200, Days: 5},
		},
		Vacation: []DurationTier{
			{MaxBudget: 500, Days: 2},
			{MaxBudget: 1200, Days: 3},
			{MaxBudget: 2500, Days: 5},
		},
		DefaultDays:            7,
		LowBudgetStaycationMax: 300,
	}
}

// Duration returns the number of days for the given budget and mode. The
// result is monotonic non-decreasing in budget for a fixed mode.
func (t DurationTable) Duration(budget float64, mode trip.Mode) int {
	tiers := t.Vacation
	if mode == trip.ModeStaycation {
		tiers = t.Staycation
	}
	for _, tier := range tiers {
		if budget <= tier.MaxBudget {
			return tier.Days
		}
	}
	return t.DefaultDays
}

// IsLowBudgetStaycation reports whether the request qualifies for the
// low-budget staycation cost split (no flights, no hotels).
func (t DurationTable) IsLowBudgetStaycation(budget float64, mode trip.Mode) bool {
	return mode == trip.ModeStaycation && budget < t.LowBudgetStaycationMax
}

// DurationLabel renders a day count in the wire format used by packages.
func DurationLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}
