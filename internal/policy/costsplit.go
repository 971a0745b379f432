package policy

import (
	"math"
	"sort"

	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// SplitPercentages is a five-way budget allocation expressed as fractions
// summing to 1.0.
type SplitPercentages struct {
	Flights        float64 `mapstructure:"flights" json:"flights"`
	Hotels         float64 `mapstructure:"hotels" json:"hotels"`
	Food           float64 `mapstructure:"food" json:"food"`
	Activities     float64 `mapstructure:"activities" json:"activities"`
	Transportation float64 `mapstructure:"transportation" json:"transportation"`
}

// SplitTable maps trip mode and budget tier to a percentage allocation.
// The split is guidance for the prompt builder and the authoritative
// fallback for the parser and the deterministic synthesizer.
type SplitTable struct {
	Vacation            SplitPercentages `mapstructure:"vacation" json:"vacation"`
	Staycation          SplitPercentages `mapstructure:"staycation" json:"staycation"`
	LowBudgetStaycation SplitPercentages `mapstructure:"low_budget_staycation" json:"low_budget_staycation"`
}

// DefaultSplitTable returns the standard allocation policy. A low-budget
// staycation carries no flights or hotels; transportation covers incidentals
// such as parking and rideshare rather than intercity travel.
func DefaultSplitTable() SplitTable {
	return SplitTable{
		Vacation: SplitPercentages{
			Flights:        0.30,
			Hotels:         0.35,
			Food:           0.20,
			Activities:     0.10,
			Transportation: 0.05,
		},
		Staycation: SplitPercentages{
			Flights:        0,
			Hotels:         0.35,
			Food:           0.30,
			Activities:     0.25,
			Transportation: 0.10,
		},
		LowBudgetStaycation: SplitPercentages{
			Flights:        0,
			Hotels:         0,
			Food:           0.60,
			Activities:     0.30,
			Transportation: 0.10,
		},
	}
}

// Split selects the allocation for a mode, using the low-budget staycation
// row when the duration table flags the request as low-budget.
func (t SplitTable) Split(mode trip.Mode, lowBudgetStaycation bool) SplitPercentages {
	if mode == trip.ModeStaycation {
		if lowBudgetStaycation {
			return t.LowBudgetStaycation
		}
		return t.Staycation
	}
	return t.Vacation
}

// Apply converts percentages into a concrete cost breakdown whose categories
// sum exactly to the rounded budget. Integer remainders are distributed to
// the categories with the largest fractional shares.
func Apply(budget float64, pct SplitPercentages) trip.CostBreakdown {
	total := int(math.Round(budget))
	if total < 0 {
		total = 0
	}

	shares := []float64{
		budget * pct.Flights,
		budget * pct.Hotels,
		budget * pct.Food,
		budget * pct.Activities,
		budget * pct.Transportation,
	}

	floors := make([]int, len(shares))
	sum := 0
	for i, s := range shares {
		floors[i] = int(math.Floor(s))
		sum += floors[i]
	}

	// Hand out the remaining units by descending fractional part.
	type frac struct {
		idx  int
		part float64
	}
	fracs := make([]frac, len(shares))
	for i, s := range shares {
		fracs[i] = frac{idx: i, part: s - math.Floor(s)}
	}
	sort.SliceStable(fracs, func(i, j int) bool { return fracs[i].part > fracs[j].part })

	rem := total - sum
	for i := 0; i < rem; i++ {
		floors[fracs[i%len(fracs)].idx]++
	}

	return trip.CostBreakdown{
		Flights:        floors[0],
		Hotels:         floors[1],
		Food:           floors[2],
		Activities:     floors[3],
		Transportation: floors[4],
	}
}
