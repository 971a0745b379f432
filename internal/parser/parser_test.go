package parser

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

func newTestParser() *Parser {
	return New(policy.ServerDurationTable(), policy.DefaultSplitTable(), zap.NewNop())
}

func vacationRequest() trip.Request {
	return trip.Request{Budget: 2000, GroupSize: 2, Mode: trip.ModeVacation}
}

func TestParse_EmbeddedJSONInProse(t *testing.T) {
	// Provider returned narrative text with a single embedded object.
	raw := `Of course! Here are some wonderful options for your trip.

{"trips": [{"destination": "Porto, Portugal", "name": "Porto Riverside Escape",
"summary": "Wine cellars and riverside walks.", "duration": "5 days",
"highlights": ["Ribeira district", "Douro cruise"],
"costBreakdown": {"flights": 600, "hotels": 700, "food": 400, "activities": 200, "transportation": 100}}]}

Let me know if you'd like a different style of trip!`

	packages, err := newTestParser().Parse(raw, vacationRequest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(packages))
	}

	pkg := packages[0]
	if pkg.Destination != "Porto, Portugal" {
		t.Errorf("destination = %q", pkg.Destination)
	}
	if pkg.Budget != 2000 {
		t.Errorf("budget = %d, expected recomputed 2000", pkg.Budget)
	}
	if pkg.CostPerPerson != 1000 {
		t.Errorf("costPerPerson = %d, expected 1000", pkg.CostPerPerson)
	}
}

func TestParse_SuggestionsKey(t *testing.T) {
	raw := `{"suggestions": [{"destination": "Kyoto, Japan"}]}`

	packages, err := newTestParser().Parse(raw, vacationRequest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(packages))
	}
}

func TestParse_BackfillsMissingFields(t *testing.T) {
	raw := `{"trips": [{"destination": "Valencia, Spain"}]}`
	req := vacationRequest()

	packages, err := newTestParser().Parse(raw, req)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pkg := packages[0]
	if pkg.Name == "" || !strings.Contains(pkg.Name, "Valencia") {
		t.Errorf("backfilled name should mention the destination, got %q", pkg.Name)
	}
	if pkg.Summary == "" {
		t.Error("summary should be backfilled")
	}
	if len(pkg.Highlights) == 0 {
		t.Error("highlights should be backfilled")
	}
	if pkg.Duration != "5 days" {
		t.Errorf("duration = %q, expected policy duration for budget 2000", pkg.Duration)
	}

	// The breakdown comes from the cost-split policy applied to the
	// requested budget, so it sums exactly.
	if pkg.CostBreakdown.Total() != 2000 {
		t.Errorf("backfilled breakdown total = %d, expected 2000", pkg.CostBreakdown.Total())
	}
	if pkg.CostPerPerson != trip.PerPersonCost(float64(pkg.Budget), req.GroupSize) {
		t.Errorf("costPerPerson = %d, not derived from budget/groupSize", pkg.CostPerPerson)
	}
}

func TestParse_PartialBreakdownMerged(t *testing.T) {
	raw := `{"trips": [{"destination": "Oslo, Norway",
		"costBreakdown": {"flights": 800, "hotels": 600}}]}`

	packages, err := newTestParser().Parse(raw, vacationRequest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	b := packages[0].CostBreakdown
	if b.Flights != 800 || b.Hotels != 600 {
		t.Errorf("provider-supplied categories should be kept: %+v", b)
	}
	if b.Food == 0 || b.Activities == 0 || b.Transportation == 0 {
		t.Errorf("missing categories should be backfilled from policy: %+v", b)
	}
}

func TestParse_DerivedValuesNeverTrusted(t *testing.T) {
	// Provider claims absurd totals; the parser recomputes from the breakdown.
	raw := `{"trips": [{"destination": "Rome, Italy", "budget": 99999,
		"costBreakdown": {"flights": 100, "hotels": 100, "food": 100, "activities": 100, "transportation": 100}}]}`

	packages, err := newTestParser().Parse(raw, vacationRequest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pkg := packages[0]
	if pkg.Budget != 500 {
		t.Errorf("budget = %d, expected sum of breakdown 500", pkg.Budget)
	}
	if pkg.CostPerPerson != 250 {
		t.Errorf("costPerPerson = %d, expected 250", pkg.CostPerPerson)
	}
}

func TestParse_MalformedPayload(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "no JSON at all", raw: "I'd love to help you plan a trip! Where would you like to go?"},
		{name: "truncated object", raw: `{"trips": [{"destination": "Lima`},
		{name: "empty trips array", raw: `{"trips": []}`},
		{name: "wrong top-level shape", raw: `{"message": "here are your trips"}`},
	}

	p := newTestParser()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Parse(tc.raw, vacationRequest())
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !resilience.IsCode(err, resilience.ErrorCodeContentUnparsable) {
				t.Errorf("expected CONTENT_UNPARSABLE, got %v", err)
			}
		})
	}
}

func TestClassify_TaggedUnion(t *testing.T) {
	p := newTestParser()
	req := vacationRequest()

	structured := p.Classify(`{"trips": [{"destination": "Lyon, France"}]}`, req)
	if structured.Kind != ContentStructured || len(structured.Packages) != 1 {
		t.Errorf("expected structured content, got %+v", structured.Kind)
	}

	prose := p.Classify("Day 1: wander the old town and enjoy local food.", req)
	if prose.Kind != ContentUnstructured {
		t.Errorf("expected unstructured content, got %+v", prose.Kind)
	}
	if prose.RawText == "" {
		t.Error("unstructured content should keep the raw text")
	}
}

func TestExtractJSON(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "bare object", raw: `{"a": 1}`, expected: `{"a": 1}`, ok: true},
		{name: "nested braces", raw: `x {"a": {"b": 2}} y`, expected: `{"a": {"b": 2}}`, ok: true},
		{name: "braces inside strings", raw: `{"a": "{not a brace}"}`, expected: `{"a": "{not a brace}"}`, ok: true},
		{name: "escaped quote", raw: `{"a": "say \"hi\" {"}`, expected: `{"a": "say \"hi\" {"}`, ok: true},
		{name: "unbalanced", raw: `{"a": 1`, ok: false},
		{name: "no object", raw: "plain text", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSON(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v", ok, tc.ok)
			}
			if ok && got != tc.expected {
				t.Errorf("span = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestParse_SingleDayItineraryShape(t *testing.T) {
	raw := `{"trips": [{"destination": "Ghent, Belgium", "detailedItinerary": {
		"morning": {"time": "9:00 AM", "activity": "Canal walk", "location": "Graslei", "cost": -5},
		"evening": {"time": "7:00 PM", "activity": "Dinner", "location": "Patershol", "cost": 60}}}]}`

	packages, err := newTestParser().Parse(raw, vacationRequest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	plan := packages[0].DetailedItinerary
	if plan.Single == nil {
		t.Fatal("expected a single-day plan")
	}
	if plan.Single.Morning.Cost != 0 {
		t.Errorf("negative segment cost should clamp to 0, got %d", plan.Single.Morning.Cost)
	}
	if plan.Single.Evening.Cost != 60 {
		t.Errorf("evening cost = %d", plan.Single.Evening.Cost)
	}
}
