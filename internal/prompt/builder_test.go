package prompt

import (
	"strings"
	"testing"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

func buildTestInput() Input {
	split := policy.DefaultSplitTable().Vacation
	return Input{
		Request: trip.Request{
			Budget:    2000,
			GroupSize: 2,
			Mode:      trip.ModeVacation,
			Locality:  "Lisbon",
		},
		Days:     5,
		Split:    split,
		Guidance: policy.Apply(2000, split),
	}
}

func TestBuild_ContainsAllSections(t *testing.T) {
	prompt := Build(buildTestInput(), DefaultConfig())

	required := []string{
		"Generate 5 distinct vacation packages",
		"Total budget: 2000",
		"Group size: 2",
		"Trip length: 5 days",
		"Preferred area: Lisbon",
		"flights: 30%",
		"hotels: 35%",
		"Required Output Format",
		`"trips"`,
		`"costBreakdown"`,
		`"day1"`,
	}
	for _, section := range required {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing %q", section)
		}
	}

	if err := Validate(prompt); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestBuild_SingleDaySchema(t *testing.T) {
	in := buildTestInput()
	in.Days = 1
	in.Request.Locality = ""

	prompt := Build(in, DefaultConfig())

	if !strings.Contains(prompt, `"morning"`) || !strings.Contains(prompt, `"evening"`) {
		t.Error("single-day prompt should describe morning/afternoon/evening segments")
	}
	if strings.Contains(prompt, `"day1"`) {
		t.Error("single-day prompt should not describe a day mapping")
	}
	if strings.Contains(prompt, "Preferred area") {
		t.Error("prompt should omit locality when none was given")
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	long := strings.Repeat("travel planning ", 2000)

	truncated := TruncateToTokenLimit(long, 100)
	if EstimateTokens(truncated) > 100 {
		t.Errorf("truncated prompt still estimates %d tokens", EstimateTokens(truncated))
	}
	if !strings.HasSuffix(truncated, "[Prompt truncated due to length limits]") {
		t.Error("truncated prompt should carry the truncation notice")
	}

	short := "short prompt"
	if got := TruncateToTokenLimit(short, 100); got != short {
		t.Errorf("short prompt should be unchanged, got %q", got)
	}
}

func TestValidate_RejectsIncompletePrompts(t *testing.T) {
	if err := Validate(""); err == nil {
		t.Error("empty prompt should fail validation")
	}
	if err := Validate("just some text"); err == nil {
		t.Error("prompt without sections should fail validation")
	}
}
