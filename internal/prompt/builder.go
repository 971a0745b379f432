// Package prompt assembles generation requests for the trip providers. The
// prompt states the desired package count, duration, cost-split guidance and
// an explicit JSON schema for the output. The schema is a contract offered
// to the provider, not enforced on it; downstream parsing must tolerate
// partial compliance.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// Config holds limits for prompt generation.
type Config struct {
	PackageCount int
	MaxTokens    int
}

// DefaultConfig returns the default prompt limits.
func DefaultConfig() Config {
	return Config{
		PackageCount: 5,
		MaxTokens:    4000,
	}
}

// Input carries everything the builder embeds into a prompt.
type Input struct {
	Request  trip.Request
	Days     int
	Split    policy.SplitPercentages
	Guidance trip.CostBreakdown
}

// SystemPrompt returns the persona and output-format instructions shared by
// every generation request.
func SystemPrompt() string {
	return `You are an expert travel planner. You design complete, bookable trip packages tailored to a traveler's budget, group size and trip mode.

When responding:
- Stay strictly within the stated total budget
- Make every activity and meal concrete and locally specific
- Respond with a single JSON object and nothing else
- Use whole numbers for all cost fields`
}

// Build assembles the user prompt for one generation request.
func Build(in Input, cfg Config) string {
	var b strings.Builder

	mode := string(in.Request.Mode)
	b.WriteString(fmt.Sprintf("Generate %d distinct %s packages as a JSON object.\n\n", cfg.PackageCount, mode))

	b.WriteString("--- Trip Parameters ---\n")
	b.WriteString(fmt.Sprintf("Total budget: %.0f\n", in.Request.Budget))
	b.WriteString(fmt.Sprintf("Group size: %d\n", in.Request.GroupSize))
	b.WriteString(fmt.Sprintf("Trip length: %s\n", policy.DurationLabel(in.Days)))
	if in.Request.Locality != "" {
		b.WriteString(fmt.Sprintf("Preferred area: %s\n", in.Request.Locality))
	}

	b.WriteString("\n--- Budget Allocation Guidance ---\n")
	b.WriteString(fmt.Sprintf("flights: %.0f%% (~%d)\n", in.Split.Flights*100, in.Guidance.Flights))
	b.WriteString(fmt.Sprintf("hotels: %.0f%% (~%d)\n", in.Split.Hotels*100, in.Guidance.Hotels))
	b.WriteString(fmt.Sprintf("food: %.0f%% (~%d)\n", in.Split.Food*100, in.Guidance.Food))
	b.WriteString(fmt.Sprintf("activities: %.0f%% (~%d)\n", in.Split.Activities*100, in.Guidance.Activities))
	b.WriteString(fmt.Sprintf("transportation: %.0f%% (~%d)\n", in.Split.Transportation*100, in.Guidance.Transportation))

	b.WriteString("\n" + schemaContract(in.Days))

	out := b.String()
	if EstimateTokens(out) > cfg.MaxTokens {
		out = TruncateToTokenLimit(out, cfg.MaxTokens)
	}
	return out
}

// schemaContract describes the expected output shape. Single-day trips use a
// segmented day object; longer trips use a day1..dayN mapping.
func schemaContract(days int) string {
	itinerary := `"detailedItinerary": {
      "morning": {"time": "9:00 AM", "activity": "...", "location": "...", "cost": 0},
      "afternoon": {"time": "1:00 PM", "activity": "...", "location": "...", "cost": 0},
      "evening": {"time": "7:00 PM", "activity": "...", "location": "...", "cost": 0}
    }`
	if days > 1 {
		itinerary = fmt.Sprintf(`"detailedItinerary": {
      "day1": {"morning": {"time": "...", "activity": "...", "location": "...", "cost": 0},
               "afternoon": {"time": "...", "activity": "...", "location": "...", "cost": 0}},
      "...": "one entry per day up to day%d"
    }`, days)
	}

	return fmt.Sprintf(`--- Required Output Format ---
Return exactly one JSON object with this structure:

{
  "trips": [{
    "destination": "City, Country",
    "name": "Package name",
    "type": "adventure|cultural|relaxation|local",
    "summary": "Two-sentence pitch",
    "duration": "%s",
    "highlights": ["...", "...", "..."],
    %s,
    "costBreakdown": {"flights": 0, "hotels": 0, "food": 0, "activities": 0, "transportation": 0}
  }]
}

All cost fields are whole non-negative numbers. The costBreakdown categories must sum to the total budget.`,
		policy.DurationLabel(days), itinerary)
}

// EstimateTokens provides a rough token estimate (4 characters per token).
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

// TruncateToTokenLimit truncates text to fit within the token limit.
func TruncateToTokenLimit(text string, maxTokens int) string {
	if EstimateTokens(text) <= maxTokens {
		return text
	}

	targetChars := int(float64(maxTokens) * 4 * 0.9)
	runes := []rune(text)
	if len(runes) > targetChars {
		return string(runes[:targetChars]) + "...\n\n[Prompt truncated due to length limits]"
	}
	return text
}

// Validate checks that a built prompt carries the sections providers rely on.
func Validate(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if !strings.Contains(prompt, "Trip Parameters") {
		return fmt.Errorf("prompt must contain trip parameters section")
	}
	if !strings.Contains(prompt, "Budget Allocation Guidance") {
		return fmt.Errorf("prompt must contain budget allocation guidance")
	}
	if !strings.Contains(prompt, "Required Output Format") {
		return fmt.Errorf("prompt must contain the output schema contract")
	}
	return nil
}
