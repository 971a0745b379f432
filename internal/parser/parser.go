// Copyright 2025 Utrippin Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser extracts trip packages from raw provider output. Providers
// are offered a JSON contract but never held to it, so the parser locates an
// embedded JSON object inside arbitrary prose, tolerates partial payloads,
// backfills missing fields from the cost-split policy and recomputes every
// derived value before anything reaches a caller.
package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// ContentKind tags what a provider actually returned.
type ContentKind string

const (
	// ContentStructured means a valid trip payload was extracted.
	ContentStructured ContentKind = "structured"
	// ContentUnstructured means the output is narrative text with no usable
	// embedded payload; the client-side normalizer handles it instead.
	ContentUnstructured ContentKind = "unstructured"
)

// Content is the tagged result of classifying provider output.
type Content struct {
	Kind     ContentKind
	Packages []trip.Package
	RawText  string
}

// Parser validates and repairs provider responses.
type Parser struct {
	durations policy.DurationTable
	splits    policy.SplitTable
	logger    *zap.Logger
}

// New creates a parser backed by the given policy tables.
func New(durations policy.DurationTable, splits policy.SplitTable, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{durations: durations, splits: splits, logger: logger}
}

// envelope is the loosely-typed top level of a provider payload. Providers
// have been observed using either array property name.
type envelope struct {
	Trips       []rawPackage `json:"trips"`
	Suggestions []rawPackage `json:"suggestions"`
}

// rawPackage tolerates partial provider compliance: every field may be
// missing and costs may be fractional.
type rawPackage struct {
	Destination       string             `json:"destination"`
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	Summary           string             `json:"summary"`
	Duration          string             `json:"duration"`
	Budget            float64            `json:"budget"`
	Highlights        []string           `json:"highlights"`
	DetailedItinerary *trip.DayPlan      `json:"detailedItinerary"`
	CostBreakdown     *rawBreakdown      `json:"costBreakdown"`
	BookingLinks      *trip.BookingLinks `json:"bookingLinks"`
}

type rawBreakdown struct {
	Flights        *float64 `json:"flights"`
	Hotels         *float64 `json:"hotels"`
	Food           *float64 `json:"food"`
	Activities     *float64 `json:"activities"`
	Transportation *float64 `json:"transportation"`
}

// Parse extracts and validates trip packages from raw provider output. The
// returned packages have every derived value recomputed. A content-unparsable
// error means the caller must fall back to the deterministic synthesizer.
func (p *Parser) Parse(raw string, req trip.Request) ([]trip.Package, error) {
	span, ok := ExtractJSON(raw)
	if !ok {
		return nil, resilience.NewContentUnparsable("no JSON object found in provider output", nil)
	}

	var env envelope
	if err := json.Unmarshal([]byte(span), &env); err != nil {
		return nil, resilience.NewContentUnparsable("provider JSON did not parse", err)
	}

	items := env.Trips
	if len(items) == 0 {
		items = env.Suggestions
	}
	if len(items) == 0 {
		return nil, resilience.NewContentUnparsable("provider payload has no trips or suggestions", nil)
	}

	packages := make([]trip.Package, 0, len(items))
	for i, item := range items {
		packages = append(packages, p.repair(item, req, i))
	}

	p.logger.Debug("Provider payload parsed",
		zap.Int("package_count", len(packages)),
		zap.Int("raw_length", len(raw)),
	)

	return packages, nil
}

// Classify routes provider output into the structured/unstructured union.
// Both generation call sites share this single repair path.
func (p *Parser) Classify(raw string, req trip.Request) Content {
	packages, err := p.Parse(raw, req)
	if err != nil {
		return Content{Kind: ContentUnstructured, RawText: raw}
	}
	return Content{Kind: ContentStructured, Packages: packages}
}

// repair backfills missing fields and recomputes derived values for one item.
func (p *Parser) repair(item rawPackage, req trip.Request, index int) trip.Package {
	budget := item.Budget
	if budget <= 0 {
		budget = req.Budget
	}

	destination := strings.TrimSpace(item.Destination)
	if destination == "" {
		destination = fmt.Sprintf("Destination %d", index+1)
	}

	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = fmt.Sprintf("%s Getaway", destination)
	}

	summary := strings.TrimSpace(item.Summary)
	if summary == "" {
		summary = fmt.Sprintf("A curated %s experience in %s, planned around your budget.", req.Mode, destination)
	}

	pkgType := strings.TrimSpace(item.Type)
	if pkgType == "" {
		pkgType = "cultural"
	}

	duration := strings.TrimSpace(item.Duration)
	if duration == "" {
		duration = policy.DurationLabel(p.durations.Duration(budget, req.Mode))
	}

	highlights := item.Highlights
	if len(highlights) == 0 {
		highlights = []string{
			"Hand-picked local experiences",
			"Budget-conscious dining spots",
			"Flexible day-by-day pacing",
		}
	}

	low := p.durations.IsLowBudgetStaycation(budget, req.Mode)
	guidance := policy.Apply(budget, p.splits.Split(req.Mode, low))
	breakdown := mergeBreakdown(item.CostBreakdown, guidance)

	var plan trip.DayPlan
	if item.DetailedItinerary != nil {
		plan = *item.DetailedItinerary
		clampSegmentCosts(&plan)
	}

	var links trip.BookingLinks
	if item.BookingLinks != nil {
		links = *item.BookingLinks
	}

	pkg := trip.Package{
		Destination:       destination,
		Name:              name,
		Type:              pkgType,
		Summary:           summary,
		Duration:          duration,
		Highlights:        highlights,
		DetailedItinerary: plan,
		CostBreakdown:     breakdown,
		BookingLinks:      links,
	}
	pkg.Recompute(req.GroupSize)
	return pkg
}

// mergeBreakdown takes provider-supplied category values where present and
// policy guidance where absent. Negative values are treated as absent.
func mergeBreakdown(raw *rawBreakdown, guidance trip.CostBreakdown) trip.CostBreakdown {
	if raw == nil {
		return guidance
	}
	pick := func(v *float64, fallback int) int {
		if v == nil || *v < 0 {
			return fallback
		}
		return int(math.Round(*v))
	}
	return trip.CostBreakdown{
		Flights:        pick(raw.Flights, guidance.Flights),
		Hotels:         pick(raw.Hotels, guidance.Hotels),
		Food:           pick(raw.Food, guidance.Food),
		Activities:     pick(raw.Activities, guidance.Activities),
		Transportation: pick(raw.Transportation, guidance.Transportation),
	}
}

// clampSegmentCosts forces segment costs to non-negative integers.
func clampSegmentCosts(plan *trip.DayPlan) {
	clamp := func(s *trip.Segment) {
		if s != nil && s.Cost < 0 {
			s.Cost = 0
		}
	}
	if plan.Single != nil {
		clamp(plan.Single.Morning)
		clamp(plan.Single.Afternoon)
		clamp(plan.Single.Evening)
	}
	for key, day := range plan.Days {
		clamp(day.Morning)
		clamp(day.Afternoon)
		clamp(day.Evening)
		plan.Days[key] = day
	}
}

// ExtractJSON returns the first balanced curly-brace span in the text,
// skipping braces inside JSON strings. Surrounding prose is ignored.
func ExtractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
