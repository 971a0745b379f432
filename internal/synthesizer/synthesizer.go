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

// Package synthesizer generates valid trip packages without any network
// calls. It backs the gateway's final stage, so it must never fail on valid
// input, and it is fully deterministic: identical inputs yield identical
// output, with no entropy source anywhere.
package synthesizer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// destination is one entry of a fixed pool.
type destination struct {
	name    string
	kind    string
	tagline string
}

var vacationPool = []destination{
	{name: "Lisbon, Portugal", kind: "cultural", tagline: "tiled facades, miradouros and pastel de nata"},
	{name: "Bali, Indonesia", kind: "relaxation", tagline: "rice terraces, temples and beach sunsets"},
	{name: "Reykjavik, Iceland", kind: "adventure", tagline: "geothermal pools and volcanic landscapes"},
	{name: "Kyoto, Japan", kind: "cultural", tagline: "shrines, gardens and tea-house alleys"},
	{name: "Cancun, Mexico", kind: "relaxation", tagline: "white sand, cenotes and Mayan ruins"},
	{name: "Prague, Czech Republic", kind: "cultural", tagline: "gothic spires and riverside cafes"},
	{name: "Marrakech, Morocco", kind: "adventure", tagline: "souks, riads and desert day trips"},
	{name: "Queenstown, New Zealand", kind: "adventure", tagline: "alpine lakes and adrenaline sports"},
}

var staycationPool = []destination{
	{name: "Historic Old Town", kind: "local", tagline: "heritage walks and hidden courtyards"},
	{name: "Downtown Arts District", kind: "local", tagline: "galleries, murals and coffee roasters"},
	{name: "Riverside Parks & Markets", kind: "local", tagline: "picnics, stalls and waterfront paths"},
	{name: "Museum Quarter", kind: "local", tagline: "exhibits, archives and quiet plazas"},
	{name: "Botanical Gardens & Spa", kind: "local", tagline: "greenhouses and an afternoon sauna"},
	{name: "Lakeside Retreat", kind: "local", tagline: "trails, kayaks and sunset piers"},
}

// dayThemes cycle across multi-day itineraries in fixed order.
var dayThemes = []string{
	"historic center",
	"cultural immersion",
	"adventure day",
	"local markets",
	"final exploration",
}

// Options controls package count and the deterministic pool offset.
type Options struct {
	// PackageCount is the number of packages to synthesize (4-6 typical).
	PackageCount int
	// StartIndex offsets destination selection within the pool so repeated
	// requests in one conversation can rotate destinations predictably.
	StartIndex int
}

// Synthesizer produces deterministic fallback trip packages.
type Synthesizer struct {
	durations policy.DurationTable
	splits    policy.SplitTable
	logger    *zap.Logger
}

// New creates a synthesizer backed by the given policy tables.
func New(durations policy.DurationTable, splits policy.SplitTable, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{durations: durations, splits: splits, logger: logger}
}

// Generate synthesizes trip packages for the request. It cannot fail on a
// repaired request and always returns at least one package.
func (s *Synthesizer) Generate(req trip.Request) []trip.Package {
	return s.GenerateWithOptions(req, Options{PackageCount: 5})
}

// GenerateWithOptions synthesizes packages with explicit count and offset.
func (s *Synthesizer) GenerateWithOptions(req trip.Request, opts Options) []trip.Package {
	count := opts.PackageCount
	if count < 1 {
		count = 5
	}

	pool := vacationPool
	if req.Mode == trip.ModeStaycation {
		pool = staycationPool
	}

	days := s.durations.Duration(req.Budget, req.Mode)
	low := s.durations.IsLowBudgetStaycation(req.Budget, req.Mode)
	split := s.splits.Split(req.Mode, low)
	breakdown := policy.Apply(req.Budget, split)

	packages := make([]trip.Package, 0, count)
	for i := 0; i < count; i++ {
		dest := pool[(opts.StartIndex+i)%len(pool)]
		packages = append(packages, s.buildPackage(req, dest, days, breakdown))
	}

	s.logger.Debug("Synthesized fallback packages",
		zap.Int("package_count", len(packages)),
		zap.Int("days", days),
		zap.String("mode", string(req.Mode)),
	)

	return packages
}

func (s *Synthesizer) buildPackage(req trip.Request, dest destination, days int, breakdown trip.CostBreakdown) trip.Package {
	name := dest.name
	if req.Mode == trip.ModeStaycation && req.Locality != "" {
		name = fmt.Sprintf("%s: %s", req.Locality, dest.name)
	}

	pkg := trip.Package{
		Destination: name,
		Name:        fmt.Sprintf("%s %s", name, titleSuffix(req.Mode)),
		Type:        dest.kind,
		Summary:     fmt.Sprintf("A %s built around %s.", policy.DurationLabel(days), dest.tagline),
		Duration:    policy.DurationLabel(days),
		Highlights: []string{
			capitalize(dest.tagline),
			fmt.Sprintf("Itinerary paced for a group of %d", req.GroupSize),
			"Costs planned to stay inside your budget",
		},
		DetailedItinerary: s.buildPlan(name, days, breakdown.Activities),
		CostBreakdown:     breakdown,
	}
	pkg.Recompute(req.GroupSize)
	return pkg
}

// buildPlan spreads the activities share of the budget evenly across the
// plan's segments, giving any integer remainder to the earliest segments.
func (s *Synthesizer) buildPlan(dest string, days, activitiesBudget int) trip.DayPlan {
	if days <= 1 {
		costs := spreadEvenly(activitiesBudget, 3)
		return trip.DayPlan{Single: &trip.DaySchedule{
			Morning: &trip.Segment{
				Time:     "9:00 AM",
				Activity: fmt.Sprintf("Walking tour of %s", dest),
				Location: dest,
				Cost:     costs[0],
			},
			Afternoon: &trip.Segment{
				Time:     "1:00 PM",
				Activity: "Lunch and a visit to a local landmark",
				Location: dest,
				Cost:     costs[1],
			},
			Evening: &trip.Segment{
				Time:     "7:00 PM",
				Activity: "Dinner at a neighborhood restaurant",
				Location: dest,
				Cost:     costs[2],
			},
		}}
	}

	costs := spreadEvenly(activitiesBudget, days*2)
	plan := make(map[string]trip.DaySchedule, days)
	for d := 0; d < days; d++ {
		theme := dayThemes[d%len(dayThemes)]
		plan[fmt.Sprintf("day%d", d+1)] = trip.DaySchedule{
			Morning: &trip.Segment{
				Time:     "9:00 AM",
				Activity: fmt.Sprintf("Morning in the %s", theme),
				Location: dest,
				Cost:     costs[d*2],
			},
			Afternoon: &trip.Segment{
				Time:     "2:00 PM",
				Activity: fmt.Sprintf("Afternoon exploring the %s", theme),
				Location: dest,
				Cost:     costs[d*2+1],
			},
		}
	}
	return trip.DayPlan{Days: plan}
}

// spreadEvenly splits total into n non-negative parts that sum to total.
func spreadEvenly(total, n int) []int {
	if n < 1 {
		n = 1
	}
	if total < 0 {
		total = 0
	}
	parts := make([]int, n)
	base := total / n
	rem := total % n
	for i := range parts {
		parts[i] = base
		if i < rem {
			parts[i]++
		}
	}
	return parts
}

func titleSuffix(mode trip.Mode) string {
	if mode == trip.ModeStaycation {
		return "Staycation"
	}
	return "Escape"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
