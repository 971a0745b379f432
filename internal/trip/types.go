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

// Package trip defines the shared trip-package data model produced by the
// generation pipeline and consumed by the HTTP API, the deterministic
// synthesizer, and the content normalizer.
package trip

import (
	"encoding/json"
	"fmt"
	"math"
)

// Mode identifies the kind of trip being planned.
type Mode string

const (
	ModeVacation   Mode = "vacation"
	ModeStaycation Mode = "staycation"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	return m == ModeVacation || m == ModeStaycation
}

// Provider identifies which stage of the gateway produced a result.
type Provider string

const (
	ProviderPrimary   Provider = "Primary"
	ProviderSecondary Provider = "Secondary"
	ProviderFallback  Provider = "Fallback"
)

// Request is a single trip-generation submission. It is transient and
// consumed exactly once per call.
type Request struct {
	Budget         float64 `json:"budget"`
	GroupSize      int     `json:"groupSize"`
	Mode           Mode    `json:"mode"`
	Locality       string  `json:"locality,omitempty"`
	ConversationID string  `json:"conversationId,omitempty"`
}

// CostBreakdown is the five-category budget split. The categories sum to the
// package budget within integer-rounding tolerance (at most one unit per
// category).
type CostBreakdown struct {
	Flights        int `json:"flights"`
	Hotels         int `json:"hotels"`
	Food           int `json:"food"`
	Activities     int `json:"activities"`
	Transportation int `json:"transportation"`
}

// Total returns the sum across all five categories.
func (c CostBreakdown) Total() int {
	return c.Flights + c.Hotels + c.Food + c.Activities + c.Transportation
}

// Segment is one slot of a day (morning, afternoon or evening).
type Segment struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Location string `json:"location"`
	Cost     int    `json:"cost"`
}

// DaySchedule holds the segments of one day. Any segment may be absent.
type DaySchedule struct {
	Morning   *Segment `json:"morning,omitempty"`
	Afternoon *Segment `json:"afternoon,omitempty"`
	Evening   *Segment `json:"evening,omitempty"`
}

// DayPlan is the itinerary inside a trip package. Single-day trips carry one
// segmented day; multi-day trips carry a day1..dayN mapping. Exactly one of
// Single or Days is set.
type DayPlan struct {
	Single *DaySchedule
	Days   map[string]DaySchedule
}

// MarshalJSON emits either the single-day segment object or the day1..dayN
// mapping, matching the wire contract offered to providers.
func (p DayPlan) MarshalJSON() ([]byte, error) {
	if p.Single != nil {
		return json.Marshal(p.Single)
	}
	if p.Days != nil {
		return json.Marshal(p.Days)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts both shapes. An object with a morning, afternoon or
// evening key is treated as a single day; anything else is a day mapping.
func (p *DayPlan) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("day plan must be an object: %w", err)
	}

	_, hasMorning := probe["morning"]
	_, hasAfternoon := probe["afternoon"]
	_, hasEvening := probe["evening"]
	if hasMorning || hasAfternoon || hasEvening {
		var single DaySchedule
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("failed to parse single-day plan: %w", err)
		}
		p.Single = &single
		p.Days = nil
		return nil
	}

	days := make(map[string]DaySchedule, len(probe))
	for key, raw := range probe {
		var sched DaySchedule
		if err := json.Unmarshal(raw, &sched); err != nil {
			return fmt.Errorf("failed to parse plan for %s: %w", key, err)
		}
		days[key] = sched
	}
	p.Single = nil
	p.Days = days
	return nil
}

// DayCount returns the number of days covered by the plan.
func (p DayPlan) DayCount() int {
	if p.Single != nil {
		return 1
	}
	return len(p.Days)
}

// BookingLinks carries external booking URLs for downstream collaborators.
// Link construction itself is out of scope here.
type BookingLinks struct {
	Flights string `json:"flights,omitempty"`
	Hotels  string `json:"hotels,omitempty"`
	Cars    string `json:"cars,omitempty"`
}

// Package is one complete generated trip offer.
type Package struct {
	Destination       string        `json:"destination"`
	Name              string        `json:"name"`
	Type              string        `json:"type"`
	Summary           string        `json:"summary"`
	Duration          string        `json:"duration"`
	Budget            int           `json:"budget"`
	CostPerPerson     int           `json:"costPerPerson"`
	GroupSize         int           `json:"groupSize"`
	Highlights        []string      `json:"highlights"`
	DetailedItinerary DayPlan       `json:"detailedItinerary"`
	CostBreakdown     CostBreakdown `json:"costBreakdown"`
	BookingLinks      BookingLinks  `json:"bookingLinks"`
}

// Recompute derives the budget and per-person cost from the cost breakdown
// and group size. Derived values are never trusted verbatim from a provider.
func (p *Package) Recompute(groupSize int) {
	if groupSize < 1 {
		groupSize = 1
	}
	p.GroupSize = groupSize
	p.Budget = p.CostBreakdown.Total()
	p.CostPerPerson = PerPersonCost(float64(p.Budget), groupSize)
}

// PerPersonCost rounds budget/groupSize to the nearest whole unit.
func PerPersonCost(budget float64, groupSize int) int {
	if groupSize < 1 {
		groupSize = 1
	}
	return int(math.Round(budget / float64(groupSize)))
}

// GenerationResult is the outcome of one pipeline run. It always carries at
// least one package; Error is a soft annotation for degraded responses.
type GenerationResult struct {
	Packages []Package `json:"packages"`
	Provider Provider  `json:"provider"`
	Error    string    `json:"error,omitempty"`
}

// DayCard is the client-normalized view of one itinerary day. It is derived
// on every normalization pass and never persisted.
type DayCard struct {
	Title         string   `json:"title"`
	Activities    []string `json:"activities"`
	Meals         []string `json:"meals"`
	DailyCost     string   `json:"dailyCost"`
	PerPersonCost string   `json:"perPersonCost"`
}
