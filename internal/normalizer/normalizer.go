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

// Package normalizer turns itinerary content of unknown shape into canonical
// day cards. Marked-up content is read card by card; plain prose is split
// into sentences and bucketed into synthetic days. It runs independently of
// the server pipeline so it can normalize content from any source.
package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AMB305/v0-utrippin-sub004/internal/costrules"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

var (
	dayCardRe  = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*day-card[^"]*"[^>]*>(.*?)</div>`)
	headingRe  = regexp.MustCompile(`(?s)<h\d[^>]*>(.*?)</h\d>`)
	listRe     = regexp.MustCompile(`(?s)<ul[^>]*>(.*?)</ul>`)
	itemRe     = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// Config tunes the prose-bucketing heuristic.
type Config struct {
	// AssumedPartySize divides daily cost when the true party size is not
	// recoverable from the text being parsed.
	AssumedPartySize int
	// MinSentenceLength drops fragments shorter than this many characters.
	MinSentenceLength int
	// SentencesPerDay sizes the synthetic day count before clamping.
	SentencesPerDay int
	// MinDays and MaxDays clamp the synthetic day count.
	MinDays int
	MaxDays int
	// MaxActivitiesPerDay caps tagged activities per bucket.
	MaxActivitiesPerDay int
	// TriggerVerbs tag a sentence as an activity.
	TriggerVerbs []string
}

// DefaultConfig returns the normalization defaults.
func DefaultConfig() Config {
	return Config{
		AssumedPartySize:    2,
		MinSentenceLength:   20,
		SentencesPerDay:     10,
		MinDays:             3,
		MaxDays:             5,
		MaxActivitiesPerDay: 4,
		TriggerVerbs:        []string{"visit", "explore", "tour"},
	}
}

// genericMeals are the templated meal entries attached to synthetic days.
var genericMeals = []string{
	"Breakfast at a nearby cafe",
	"Lunch at a local favorite",
	"Dinner at a recommended restaurant",
}

// Normalizer converts free-form itinerary content into day cards.
type Normalizer struct {
	rules costrules.Table
	cfg   Config
}

// New creates a normalizer with the given cost rules and config.
func New(rules costrules.Table, cfg Config) *Normalizer {
	if cfg.AssumedPartySize < 1 {
		cfg.AssumedPartySize = 2
	}
	return &Normalizer{rules: rules, cfg: cfg}
}

// Normalize produces one day card per marked-up card, or synthetic days
// bucketed from prose when no markers are present.
func (n *Normalizer) Normalize(content string) []trip.DayCard {
	if cards := n.fromMarkup(content); len(cards) > 0 {
		return cards
	}
	return n.fromProse(content)
}

// fromMarkup extracts day cards from known markers: a heading for the title,
// the first bulleted list for activities, the second for meals.
func (n *Normalizer) fromMarkup(content string) []trip.DayCard {
	matches := dayCardRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	cards := make([]trip.DayCard, 0, len(matches))
	for i, match := range matches {
		body := match[1]

		title := fmt.Sprintf("Day %d", i+1)
		if h := headingRe.FindStringSubmatch(body); h != nil {
			if t := cleanText(h[1]); t != "" {
				title = t
			}
		}

		var activities, meals []string
		lists := listRe.FindAllStringSubmatch(body, -1)
		if len(lists) > 0 {
			activities = extractItems(lists[0][1])
		}
		if len(lists) > 1 {
			meals = extractItems(lists[1][1])
		}

		cards = append(cards, n.finishCard(title, activities, meals))
	}
	return cards
}

// fromProse splits plain text into sentences and buckets them into a bounded
// number of synthetic days.
func (n *Normalizer) fromProse(content string) []trip.DayCard {
	sentences := splitSentences(content, n.cfg.MinSentenceLength)
	if len(sentences) == 0 {
		return nil
	}

	days := len(sentences) / n.cfg.SentencesPerDay
	if days < n.cfg.MinDays {
		days = n.cfg.MinDays
	}
	if days > n.cfg.MaxDays {
		days = n.cfg.MaxDays
	}

	cards := make([]trip.DayCard, 0, days)
	perDay := (len(sentences) + days - 1) / days
	for d := 0; d < days; d++ {
		start := d * perDay
		if start >= len(sentences) {
			cards = append(cards, n.finishCard(fmt.Sprintf("Day %d", d+1), nil, genericMeals))
			continue
		}
		end := start + perDay
		if end > len(sentences) {
			end = len(sentences)
		}

		var activities []string
		for _, sentence := range sentences[start:end] {
			if len(activities) >= n.cfg.MaxActivitiesPerDay {
				break
			}
			if containsVerb(sentence, n.cfg.TriggerVerbs) {
				activities = append(activities, sentence)
			}
		}

		cards = append(cards, n.finishCard(fmt.Sprintf("Day %d", d+1), activities, genericMeals))
	}
	return cards
}

// finishCard applies the cost heuristic and formats the derived amounts.
func (n *Normalizer) finishCard(title string, activities, meals []string) trip.DayCard {
	daily := n.rules.DayCost(activities, meals)
	perPerson := trip.PerPersonCost(float64(daily), n.cfg.AssumedPartySize)

	if activities == nil {
		activities = []string{}
	}
	if meals == nil {
		meals = []string{}
	}

	return trip.DayCard{
		Title:         title,
		Activities:    activities,
		Meals:         meals,
		DailyCost:     fmt.Sprintf("$%d", daily),
		PerPersonCost: fmt.Sprintf("$%d", perPerson),
	}
}

// Truncation is a length-limited view of descriptive text with the only
// mutable normalizer state: the show-more toggle for the displayed content.
type Truncation struct {
	Text     string `json:"text"`
	HasMore  bool   `json:"hasMore"`
	Expanded bool   `json:"expanded"`
}

// Toggle flips the expand/collapse flag.
func (t *Truncation) Toggle() {
	t.Expanded = !t.Expanded
}

// TruncateWords limits text to the given word count, appending an ellipsis
// when anything was cut. Shorter text passes through unchanged.
func TruncateWords(text string, maxWords int) Truncation {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return Truncation{Text: text, HasMore: false}
	}
	return Truncation{
		Text:    strings.Join(words[:maxWords], " ") + "...",
		HasMore: true,
	}
}

func splitSentences(content string, minLen int) []string {
	var sentences []string
	for _, part := range sentenceRe.Split(content, -1) {
		s := strings.TrimSpace(part)
		if len(s) >= minLen {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func containsVerb(sentence string, verbs []string) bool {
	lower := strings.ToLower(sentence)
	for _, v := range verbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

func extractItems(listBody string) []string {
	var items []string
	for _, m := range itemRe.FindAllStringSubmatch(listBody, -1) {
		if item := cleanText(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func cleanText(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}
