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

package normalizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMB305/v0-utrippin-sub004/internal/costrules"
)

func newTestNormalizer() *Normalizer {
	return New(costrules.DefaultTable(), DefaultConfig())
}

const markedUpContent = `
<p>Your trip to Lisbon is ready.</p>
<div class="day-card">
  <h3>Day 1: Historic Center</h3>
  <ul>
    <li>Visit the National Museum</li>
    <li>Walk the waterfront promenade</li>
  </ul>
  <ul>
    <li>Breakfast at a pastry shop</li>
    <li>Dinner at a restaurant by the river</li>
  </ul>
</div>
<div class="day-card">
  <h3>Day 2: Coastal Escape</h3>
  <ul>
    <li>Tour the coastline by tram</li>
  </ul>
  <ul>
    <li>Lunch at the fish market</li>
  </ul>
</div>
<div class="day-card">
  <h3>Day 3: Farewell</h3>
  <ul>
    <li>Explore the old quarter</li>
  </ul>
  <ul>
    <li>Breakfast before departure</li>
  </ul>
</div>
`

func TestNormalizeMarkedUpContent(t *testing.T) {
	cards := newTestNormalizer().Normalize(markedUpContent)
	require.Len(t, cards, 3)

	assert.Equal(t, "Day 1: Historic Center", cards[0].Title)
	assert.Equal(t, []string{"Visit the National Museum", "Walk the waterfront promenade"}, cards[0].Activities)
	assert.Equal(t, []string{"Breakfast at a pastry shop", "Dinner at a restaurant by the river"}, cards[0].Meals)

	assert.Equal(t, "Day 2: Coastal Escape", cards[1].Title)
	assert.Equal(t, []string{"Tour the coastline by tram"}, cards[1].Activities)

	assert.Equal(t, "Day 3: Farewell", cards[2].Title)

	for _, card := range cards {
		assert.NotEmpty(t, card.Activities)
		assert.NotEmpty(t, card.Meals)
	}
}

func TestNormalizeMarkedUpCosts(t *testing.T) {
	cards := newTestNormalizer().Normalize(markedUpContent)
	require.Len(t, cards, 3)

	// Day 1: museum 45 + default 20 activities, breakfast 15 + dinner-at-
	// restaurant 60 meals.
	assert.Equal(t, "$140", cards[0].DailyCost)
	assert.Equal(t, "$70", cards[0].PerPersonCost)
}

func TestNormalizeProseBucketsIntoDays(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Sentence number %d describes part of the journey. ", i)
	}
	cards := newTestNormalizer().Normalize(b.String())

	// 40 sentences / 10 per day = 4 synthetic days.
	require.Len(t, cards, 4)
	for _, card := range cards {
		assert.Equal(t, genericMeals, card.Meals)
	}
}

func TestNormalizeProseDayClamp(t *testing.T) {
	tests := []struct {
		name      string
		sentences int
		wantDays  int
	}{
		{name: "short text clamps up", sentences: 5, wantDays: 3},
		{name: "long text clamps down", sentences: 120, wantDays: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			for i := 0; i < tt.sentences; i++ {
				fmt.Fprintf(&b, "A full sentence about stop %d on the route. ", i)
			}
			cards := newTestNormalizer().Normalize(b.String())
			assert.Len(t, cards, tt.wantDays)
		})
	}
}

func TestNormalizeProseTriggerVerbs(t *testing.T) {
	content := "On arrival you should visit the harbor district for the views. " +
		"The weather in spring is usually mild and pleasant there. " +
		"Later you can explore the covered market near the station. " +
		"Most shops close early on Sundays across the old town. " +
		"A guide can tour the fortress walls with your group as well."

	cards := newTestNormalizer().Normalize(content)
	require.NotEmpty(t, cards)

	var got []string
	for _, card := range cards {
		got = append(got, card.Activities...)
	}
	require.Len(t, got, 3)
	for _, activity := range got {
		lower := strings.ToLower(activity)
		matched := strings.Contains(lower, "visit") ||
			strings.Contains(lower, "explore") ||
			strings.Contains(lower, "tour")
		assert.True(t, matched, "activity %q lacks a trigger verb", activity)
	}
}

func TestNormalizeProseActivityCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Today you should visit landmark number %d in the city. ", i)
	}
	cards := newTestNormalizer().Normalize(b.String())
	require.NotEmpty(t, cards)
	assert.LessOrEqual(t, len(cards[0].Activities), 4)
}

func TestNormalizeDiscardsShortFragments(t *testing.T) {
	cards := newTestNormalizer().Normalize("Go. See. Do. Eat.")
	assert.Empty(t, cards)
}

func TestNormalizeEmptyContent(t *testing.T) {
	assert.Empty(t, newTestNormalizer().Normalize(""))
}

func TestTruncateWords(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	long := strings.Join(words, " ")

	tr := TruncateWords(long, 150)
	assert.True(t, tr.HasMore)
	assert.False(t, tr.Expanded)
	assert.True(t, strings.HasSuffix(tr.Text, "..."))
	assert.Len(t, strings.Fields(tr.Text), 150)

	tr.Toggle()
	assert.True(t, tr.Expanded)

	short := TruncateWords("a brief description", 150)
	assert.False(t, short.HasMore)
	assert.Equal(t, "a brief description", short.Text)
}
