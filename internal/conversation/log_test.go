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

package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAndHistory(t *testing.T) {
	log := NewLog(nil, nil)

	seq := log.Begin("conv-1")
	ok := log.Append("conv-1", seq,
		Message{Role: RoleUser, Content: "plan me a trip"},
		Message{Role: RoleAssistant, Content: "here are five packages", Provider: "Primary"},
	)
	require.True(t, ok)

	history := log.History("conv-1")
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, "Primary", history[1].Provider)
	assert.Equal(t, seq, history[0].Seq)
	assert.False(t, history[0].CreatedAt.IsZero())
}

func TestLogSequencesIncrease(t *testing.T) {
	log := NewLog(nil, nil)

	first := log.Begin("conv-1")
	second := log.Begin("conv-1")
	assert.Greater(t, second, first)

	// Sequences are per conversation.
	other := log.Begin("conv-2")
	assert.Equal(t, first, other)
}

func TestLogStaleResultDiscarded(t *testing.T) {
	log := NewLog(nil, nil)

	slow := log.Begin("conv-1")
	fresh := log.Begin("conv-1")

	// The slow request finishes after a newer one was issued.
	ok := log.Append("conv-1", slow, Message{Role: RoleAssistant, Content: "stale"})
	assert.False(t, ok)
	assert.Empty(t, log.History("conv-1"))

	ok = log.Append("conv-1", fresh, Message{Role: RoleAssistant, Content: "current"})
	require.True(t, ok)

	history := log.History("conv-1")
	require.Len(t, history, 1)
	assert.Equal(t, "current", history[0].Content)
}

func TestLogHistoryIsACopy(t *testing.T) {
	log := NewLog(nil, nil)
	seq := log.Begin("conv-1")
	log.Append("conv-1", seq, Message{Role: RoleUser, Content: "original"})

	history := log.History("conv-1")
	history[0].Content = "mutated"

	assert.Equal(t, "original", log.History("conv-1")[0].Content)
}

func TestLogConcurrentConversations(t *testing.T) {
	log := NewLog(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conv-%d", i)
			for j := 0; j < 20; j++ {
				seq := log.Begin(id)
				log.Append(id, seq, Message{Role: RoleUser, Content: "msg"})
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("conv-%d", i)
		assert.Len(t, log.History(id), 20)
		assert.Equal(t, int64(20), log.Latest(id))
	}
}
