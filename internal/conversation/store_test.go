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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "conversations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAppendAndHistory(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append("conv-1", Message{Seq: 1, Role: RoleUser, Content: "plan me a trip"}))
	require.NoError(t, store.Append("conv-1", Message{Seq: 1, Role: RoleAssistant, Content: "five packages", Provider: "Fallback"}))
	require.NoError(t, store.Append("conv-2", Message{Seq: 1, Role: RoleUser, Content: "another chat"}))

	history, err := store.History("conv-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "five packages", history[1].Content)
	assert.Equal(t, "Fallback", history[1].Provider)

	limited, err := store.History("conv-1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "plan me a trip", limited[0].Content)
}

func TestStoreHistoryUnknownConversation(t *testing.T) {
	store := newTestStore(t)

	history, err := store.History("missing", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStoreConversations(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append("b", Message{Seq: 1, Role: RoleUser, Content: "x"}))
	require.NoError(t, store.Append("a", Message{Seq: 1, Role: RoleUser, Content: "y"}))
	require.NoError(t, store.Append("a", Message{Seq: 2, Role: RoleUser, Content: "z"}))

	ids, err := store.Conversations()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestLogPersistsThroughStore(t *testing.T) {
	store := newTestStore(t)
	log := NewLog(store, nil)

	seq := log.Begin("conv-1")
	require.True(t, log.Append("conv-1", seq, Message{Role: RoleUser, Content: "hello"}))

	persisted, err := store.History("conv-1", 0)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "hello", persisted[0].Content)
	assert.Equal(t, seq, persisted[0].Seq)
}
