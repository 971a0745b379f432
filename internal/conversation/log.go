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

// Package conversation keeps the append-only message log behind the trip
// generation chat. Each request against a conversation gets a sequence
// number; only the result of the latest sequence is appended, so a slow
// generation never clobbers a newer one.
package conversation

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation log. Provider records which backend
// produced an assistant message; it is empty for user messages.
type Message struct {
	Seq       int64     `json:"seq"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// convState is the per-conversation log plus its request bookkeeping.
// Its mutex serializes appends without blocking other conversations.
type convState struct {
	mu       sync.Mutex
	latest   int64
	messages []Message
}

// Log tracks conversations in memory, optionally persisting accepted
// messages to a Store.
type Log struct {
	mu     sync.Mutex
	convs  map[string]*convState
	store  *Store
	logger *zap.Logger
}

// NewLog creates a conversation log. store may be nil for memory-only use.
func NewLog(store *Store, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		convs:  make(map[string]*convState),
		store:  store,
		logger: logger,
	}
}

func (l *Log) state(conversationID string) *convState {
	l.mu.Lock()
	defer l.mu.Unlock()
	cs, ok := l.convs[conversationID]
	if !ok {
		cs = &convState{}
		l.convs[conversationID] = cs
	}
	return cs
}

// Begin issues the next request sequence for a conversation. Sequences are
// strictly increasing per conversation.
func (l *Log) Begin(conversationID string) int64 {
	cs := l.state(conversationID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.latest++
	return cs.latest
}

// Append records messages for the given request sequence. When a newer
// sequence has been issued since Begin, the messages are discarded and
// Append reports false.
func (l *Log) Append(conversationID string, seq int64, msgs ...Message) bool {
	cs := l.state(conversationID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if seq != cs.latest {
		l.logger.Debug("discarding stale conversation result",
			zap.String("conversation_id", conversationID),
			zap.Int64("seq", seq),
			zap.Int64("latest", cs.latest))
		return false
	}

	now := time.Now().UTC()
	for i := range msgs {
		msgs[i].Seq = seq
		if msgs[i].CreatedAt.IsZero() {
			msgs[i].CreatedAt = now
		}
	}
	cs.messages = append(cs.messages, msgs...)

	if l.store != nil {
		for _, msg := range msgs {
			if err := l.store.Append(conversationID, msg); err != nil {
				l.logger.Error("failed to persist conversation message",
					zap.String("conversation_id", conversationID),
					zap.Error(err))
			}
		}
	}
	return true
}

// History returns a copy of the conversation's messages in append order.
func (l *Log) History(conversationID string) []Message {
	cs := l.state(conversationID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]Message, len(cs.messages))
	copy(out, cs.messages)
	return out
}

// Latest returns the most recently issued sequence for a conversation, or
// zero when none has been issued.
func (l *Log) Latest(conversationID string) int64 {
	cs := l.state(conversationID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.latest
}
