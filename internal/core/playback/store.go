// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package playback owns the display playback session state machine. This
// file defines the SessionStore: the single slot holding the current
// DisplaySession. The store is injected into the Manager at construction,
// which keeps the state out of package globals and makes the manager
// testable and, later, extensible to multiple displays.
package playback

import (
	"sync"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// SessionStore holds at most one DisplaySession. Implementations must be
// safe for concurrent use, but atomicity across a read-modify-write sequence
// is the Manager's responsibility, not the store's.
type SessionStore interface {
	// Load returns the current session, or nil when the display is idle.
	Load() *model.DisplaySession

	// Store replaces the slot with the given session.
	Store(session *model.DisplaySession)

	// Clear empties the slot.
	Clear()
}

// memorySessionStore is the in-memory SessionStore used in production.
// Sessions are ephemeral by design; nothing survives a restart.
type memorySessionStore struct {
	mu      sync.RWMutex
	current *model.DisplaySession
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Load() *model.DisplaySession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *memorySessionStore) Store(session *model.DisplaySession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
}

func (s *memorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
