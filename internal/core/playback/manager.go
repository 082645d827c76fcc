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
// file defines the Manager, which enforces the session lifecycle:
//
//	[no session] --start--> playing
//	playing --pause--> paused         (re-pause is an idempotent success)
//	paused --resume--> playing        (re-resume is an idempotent success)
//	playing/paused --stop--> [no session], after emitting a final stopped snapshot
//	playing/paused --start--> playing (hard replace, no transition bookkeeping)
//	[no session] --pause|resume|stop--> ErrNoActiveSession
//
// Every operation runs as a mutually exclusive critical section over the
// session slot, so concurrent control requests resolve to one of the defined
// outcomes rather than a partially updated record.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// Sentinel errors for the state machine. Handlers map these onto the HTTP
// status codes of the display API (404 and 409 respectively).
var (
	// ErrVideoNotFound is returned by Start when the requested video does
	// not exist in the catalog. Catalog implementations return it from
	// Lookup so the manager can pass it through wrapped.
	ErrVideoNotFound = errors.New("video not found")

	// ErrNoActiveSession is returned by Pause, Resume and Stop when the
	// display is idle.
	ErrNoActiveSession = errors.New("no active session")
)

// VideoCatalog is the lookup-by-id capability the manager needs from the
// video catalog. Start only checks existence; everything else about the
// catalog is somebody else's concern.
type VideoCatalog interface {
	Lookup(ctx context.Context, id string) (*model.Video, error)
}

// StartRequest carries the parameters of a play operation.
type StartRequest struct {
	VideoId       string
	LoopEnabled   bool
	StartPosition float64
	DisplayMode   string // Defaults to fullscreen when empty.
	Origin        string // Provenance: web, m5stack. Defaults to web.
}

// Manager owns the single playback session slot. All mutating operations
// serialize on an internal mutex; the injected SessionStore is a dumb cell.
type Manager struct {
	mu      sync.Mutex
	store   SessionStore
	catalog VideoCatalog
	now     func() time.Time
}

// NewManager creates a Manager over the given session store and catalog.
func NewManager(store SessionStore, catalog VideoCatalog) *Manager {
	return &Manager{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// Start begins playback of the requested video, unconditionally replacing
// any existing session with a fresh one in the playing state. When the video
// id does not resolve in the catalog, ErrVideoNotFound is returned and the
// current session, if any, is left untouched.
func (m *Manager) Start(ctx context.Context, req StartRequest) (model.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	video, err := m.catalog.Lookup(ctx, req.VideoId)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return model.SessionSnapshot{}, fmt.Errorf("%w: %s", ErrVideoNotFound, req.VideoId)
		}
		return model.SessionSnapshot{}, fmt.Errorf("catalog lookup for %s: %w", req.VideoId, err)
	}
	if video == nil {
		return model.SessionSnapshot{}, fmt.Errorf("%w: %s", ErrVideoNotFound, req.VideoId)
	}

	mode := req.DisplayMode
	if mode == "" {
		mode = "fullscreen"
	}
	origin := req.Origin
	if origin == "" {
		origin = model.SessionOriginWeb
	}

	session := model.NewDisplaySession(req.VideoId, req.LoopEnabled, req.StartPosition, mode, origin)
	m.store.Store(session)
	return session.Snapshot(m.now()), nil
}

// Pause freezes the playback position. Pausing an already paused session is
// an idempotent success.
func (m *Manager) Pause() (model.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.store.Load()
	if session == nil {
		return model.SessionSnapshot{}, ErrNoActiveSession
	}

	now := m.now()
	if session.PlaybackStatus == model.PlaybackPlaying {
		// Fold the running segment into the base so the offset freezes.
		session.PositionBase = session.Position(now)
		session.PlaybackStatus = model.PlaybackPaused
		m.store.Store(session)
	}
	return session.Snapshot(now), nil
}

// Resume puts the session back into the playing state. Resuming a session
// that is already playing is an idempotent success.
func (m *Manager) Resume() (model.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.store.Load()
	if session == nil {
		return model.SessionSnapshot{}, ErrNoActiveSession
	}

	now := m.now()
	if session.PlaybackStatus != model.PlaybackPlaying {
		session.PlaybackStatus = model.PlaybackPlaying
		session.ResumedAt = now
		m.store.Store(session)
	}
	return session.Snapshot(now), nil
}

// Stop marks the session stopped, clears the slot, and returns the final
// snapshot. A second stop without an intervening start fails with
// ErrNoActiveSession.
func (m *Manager) Stop() (model.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.store.Load()
	if session == nil {
		return model.SessionSnapshot{}, ErrNoActiveSession
	}

	now := m.now()
	session.PositionBase = session.Position(now)
	session.PlaybackStatus = model.PlaybackStopped
	snapshot := session.Snapshot(now)
	m.store.Clear()
	return snapshot, nil
}

// Status returns the current session snapshot and true, or a zero snapshot
// and false when the display is idle. It never errors.
func (m *Manager) Status() (model.SessionSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.store.Load()
	if session == nil {
		return model.SessionSnapshot{}, false
	}
	return session.Snapshot(m.now()), true
}
