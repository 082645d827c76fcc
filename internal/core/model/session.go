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

// Package model defines the core data structures for the application.
// This file holds the playback session record and its wire representation.
//
// A DisplaySession describes the single video currently loaded on the
// display. There is at most one of these alive in the process at any time;
// the playback manager owns the slot and every API response that describes
// playback state is derived from it through the SessionSnapshot view.
package model

import (
	"time"

	"github.com/google/uuid"
)

// PlaybackStatus enumerates the observable states of a display session.
type PlaybackStatus string

const (
	PlaybackPlaying PlaybackStatus = "playing"
	PlaybackPaused  PlaybackStatus = "paused"
	PlaybackStopped PlaybackStatus = "stopped"
)

// Session origin values, recorded for provenance only.
const (
	SessionOriginWeb     = "web"
	SessionOriginM5Stack = "m5stack"
)

// DisplaySession is the single mutable playback record. The position fields
// split the playback offset into a frozen base plus a running segment: while
// the session is playing, the true position is PositionBase plus the wall
// time elapsed since ResumedAt. Pausing folds the running segment back into
// PositionBase so the offset freezes. This keeps the reported position
// monotonically non-decreasing without a background ticker.
type DisplaySession struct {
	Id             string         // Opaque identifier, fresh per play operation.
	VideoId        string         // Catalog id of the video being played.
	StartTime      time.Time      // When the session was created.
	PositionBase   float64        // Playback offset in seconds accumulated before the last resume.
	ResumedAt      time.Time      // When playback last entered the playing state.
	PlaybackStatus PlaybackStatus // playing, paused or stopped.
	DisplayMode    string         // Presentation mode, e.g. "fullscreen".
	LoopEnabled    bool           // Whether the playback engine should restart at end of video.
	CreatedBy      string         // Origin of the session (web, m5stack).
}

// NewDisplaySession creates a session in the playing state with a fresh id.
func NewDisplaySession(videoId string, loopEnabled bool, startPosition float64, displayMode string, createdBy string) *DisplaySession {
	now := time.Now()
	return &DisplaySession{
		Id:             uuid.NewString(),
		VideoId:        videoId,
		StartTime:      now,
		PositionBase:   startPosition,
		ResumedAt:      now,
		PlaybackStatus: PlaybackPlaying,
		DisplayMode:    displayMode,
		LoopEnabled:    loopEnabled,
		CreatedBy:      createdBy,
	}
}

// Position returns the current playback offset in seconds. The offset only
// advances while the session is playing.
func (s *DisplaySession) Position(now time.Time) float64 {
	if s.PlaybackStatus == PlaybackPlaying {
		return s.PositionBase + now.Sub(s.ResumedAt).Seconds()
	}
	return s.PositionBase
}

// SessionSnapshot is the single serialized view of a DisplaySession shared by
// every playback operation and endpoint. All handlers return this shape
// rather than building ad hoc maps per route.
type SessionSnapshot struct {
	Id              string         `json:"id"`
	VideoId         string         `json:"video_id"`
	StartTime       time.Time      `json:"start_time"`
	PlaybackStatus  PlaybackStatus `json:"playback_status"`
	CurrentPosition float64        `json:"current_position"`
	DisplayMode     string         `json:"display_mode"`
	LoopEnabled     bool           `json:"loop_enabled"`
	CreatedBy       string         `json:"created_by"`
}

// Snapshot renders the session as of the given instant.
func (s *DisplaySession) Snapshot(now time.Time) SessionSnapshot {
	return SessionSnapshot{
		Id:              s.Id,
		VideoId:         s.VideoId,
		StartTime:       s.StartTime,
		PlaybackStatus:  s.PlaybackStatus,
		CurrentPosition: s.Position(now),
		DisplayMode:     s.DisplayMode,
		LoopEnabled:     s.LoopEnabled,
		CreatedBy:       s.CreatedBy,
	}
}
