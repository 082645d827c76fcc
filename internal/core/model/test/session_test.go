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

// Package model_test contains the test suite for the model package. This
// file covers the display session position arithmetic and snapshot view.
package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/zeebo/assert"
)

func TestNewDisplaySessionDefaults(t *testing.T) {
	session := model.NewDisplaySession("video-1", true, 4.5, "fullscreen", model.SessionOriginWeb)

	assert.True(t, session.Id != "")
	assert.Equal(t, "video-1", session.VideoId)
	assert.Equal(t, model.PlaybackPlaying, session.PlaybackStatus)
	assert.Equal(t, 4.5, session.PositionBase)
	assert.True(t, session.LoopEnabled)
	assert.Equal(t, model.SessionOriginWeb, session.CreatedBy)
}

func TestPositionAdvancesOnlyWhilePlaying(t *testing.T) {
	session := model.NewDisplaySession("video-1", false, 10, "fullscreen", model.SessionOriginWeb)
	start := session.ResumedAt

	// Playing: the offset grows with wall time.
	assert.Equal(t, 10.0, session.Position(start))
	assert.Equal(t, 13.0, session.Position(start.Add(3*time.Second)))

	// Paused: the offset freezes at the base.
	session.PositionBase = session.Position(start.Add(3 * time.Second))
	session.PlaybackStatus = model.PlaybackPaused
	assert.Equal(t, 13.0, session.Position(start.Add(60*time.Second)))
}

func TestSnapshotSerialization(t *testing.T) {
	session := model.NewDisplaySession("video-1", false, 0, "fullscreen", model.SessionOriginM5Stack)
	snapshot := session.Snapshot(session.ResumedAt)

	raw, err := json.Marshal(snapshot)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "video-1", decoded["video_id"])
	assert.Equal(t, "playing", decoded["playback_status"])
	assert.Equal(t, "m5stack", decoded["created_by"])
	_, hasPosition := decoded["current_position"]
	assert.True(t, hasPosition)
}

func TestControlEventLifecycle(t *testing.T) {
	event := model.NewControlEvent("device-7", model.EventPause)

	assert.True(t, event.Id != "")
	assert.True(t, event.Success)
	assert.Equal(t, model.EventPause, event.EventType)

	event.MarkFailed("no active session")
	assert.False(t, event.Success)
	assert.Equal(t, "no active session", event.ErrorMessage)
}

func TestNewVideoStartsProcessing(t *testing.T) {
	video := model.NewVideo("Ocean Sunrise", "/tmp/ocean.mp4", 2048, "mp4")

	assert.True(t, video.Id != "")
	assert.Equal(t, model.VideoStatusProcessing, video.Status)
	assert.Equal(t, int64(2048), video.FileSize)
	assert.Nil(t, video.LastPlayed)
}
