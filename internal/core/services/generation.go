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

// Package services contains the business logic for interacting with data
// sources. This file tracks the state of AI generation runs. Generation is
// asynchronous (the request is published to Pub/Sub and picked up by the
// workflow listener), so the web client polls this tracker for progress.
package services

import (
	"sync"
	"time"
)

// Generation run states.
const (
	GenerationIdle      = "idle"
	GenerationQueued    = "queued"
	GenerationRunning   = "running"
	GenerationCompleted = "completed"
	GenerationFailed    = "failed"
)

// GenerationStatus is the poll response for a generation run.
type GenerationStatus struct {
	RequestId  string    `json:"request_id,omitempty"`
	State      string    `json:"state"`
	Theme      string    `json:"theme,omitempty"`
	VideoId    string    `json:"video_id,omitempty"` // Set once the run completed and the video is cataloged.
	Error      string    `json:"error,omitempty"`
	UpdateTime time.Time `json:"update_time"`
}

// GenerationTracker holds the status of the most recent generation run.
// The home display drives one generation at a time; a new request simply
// overwrites the previous run's terminal state.
type GenerationTracker struct {
	mu     sync.RWMutex
	status GenerationStatus
}

// NewGenerationTracker creates a tracker in the idle state.
func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{
		status: GenerationStatus{State: GenerationIdle, UpdateTime: time.Now()},
	}
}

// Status returns a copy of the current run status.
func (t *GenerationTracker) Status() GenerationStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Queued records that a request was accepted and published.
func (t *GenerationTracker) Queued(requestId string, theme string) {
	t.set(GenerationStatus{RequestId: requestId, State: GenerationQueued, Theme: theme})
}

// Running records that the workflow picked the request up.
func (t *GenerationTracker) Running(requestId string, theme string) {
	t.set(GenerationStatus{RequestId: requestId, State: GenerationRunning, Theme: theme})
}

// Completed records a successful run and the id of the cataloged video.
func (t *GenerationTracker) Completed(requestId string, videoId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.RequestId = requestId
	t.status.State = GenerationCompleted
	t.status.VideoId = videoId
	t.status.Error = ""
	t.status.UpdateTime = time.Now()
}

// Failed records a failed run and the reason.
func (t *GenerationTracker) Failed(requestId string, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.RequestId = requestId
	t.status.State = GenerationFailed
	t.status.Error = reason
	t.status.UpdateTime = time.Now()
}

func (t *GenerationTracker) set(status GenerationStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status.UpdateTime = time.Now()
	t.status = status
}
