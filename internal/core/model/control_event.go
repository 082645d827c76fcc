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
// This file holds the control-event audit record. Control events are an
// append-only log of every control action received from any surface (web or
// M5STACK hardware). They are never consulted for playback state decisions;
// the log exists purely for auditing and later analysis.
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the kinds of control actions recorded in the audit log.
type EventType string

const (
	EventPlay     EventType = "play"
	EventPause    EventType = "pause"
	EventStop     EventType = "stop"
	EventNext     EventType = "next"
	EventPrevious EventType = "previous"
	EventVolume   EventType = "volume"
	EventUpload   EventType = "upload"
)

// ControlEvent is one audit record. Rows are inserted once and never updated
// or deleted by this application; retention is an operational concern.
type ControlEvent struct {
	Id           string    `gorm:"primaryKey" json:"id"`
	SessionId    string    `json:"session_id,omitempty"` // Empty for events with no session (e.g. upload).
	DeviceId     string    `json:"device_id"`
	EventType    EventType `json:"event_type"`
	EventData    string    `json:"event_data,omitempty"` // Optional JSON payload.
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NewControlEvent creates a successful event stamped with the current time.
// Callers mark it failed before handing it to the recorder when the
// underlying operation errored.
func NewControlEvent(deviceId string, eventType EventType) *ControlEvent {
	return &ControlEvent{
		Id:        uuid.NewString(),
		DeviceId:  deviceId,
		EventType: eventType,
		Timestamp: time.Now(),
		Success:   true,
	}
}

// MarkFailed flags the event as unsuccessful and records the reason.
func (e *ControlEvent) MarkFailed(message string) {
	e.Success = false
	e.ErrorMessage = message
}
