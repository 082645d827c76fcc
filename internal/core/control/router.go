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

// Package control translates physical button presses from M5STACK devices
// into playback session transitions. The hardware is stateless, so the
// router is deliberately lenient: a stop with nothing playing and a
// play_pause toggle on an idle display are both acknowledged successes,
// never errors back to the device.
package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
)

// The actions an M5STACK device can emit.
const (
	ActionNext       = "next"
	ActionPrevious   = "previous"
	ActionPlayPause  = "play_pause"
	ActionStop       = "stop"
	ActionVolumeUp   = "volume_up"
	ActionVolumeDown = "volume_down"
)

// ErrInvalidAction is returned for any action string outside the six the
// hardware can produce.
var ErrInvalidAction = errors.New(
	"invalid action: must be one of next, previous, play_pause, stop, volume_up, volume_down")

// Result is the acknowledgement returned to the device. CurrentSession is
// nil when the display is idle after the action.
type Result struct {
	Result         string                 `json:"result"`
	CurrentSession *model.SessionSnapshot `json:"current_session"`
}

// Router dispatches validated actions to the playback manager and records
// every press, including failed ones, in the control event log.
type Router struct {
	manager  *playback.Manager
	recorder *EventRecorder
}

// NewRouter creates a Router over the given playback manager and event
// recorder.
func NewRouter(manager *playback.Manager, recorder *EventRecorder) *Router {
	return &Router{manager: manager, recorder: recorder}
}

// Handle applies a single control action on behalf of deviceId. Unknown
// actions return ErrInvalidAction; all six known actions succeed regardless
// of session state.
func (r *Router) Handle(ctx context.Context, action string, deviceId string) (Result, error) {
	switch action {
	case ActionNext, ActionPrevious, ActionPlayPause, ActionStop, ActionVolumeUp, ActionVolumeDown:
	default:
		event := model.NewControlEvent(deviceId, model.EventType(action))
		event.MarkFailed(ErrInvalidAction.Error())
		r.recorder.Record(event)
		return Result{}, fmt.Errorf("%w (got %q)", ErrInvalidAction, action)
	}

	var (
		outcome  string
		snapshot *model.SessionSnapshot
		event    = model.NewControlEvent(deviceId, eventTypeFor(action))
	)

	switch action {
	case ActionPlayPause:
		outcome, snapshot = r.togglePlayPause(event)
	case ActionStop:
		outcome = "stopped"
		if snap, err := r.manager.Stop(); err == nil {
			event.SessionId = snap.Id
		} else {
			// Nothing was playing. The device cannot know that, so the
			// press is still a success.
			outcome = "no_active_session"
		}
	case ActionNext, ActionPrevious:
		// Catalog navigation is driven by the web client; the device press
		// is acknowledged and logged so the dashboard can surface it.
		outcome = action + "_acknowledged"
		if snap, ok := r.manager.Status(); ok {
			snapshot = &snap
			event.SessionId = snap.Id
		}
	case ActionVolumeUp, ActionVolumeDown:
		// Audio is rendered on the display host, not the backend. Log and
		// acknowledge.
		outcome = action + "_acknowledged"
		if snap, ok := r.manager.Status(); ok {
			snapshot = &snap
			event.SessionId = snap.Id
		}
	}

	event.EventData = outcome
	r.recorder.Record(event)

	if snapshot == nil {
		if snap, ok := r.manager.Status(); ok {
			snapshot = &snap
		}
	}
	return Result{Result: outcome, CurrentSession: snapshot}, nil
}

// togglePlayPause flips the session between playing and paused. With no
// active session there is nothing to toggle and the press is a no-op
// success, matching how a remote control behaves against an idle screen.
func (r *Router) togglePlayPause(event *model.ControlEvent) (string, *model.SessionSnapshot) {
	snap, ok := r.manager.Status()
	if !ok {
		event.EventType = model.EventPlay
		return "no_active_session", nil
	}

	var (
		result string
		err    error
	)
	if snap.PlaybackStatus == model.PlaybackPlaying {
		event.EventType = model.EventPause
		snap, err = r.manager.Pause()
		result = "paused"
	} else {
		event.EventType = model.EventPlay
		snap, err = r.manager.Resume()
		result = "resumed"
	}
	if err != nil {
		// The session vanished between Status and the transition. Treat it
		// like the idle case.
		return "no_active_session", nil
	}
	event.SessionId = snap.Id
	return result, &snap
}

func eventTypeFor(action string) model.EventType {
	switch action {
	case ActionNext:
		return model.EventNext
	case ActionPrevious:
		return model.EventPrevious
	case ActionStop:
		return model.EventStop
	case ActionVolumeUp, ActionVolumeDown:
		return model.EventVolume
	default:
		return model.EventPlay
	}
}
