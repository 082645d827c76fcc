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

// Package control_test contains the test suite for the hardware control
// router: action vocabulary validation, the play/pause toggle, the lenient
// stop, and event-log recording.
package control_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/control"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
	test "github.com/jaycherian/gcp-go-dynamic-painting/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*control.Router, *playback.Manager, *control.EventRecorder) {
	t.Helper()
	manager := playback.NewManager(playback.NewMemorySessionStore(), test.NewStaticCatalog())
	recorder := control.NewEventRecorder(test.NewTestDatabase(t))
	t.Cleanup(recorder.Close)
	return control.NewRouter(manager, recorder), manager, recorder
}

func TestInvalidActionRejected(t *testing.T) {
	router, manager, _ := newRouter(t)

	_, err := router.Handle(context.Background(), "teleport", "device-1")
	require.ErrorIs(t, err, control.ErrInvalidAction)
	// The error names the complete vocabulary so the firmware author can
	// see what is allowed.
	for _, action := range []string{"next", "previous", "play_pause", "stop", "volume_up", "volume_down"} {
		require.Contains(t, err.Error(), action)
	}

	// No session mutation on a rejected action.
	_, active := manager.Status()
	require.False(t, active)
}

func TestPlayPauseTogglesSession(t *testing.T) {
	router, manager, _ := newRouter(t)
	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	result, err := router.Handle(context.Background(), control.ActionPlayPause, "device-1")
	require.NoError(t, err)
	require.Equal(t, "paused", result.Result)
	require.NotNil(t, result.CurrentSession)
	require.Equal(t, model.PlaybackPaused, result.CurrentSession.PlaybackStatus)

	result, err = router.Handle(context.Background(), control.ActionPlayPause, "device-1")
	require.NoError(t, err)
	require.Equal(t, "resumed", result.Result)
	require.Equal(t, model.PlaybackPlaying, result.CurrentSession.PlaybackStatus)
}

func TestPlayPauseWithoutSessionIsNoOp(t *testing.T) {
	router, manager, _ := newRouter(t)

	result, err := router.Handle(context.Background(), control.ActionPlayPause, "device-1")
	require.NoError(t, err)
	require.Equal(t, "no_active_session", result.Result)
	require.Nil(t, result.CurrentSession)

	_, active := manager.Status()
	require.False(t, active)
}

func TestStopIsLenientWithoutSession(t *testing.T) {
	router, _, _ := newRouter(t)

	// Hardware stop against an idle display must succeed, never 409.
	result, err := router.Handle(context.Background(), control.ActionStop, "device-1")
	require.NoError(t, err)
	require.Equal(t, "no_active_session", result.Result)
	require.Nil(t, result.CurrentSession)
}

func TestStopClearsActiveSession(t *testing.T) {
	router, manager, _ := newRouter(t)
	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	result, err := router.Handle(context.Background(), control.ActionStop, "device-1")
	require.NoError(t, err)
	require.Equal(t, "stopped", result.Result)
	require.Nil(t, result.CurrentSession)

	_, active := manager.Status()
	require.False(t, active)
}

func TestNavigationAndVolumeAcknowledged(t *testing.T) {
	router, manager, _ := newRouter(t)
	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	for _, action := range []string{control.ActionNext, control.ActionPrevious, control.ActionVolumeUp, control.ActionVolumeDown} {
		result, err := router.Handle(context.Background(), action, "device-1")
		require.NoError(t, err)
		require.Equal(t, action+"_acknowledged", result.Result)
		require.NotNil(t, result.CurrentSession)

		// The session itself is untouched by navigation and volume presses.
		snapshot, active := manager.Status()
		require.True(t, active)
		require.Equal(t, test.SampleVideoId, snapshot.VideoId)
		require.Equal(t, model.PlaybackPlaying, snapshot.PlaybackStatus)
	}
}

func TestEventsArePersisted(t *testing.T) {
	db := test.NewTestDatabase(t)
	manager := playback.NewManager(playback.NewMemorySessionStore(), test.NewStaticCatalog())
	recorder := control.NewEventRecorder(db)
	router := control.NewRouter(manager, recorder)

	_, err := router.Handle(context.Background(), control.ActionStop, "device-9")
	require.NoError(t, err)
	_, err = router.Handle(context.Background(), "teleport", "device-9")
	require.ErrorIs(t, err, control.ErrInvalidAction)

	// Close flushes the buffered writer before we query.
	recorder.Close()

	var events []model.ControlEvent
	require.NoError(t, db.Order("timestamp").Find(&events).Error)
	require.Len(t, events, 2)

	require.Equal(t, "device-9", events[0].DeviceId)
	require.True(t, events[0].Success)

	require.False(t, events[1].Success)
	require.Contains(t, events[1].ErrorMessage, "invalid action")
}
