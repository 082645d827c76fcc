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

// Package playback_test contains the test suite for the playback session
// state machine: lifecycle transitions, idempotency rules, error cases, and
// behavior under concurrent control requests.
package playback_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
	test "github.com/jaycherian/gcp-go-dynamic-painting/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newManager() *playback.Manager {
	return playback.NewManager(playback.NewMemorySessionStore(), test.NewStaticCatalog())
}

func TestStartUnknownVideo(t *testing.T) {
	manager := newManager()

	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: "missing"})
	require.ErrorIs(t, err, playback.ErrVideoNotFound)

	// A failed start must leave the display idle.
	_, active := manager.Status()
	require.False(t, active)
}

func TestFullLifecycle(t *testing.T) {
	manager := newManager()

	snapshot, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)
	require.Equal(t, test.SampleVideoId, snapshot.VideoId)
	require.Equal(t, model.PlaybackPlaying, snapshot.PlaybackStatus)

	snapshot, err = manager.Pause()
	require.NoError(t, err)
	require.Equal(t, model.PlaybackPaused, snapshot.PlaybackStatus)

	snapshot, err = manager.Resume()
	require.NoError(t, err)
	require.Equal(t, model.PlaybackPlaying, snapshot.PlaybackStatus)

	snapshot, err = manager.Stop()
	require.NoError(t, err)
	require.Equal(t, model.PlaybackStopped, snapshot.PlaybackStatus)

	_, active := manager.Status()
	require.False(t, active)
}

func TestPauseAndResumeAreIdempotent(t *testing.T) {
	manager := newManager()

	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	first, err := manager.Pause()
	require.NoError(t, err)
	second, err := manager.Pause()
	require.NoError(t, err)
	require.Equal(t, model.PlaybackPaused, first.PlaybackStatus)
	require.Equal(t, model.PlaybackPaused, second.PlaybackStatus)
	// The frozen offset does not move between redundant pauses.
	require.Equal(t, first.CurrentPosition, second.CurrentPosition)

	_, err = manager.Resume()
	require.NoError(t, err)
	again, err := manager.Resume()
	require.NoError(t, err)
	require.Equal(t, model.PlaybackPlaying, again.PlaybackStatus)
}

func TestOperationsWithoutSession(t *testing.T) {
	manager := newManager()

	_, err := manager.Pause()
	require.ErrorIs(t, err, playback.ErrNoActiveSession)
	_, err = manager.Resume()
	require.ErrorIs(t, err, playback.ErrNoActiveSession)
	_, err = manager.Stop()
	require.ErrorIs(t, err, playback.ErrNoActiveSession)

	_, active := manager.Status()
	require.False(t, active)
}

func TestStopTwiceFailsSecondTime(t *testing.T) {
	manager := newManager()

	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	_, err = manager.Stop()
	require.NoError(t, err)
	_, err = manager.Stop()
	require.ErrorIs(t, err, playback.ErrNoActiveSession)
}

func TestStartReplacesExistingSession(t *testing.T) {
	manager := newManager()

	first, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	// Replacement is allowed from the paused state as well.
	_, err = manager.Pause()
	require.NoError(t, err)

	second, err := manager.Start(context.Background(), playback.StartRequest{VideoId: "sample-video-456"})
	require.NoError(t, err)
	require.NotEqual(t, first.Id, second.Id)

	snapshot, active := manager.Status()
	require.True(t, active)
	require.Equal(t, "sample-video-456", snapshot.VideoId)
	require.Equal(t, model.PlaybackPlaying, snapshot.PlaybackStatus)
}

// TestConcurrentStartsResolveToOneWinner drives many simultaneous start
// calls at the manager and verifies the surviving session is exactly one of
// them, with a video id matching a real request and no mixed-up fields.
func TestConcurrentStartsResolveToOneWinner(t *testing.T) {
	catalog := test.NewStaticCatalog()
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("video-%02d", i)
		video := model.NewVideo(id, "", 1, "mp4")
		video.Id = id
		video.Status = model.VideoStatusActive
		catalog.Videos[id] = video
	}
	manager := playback.NewManager(playback.NewMemorySessionStore(), catalog)

	var wg sync.WaitGroup
	snapshots := make([]model.SessionSnapshot, 16)
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshots[i], errs[i] = manager.Start(context.Background(), playback.StartRequest{
				VideoId: fmt.Sprintf("video-%02d", i),
			})
		}(i)
	}
	wg.Wait()
	for i := range errs {
		require.NoError(t, errs[i])
	}

	final, active := manager.Status()
	require.True(t, active)
	require.Equal(t, model.PlaybackPlaying, final.PlaybackStatus)

	// The surviving session must be one of the started ones, intact.
	found := false
	for _, snapshot := range snapshots {
		if snapshot.Id == final.Id {
			require.Equal(t, snapshot.VideoId, final.VideoId)
			found = true
		}
	}
	require.True(t, found)
}

// TestConcurrentMixedOperations hammers the manager with interleaved
// transitions and checks it never observes a torn state: every returned
// snapshot is internally consistent.
func TestConcurrentMixedOperations(t *testing.T) {
	manager := newManager()
	_, err := manager.Start(context.Background(), playback.StartRequest{VideoId: test.SampleVideoId})
	require.NoError(t, err)

	torn := make(chan string, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := func(snapshot model.SessionSnapshot) {
				if snapshot.VideoId != test.SampleVideoId || snapshot.Id == "" {
					select {
					case torn <- fmt.Sprintf("torn snapshot: %+v", snapshot):
					default:
					}
				}
			}
			for j := 0; j < 50; j++ {
				if snapshot, err := manager.Pause(); err == nil {
					check(snapshot)
				}
				if snapshot, err := manager.Resume(); err == nil {
					check(snapshot)
				}
				if snapshot, active := manager.Status(); active {
					check(snapshot)
				}
			}
		}()
	}
	wg.Wait()
	select {
	case msg := <-torn:
		t.Fatal(msg)
	default:
	}
}

func TestPositionMonotonicWhilePlaying(t *testing.T) {
	manager := newManager()
	_, err := manager.Start(context.Background(), playback.StartRequest{
		VideoId:       test.SampleVideoId,
		StartPosition: 30,
	})
	require.NoError(t, err)

	previous := -1.0
	for i := 0; i < 10; i++ {
		snapshot, active := manager.Status()
		require.True(t, active)
		require.GreaterOrEqual(t, snapshot.CurrentPosition, previous)
		require.GreaterOrEqual(t, snapshot.CurrentPosition, 30.0)
		previous = snapshot.CurrentPosition
	}
}
