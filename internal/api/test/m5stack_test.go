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

// This file covers the M5STACK hardware endpoints: the control action
// contract and the status poll.
package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	test "github.com/jaycherian/gcp-go-dynamic-painting/internal/testutil"
)

func controlBody(action string) gin.H {
	return gin.H{
		"action": action,
		"device_info": gin.H{
			"device_id":  "m5-living-room",
			"ip_address": "192.168.1.50",
		},
	}
}

func TestControlInvalidActionReturns400(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodPost, "/api/m5stack/control", controlBody("teleport"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	require.Equal(t, "invalid_action", body["error"])
	require.Contains(t, body["message"], "play_pause")
	require.Contains(t, body["message"], "volume_down")
}

func TestControlPlayPauseToggle(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodPost, "/api/display/play", gin.H{"video_id": test.SampleVideoId})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/m5stack/control", controlBody("play_pause"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "paused", body["result"])

	session, ok := body["current_session"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "paused", session["playback_status"])

	w = doJSON(t, r, http.MethodPost, "/api/m5stack/control", controlBody("play_pause"))
	body = decode(t, w)
	require.Equal(t, "resumed", body["result"])
}

func TestControlStopNeverConflicts(t *testing.T) {
	r := newTestEngine(t)

	// Stop with nothing playing: hardware-friendly success.
	w := doJSON(t, r, http.MethodPost, "/api/m5stack/control", controlBody("stop"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "no_active_session", body["result"])
	require.Nil(t, body["current_session"])

	// Stop with an active session clears it.
	w = doJSON(t, r, http.MethodPost, "/api/display/play", gin.H{"video_id": test.SampleVideoId})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/m5stack/control", controlBody("stop"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "stopped", decode(t, w)["result"])
}

func TestM5StackStatus(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/api/m5stack/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "idle", body["status"])
	require.Nil(t, body["session"])
	// The device screen shows host health alongside playback state.
	require.NotNil(t, body["system"])

	w = doJSON(t, r, http.MethodPost, "/api/display/play", gin.H{"video_id": test.SampleVideoId})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/m5stack/status", nil)
	body = decode(t, w)
	require.Equal(t, "playing", body["status"])
	require.NotNil(t, body["session"])
}
