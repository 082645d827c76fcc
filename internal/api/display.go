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

// This file defines the display playback endpoints: the web-facing surface
// of the playback session state machine. Error shapes are fixed by the
// client contract: unknown video ids map to 404 {error, message}, operations
// on an idle display map to 409 {detail: {error, message}}.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
)

// playRequest is the body of POST /api/display/play.
type playRequest struct {
	VideoId       string  `json:"video_id" binding:"required"`
	LoopEnabled   bool    `json:"loop_enabled"`
	StartPosition float64 `json:"start_position"`
	DisplayMode   string  `json:"display_mode"`
}

// DisplayRouter sets up the playback session routes.
func (h *Handlers) DisplayRouter(r *gin.RouterGroup) {
	display := r.Group("/display")
	{
		display.POST("/play", func(c *gin.Context) {
			var req playRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_request",
					"message": err.Error(),
				})
				return
			}

			snapshot, err := h.Playback.Start(c.Request.Context(), playback.StartRequest{
				VideoId:       req.VideoId,
				LoopEnabled:   req.LoopEnabled,
				StartPosition: req.StartPosition,
				DisplayMode:   orDefault(req.DisplayMode, h.Config.Display.DefaultMode),
				Origin:        model.SessionOriginWeb,
			})
			if err != nil {
				if errors.Is(err, playback.ErrVideoNotFound) {
					c.JSON(http.StatusNotFound, gin.H{
						"error":   "video_not_found",
						"message": err.Error(),
					})
					return
				}
				slog.Error("failed to start playback", "video_id", req.VideoId, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "failed to start playback",
				})
				return
			}

			// Play statistics are best effort; the session is already live.
			if err := h.Videos.RecordPlayback(c.Request.Context(), req.VideoId); err != nil {
				slog.Warn("failed to record playback stats", "video_id", req.VideoId, "error", err)
			}
			c.JSON(http.StatusOK, snapshot)
		})

		display.POST("/pause", func(c *gin.Context) {
			snapshot, err := h.Playback.Pause()
			if err != nil {
				respondNoActiveSession(c)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})

		display.POST("/resume", func(c *gin.Context) {
			snapshot, err := h.Playback.Resume()
			if err != nil {
				respondNoActiveSession(c)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})

		display.POST("/stop", func(c *gin.Context) {
			snapshot, err := h.Playback.Stop()
			if err != nil {
				respondNoActiveSession(c)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})

		display.GET("/status", func(c *gin.Context) {
			snapshot, active := h.Playback.Status()
			if !active {
				c.JSON(http.StatusOK, gin.H{"session": nil, "status": "idle"})
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})
	}
}

func respondNoActiveSession(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{
		"detail": gin.H{
			"error":   "no_active_session",
			"message": "no active session: no video is currently playing",
		},
	})
}

func orDefault(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
