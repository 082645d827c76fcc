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

// This file defines the endpoints the M5STACK hardware controller calls.
// The device firmware is simple and retries aggressively, so the contract
// here is: validate strictly (unknown actions are 400), but never surface a
// state conflict for a button press that is merely redundant.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/control"
)

// controlRequest is the body of POST /api/m5stack/control.
type controlRequest struct {
	Action     string `json:"action" binding:"required"`
	DeviceInfo struct {
		DeviceId  string `json:"device_id"`
		IpAddress string `json:"ip_address"`
	} `json:"device_info"`
}

// M5StackRouter sets up the hardware control routes.
func (h *Handlers) M5StackRouter(r *gin.RouterGroup) {
	m5 := r.Group("/m5stack")
	{
		m5.POST("/control", func(c *gin.Context) {
			var req controlRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_request",
					"message": err.Error(),
				})
				return
			}

			deviceId := req.DeviceInfo.DeviceId
			if deviceId == "" {
				deviceId = c.ClientIP()
			}

			result, err := h.Control.Handle(c.Request.Context(), req.Action, deviceId)
			if err != nil {
				if errors.Is(err, control.ErrInvalidAction) {
					c.JSON(http.StatusBadRequest, gin.H{
						"error":   "invalid_action",
						"message": err.Error(),
					})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "failed to handle control action",
				})
				return
			}
			c.JSON(http.StatusOK, result)
		})

		// The device polls this to draw its status screen: the current
		// session (if any) plus a host health reading.
		m5.GET("/status", func(c *gin.Context) {
			response := gin.H{"session": nil, "status": "idle"}
			if snapshot, active := h.Playback.Status(); active {
				response["session"] = snapshot
				response["status"] = string(snapshot.PlaybackStatus)
			}
			if h.Monitor != nil {
				response["system"] = h.Monitor.Status(c.Request.Context())
			}
			c.JSON(http.StatusOK, response)
		})
	}
}
