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

// This file defines the AI generation endpoints. A generation request is
// published to a Pub/Sub topic and picked up by the workflow listener in
// this same process; the endpoint returns 202 immediately and the client
// polls the status endpoint for progress.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// Name of the topic/subscription pair in the configuration.
const GenerationTopicName = "GenerationRequests"

// generateRequest is the body of POST /api/ai/generations.
type generateRequest struct {
	Theme    string `json:"theme" binding:"required"`
	Style    string `json:"style"`
	Duration int    `json:"duration_seconds"`
}

// GenerationRouter sets up the AI generation routes.
func (h *Handlers) GenerationRouter(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.POST("/generations", func(c *gin.Context) {
			if h.PubsubClient == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error":   "generation_unavailable",
					"message": "AI generation is not configured on this deployment",
				})
				return
			}

			var req generateRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_request",
					"message": err.Error(),
				})
				return
			}

			request := &model.GenerationRequest{
				Id:       uuid.NewString(),
				Theme:    req.Theme,
				Style:    req.Style,
				Duration: req.Duration,
				Origin:   model.SessionOriginWeb,
			}
			payload, err := json.Marshal(request)
			if err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}

			topicId := h.Config.TopicSubscriptions[GenerationTopicName].Topic
			result := h.PubsubClient.Topic(topicId).Publish(c.Request.Context(), &pubsub.Message{Data: payload})
			if _, err := result.Get(c.Request.Context()); err != nil {
				slog.Error("failed to publish generation request", "request_id", request.Id, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "publish_failed",
					"message": "could not queue the generation request",
				})
				return
			}

			h.Tracker.Queued(request.Id, request.Theme)
			c.JSON(http.StatusAccepted, gin.H{"request_id": request.Id, "state": "queued"})
		})

		ai.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, h.Tracker.Status())
		})
	}
}
