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

// This file defines the system health endpoint backing the dashboard.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemRouter sets up the host health routes.
func (h *Handlers) SystemRouter(r *gin.RouterGroup) {
	system := r.Group("/system")
	{
		system.GET("/health", func(c *gin.Context) {
			response := gin.H{
				"status":  "ok",
				"service": h.Config.Application.Name,
			}
			if h.Monitor != nil {
				response["system"] = h.Monitor.Status(c.Request.Context())
			}
			if count, err := h.Videos.Count(c.Request.Context(), ""); err == nil {
				response["video_count"] = count
			}
			c.JSON(http.StatusOK, response)
		})
	}
}
