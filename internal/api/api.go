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

// Package api contains the Gin route handlers for the painting backend.
// Handlers hold their collaborators explicitly so the HTTP layer stays a
// thin translation between request shapes and the core services.
package api

import (
	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/control"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/monitor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
)

// Handlers bundles every dependency the HTTP layer needs. Fields left nil
// disable their endpoints gracefully (e.g. no Pub/Sub client means the
// generation trigger reports the feature unavailable).
type Handlers struct {
	Config       *cloud.Config
	Playback     *playback.Manager
	Control      *control.Router
	Videos       *services.VideoService
	Recorder     *control.EventRecorder
	Tracker      *services.GenerationTracker
	Monitor      *monitor.SystemMonitor
	PubsubClient *pubsub.Client
}

// RegisterRoutes attaches every endpoint group under the given router group,
// conventionally "/api".
func (h *Handlers) RegisterRoutes(r *gin.RouterGroup) {
	h.DisplayRouter(r)
	h.M5StackRouter(r)
	h.VideoRouter(r)
	h.GenerationRouter(r)
	h.SystemRouter(r)
}
