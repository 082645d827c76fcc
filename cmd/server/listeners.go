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

package main

import (
	"context"
	"log/slog"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/api"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/workflow"
)

// SetupListeners attaches the generation workflow to its Pub/Sub listener
// and starts consuming. A deployment without the generation subscription
// configured simply runs with the feature disabled.
func SetupListeners(ctx context.Context, config *cloud.Config, cloudClients *cloud.ServiceClients) {
	listener, ok := cloudClients.PubSubListeners[api.GenerationTopicName]
	if !ok {
		slog.Warn("generation subscription not configured, AI generation disabled")
		return
	}

	generationWorkflow := workflow.NewGenerationWorkflow(
		config,
		cloudClients,
		state.videoService,
		state.tracker,
		"creative",
		"veo")
	listener.SetCommand(generationWorkflow)
	listener.Listen(ctx)
}
