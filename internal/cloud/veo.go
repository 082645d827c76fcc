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

// Package cloud provides components for interacting with Google Cloud
// services. This file wraps the VEO video generation API. VEO runs as a
// long-running operation: the request returns an operation handle which is
// polled until the video is ready. The wrapper owns the rate limiting, the
// poll loop and the timeout, so workflow commands only see a synchronous
// "prompt in, video bytes out" call.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ErrGenerationTimeout is returned when a VEO operation does not complete
// within the configured deadline.
var ErrGenerationTimeout = errors.New("video generation timed out")

// VeoVideoGenerator wraps a VEO model with rate limiting and operation
// polling.
type VeoVideoGenerator struct {
	client       *genai.Client
	modelName    string
	aspectRatio  string
	pollInterval time.Duration
	timeout      time.Duration
	rateLimit    *rate.Limiter
}

// NewVeoVideoGenerator builds a generator from the model configuration.
func NewVeoVideoGenerator(client *genai.Client, cfg VertexAiVideoModel) *VeoVideoGenerator {
	pollInterval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &VeoVideoGenerator{
		client:       client,
		modelName:    cfg.Model,
		aspectRatio:  cfg.AspectRatio,
		pollInterval: pollInterval,
		timeout:      timeout,
		rateLimit:    rate.NewLimiter(rate.Every(time.Second), max(cfg.RateLimit, 1)),
	}
}

// Generate submits the prompt to VEO and blocks until the operation
// completes, returning the raw video bytes of the first generated video.
func (v *VeoVideoGenerator) Generate(ctx context.Context, prompt string, negativePrompt string) ([]byte, error) {
	if err := v.rateLimit.Wait(ctx); err != nil {
		return nil, err
	}

	config := &genai.GenerateVideosConfig{
		AspectRatio:    v.aspectRatio,
		NumberOfVideos: 1,
		NegativePrompt: negativePrompt,
	}

	operation, err := v.client.Models.GenerateVideos(ctx, v.modelName, prompt, nil, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}

	deadline := time.Now().Add(v.timeout)
	for !operation.Done {
		if time.Now().After(deadline) {
			return nil, ErrGenerationTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(v.pollInterval):
		}
		operation, err = v.client.Operations.GetVideosOperation(ctx, operation, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to poll video generation operation: %w", err)
		}
	}

	if operation.Response == nil || len(operation.Response.GeneratedVideos) == 0 {
		return nil, errors.New("video generation completed with no videos")
	}

	generated := operation.Response.GeneratedVideos[0]
	if generated.Video == nil || len(generated.Video.VideoBytes) == 0 {
		return nil, errors.New("video generation returned an empty video")
	}
	return generated.Video.VideoBytes, nil
}
