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

// Package test provides utility functions and mock data to support the
// application's test suite: test-specific configuration loading, an
// in-memory catalog with seeded videos, and sample trigger payloads.
package test

import (
	"context"
	"log"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
)

// SampleVideoId is the id of the first seeded catalog entry. Endpoint tests
// reference it directly.
const SampleVideoId = "sample-video-123"

// StateManager caches the test configuration so the TOML files are read only
// once per test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS pins the runtime environment to "test" so nothing in the suite
// can accidentally load local or production settings.
func SetupOS() (err error) {
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig is a singleton accessor for the test configuration. The config
// is built in code rather than loaded from the TOML files so tests behave
// identically no matter which package directory they run from; the TOML
// loader itself is covered by its own test.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os for testing: %v\n", err)
		}
		config := cloud.NewConfig()
		config.Application.Name = "dynamic-painting-server-test"
		config.Application.GoogleProjectId = "test-project"
		config.Application.GoogleLocation = "us-central1"
		config.Application.ThreadPoolSize = 1
		config.Database.Path = ":memory:"
		config.Storage.VideosDirectory = "testdata/videos"
		config.Upload.MaxFileSizeMB = 5
		config.Upload.AllowedFormats = []string{"mp4", "webm"}
		config.Display.DefaultMode = "fullscreen"
		config.PromptTemplates.Enhance = "Theme: {{.THEME}} Style: {{.STYLE}} Example: {{.EXAMPLE_JSON}}"
		config.TopicSubscriptions["GenerationRequests"] = cloud.TopicSubscription{
			Name:             "generation-requests-sub",
			Topic:            "generation-requests",
			TimeoutInSeconds: 10,
		}
		state.config = config
	}
	return state.config
}

// NewTestDatabase opens an in-memory SQLite catalog seeded with two active
// videos, SampleVideoId among them.
func NewTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := services.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	for _, video := range SeedVideos() {
		if err := db.Create(video).Error; err != nil {
			t.Fatalf("failed to seed video %s: %v", video.Id, err)
		}
	}
	return db
}

// SeedVideos returns the fixed catalog entries used across the test suite.
func SeedVideos() []*model.Video {
	ocean := model.NewVideo("Ocean Sunrise", "testdata/videos/ocean.mp4", 1024, "mp4")
	ocean.Id = SampleVideoId
	ocean.Duration = 8
	ocean.Status = model.VideoStatusActive

	forest := model.NewVideo("Forest Rain", "testdata/videos/forest.mp4", 2048, "mp4")
	forest.Id = "sample-video-456"
	forest.Duration = 12
	forest.Status = model.VideoStatusActive

	return []*model.Video{ocean, forest}
}

// NewTestCatalog builds a VideoService over a seeded in-memory database. The
// service has no storage client, so signed URL paths are exercised through
// their fallback branches.
func NewTestCatalog(t *testing.T) *services.VideoService {
	t.Helper()
	return services.NewVideoService(NewTestDatabase(t), nil)
}

// StaticCatalog is a stub video lookup for tests that do not want a
// database. It recognizes only the ids in its map.
type StaticCatalog struct {
	Videos map[string]*model.Video
}

// Lookup implements the playback manager's catalog interface.
func (c *StaticCatalog) Lookup(_ context.Context, id string) (*model.Video, error) {
	if video, ok := c.Videos[id]; ok {
		return video, nil
	}
	return nil, nil
}

// NewStaticCatalog builds a StaticCatalog over the seed videos.
func NewStaticCatalog() *StaticCatalog {
	out := &StaticCatalog{Videos: make(map[string]*model.Video)}
	for _, video := range SeedVideos() {
		out.Videos[video.Id] = video
	}
	return out
}

// GetTestGenerationRequestText returns the JSON payload of a generation
// trigger message, as published by the generation endpoint.
func GetTestGenerationRequestText() string {
	return `{
  "id": "req-0001",
  "theme": "stormy autumn evening over a lighthouse",
  "style": "cinematic",
  "duration_seconds": 8,
  "origin": "web"
}`
}
