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

// Package cloud_test contains the test suite for the cloud package. This
// file covers hierarchical TOML configuration loading: the base file plus
// the runtime-specific override.
package cloud_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/stretchr/testify/require"
)

const baseToml = `
[application]
name = "painting-base"
google_project_id = "base-project"
location = "us-central1"
thread_pool_size = 2

[database]
path = "data/painting.db"

[storage]
videos_directory = "data/videos"
generated_bucket = "painting-generated"

[upload]
max_file_size_mb = 500
allowed_formats = ["mp4", "webm"]

[display]
default_mode = "fullscreen"

[topic_subscriptions]
[topic_subscriptions.GenerationRequests]
name = "generation-requests-sub"
topic = "generation-requests"
timeout_in_seconds = 60

[agent_models]
[agent_models.creative]
model = "gemini-2.0-flash"
temperature = 1.0
rate_limit = 1

[video_models]
[video_models.veo]
model = "veo-2.0-generate-001"
aspect_ratio = "16:9"
poll_interval_seconds = 10
timeout_in_seconds = 600
rate_limit = 1
`

const overrideToml = `
[application]
name = "painting-staging"

[database]
path = ":memory:"
`

func writeConfigs(t *testing.T, runtime string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env."+runtime+".toml"), []byte(overrideToml), 0o644))
	return dir
}

func TestLoadConfigAppliesRuntimeOverride(t *testing.T) {
	dir := writeConfigs(t, "staging")
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "staging")

	config := cloud.NewConfig()
	cloud.LoadConfig(&config)

	// Overridden values come from the runtime file.
	require.Equal(t, "painting-staging", config.Application.Name)
	require.Equal(t, ":memory:", config.Database.Path)

	// Everything else survives from the base file.
	require.Equal(t, "base-project", config.Application.GoogleProjectId)
	require.Equal(t, "data/videos", config.Storage.VideosDirectory)
	require.Equal(t, []string{"mp4", "webm"}, config.Upload.AllowedFormats)

	sub, ok := config.TopicSubscriptions["GenerationRequests"]
	require.True(t, ok)
	require.Equal(t, "generation-requests", sub.Topic)

	veo, ok := config.VideoModels["veo"]
	require.True(t, ok)
	require.Equal(t, 600, veo.TimeoutInSeconds)
}

func TestLoadConfigWithoutOverrideFile(t *testing.T) {
	dir := writeConfigs(t, "staging")
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	// The "missing" runtime has no override file; only the base applies.
	t.Setenv(cloud.EnvConfigRuntime, "missing")

	config := cloud.NewConfig()
	cloud.LoadConfig(&config)

	require.Equal(t, "painting-base", config.Application.Name)
	require.Equal(t, "data/painting.db", config.Database.Path)
}
