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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, plus the clients and wrappers for the Google Cloud
// services the painting backend depends on (Vertex AI, GCS, Pub/Sub).
//
// This file centralizes all configuration structs. Settings cover the local
// video catalog, upload limits, display defaults, the generative models used
// for prompt enhancement and video generation, and the Pub/Sub topics that
// drive the generation workflow.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the content safety thresholds applied to all
// generative model calls. The painting prompts are machine-built from a small
// fixed vocabulary of themes, so the categories are left unblocked.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Database holds the SQLite catalog settings.
type Database struct {
	Path string `toml:"path"` // Filesystem path of the SQLite database file.
}

// Storage holds the locations video files live in: a local directory for
// playback plus optional GCS buckets for generated output and upload archive.
type Storage struct {
	VideosDirectory string `toml:"videos_directory"` // Local directory the display plays from.
	GeneratedBucket string `toml:"generated_bucket"` // Bucket that receives AI-generated videos.
	ArchiveBucket   string `toml:"archive_bucket"`   // Optional bucket mirroring manual uploads.
}

// Upload holds the validation limits for manual video uploads.
type Upload struct {
	MaxFileSizeMB  int      `toml:"max_file_size_mb"`
	AllowedFormats []string `toml:"allowed_formats"` // e.g. ["mp4", "webm"], matched by content sniffing.
}

// Display holds the playback defaults applied when a session starts.
type Display struct {
	DefaultMode string `toml:"default_mode"` // Presentation mode, e.g. "fullscreen".
}

// PromptTemplates holds the text templates used to build prompts for the
// generative models.
type PromptTemplates struct {
	Enhance string `toml:"enhance"` // Template for the prompt-enhancement step.
}

// VertexAiLLMModel represents the configuration for a Vertex AI LLM used as
// an agent (here: the Gemini prompt enhancer).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // Requests per second.
}

// VertexAiVideoModel represents the configuration for a Vertex AI video
// generation model (VEO).
type VertexAiVideoModel struct {
	Model               string `toml:"model"`
	AspectRatio         string `toml:"aspect_ratio"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"` // How often to poll the long-running operation.
	TimeoutInSeconds    int    `toml:"timeout_in_seconds"`    // Give up on a generation after this long.
	RateLimit           int    `toml:"rate_limit"`
}

// TopicSubscription represents the configuration for a Pub/Sub topic and the
// subscription the backend listens on.
type TopicSubscription struct {
	Name             string `toml:"name"`  // Subscription id.
	Topic            string `toml:"topic"` // Topic id, used by the publishing side.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// Config is the top-level configuration for the application, loaded from
// TOML files.
type Config struct {
	Application struct {
		Name            string `toml:"name"`
		GoogleProjectId string `toml:"google_project_id"`
		GoogleLocation  string `toml:"location"`
		ThreadPoolSize  int    `toml:"thread_pool_size"`
	} `toml:"application"`
	Database           Database                      `toml:"database"`
	Storage            Storage                       `toml:"storage"`
	Upload             Upload                        `toml:"upload"`
	Display            Display                       `toml:"display"`
	PromptTemplates    PromptTemplates               `toml:"prompt_templates"`
	TopicSubscriptions map[string]TopicSubscription  `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel   `toml:"agent_models"`
	VideoModels        map[string]VertexAiVideoModel `toml:"video_models"`
}

// NewConfig creates a Config with its map fields initialized so the TOML
// decoder can populate them without nil map panics.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		VideoModels:        make(map[string]VertexAiVideoModel),
	}
}
