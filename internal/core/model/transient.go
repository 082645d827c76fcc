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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains structs that only live in memory while
// a generation workflow executes. They are intermediate containers passed
// between commands in the chain and are never persisted in this form.
package model

// These objects are used in memory via workflows, but are not persisted to the catalog.

// GenerationRequest is the message published to the generation topic when a
// client asks for a new ambient video. The theme is free text ("stormy autumn
// evening"); everything else is optional guidance for the prompt enhancer.
type GenerationRequest struct {
	Id       string `json:"id"`
	Theme    string `json:"theme"`
	Style    string `json:"style,omitempty"`
	Duration int    `json:"duration_seconds,omitempty"`
	Origin   string `json:"origin,omitempty"` // web, m5stack, scheduler.
}

// GenerationPrompt is the structured output of the Gemini prompt-enhancement
// step. The model is asked to return exactly this JSON shape so the video
// generation command can consume it without any free-text parsing.
type GenerationPrompt struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Style          string `json:"style,omitempty"`
	Title          string `json:"title"`
}

// GeneratedVideoFile describes the artifact produced by the video generation
// command: a temporary local file plus the metadata needed to catalog it.
type GeneratedVideoFile struct {
	LocalPath string
	Title     string
	MediaUrl  string // Populated by the GCS upload command.
	SizeBytes int64
	Duration  float64
}
