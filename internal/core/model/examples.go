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

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for hardcoded example instances
// of the data models.
//
// The example objects are used for "few-shot" prompting of the generative
// models: embedding a concrete example of the desired JSON output in the
// prompt makes the model return data that is consistent, correctly formatted
// and parsable.
package model

// GetExamplePrompt creates a sample GenerationPrompt. It is embedded in the
// prompt-enhancement template so Gemini sees exactly the JSON shape the
// workflow expects back.
//
// Outputs:
//   - *GenerationPrompt: A pointer to a hardcoded GenerationPrompt object.
func GetExamplePrompt() *GenerationPrompt {
	return &GenerationPrompt{
		Title: "Rain on a Mountain Lake",
		Prompt: "A slow cinematic shot of rain falling on a still alpine lake at dusk. " +
			"Mist drifts between pine trees on the far shore. Soft diffused light, " +
			"muted blues and greys, gentle ripples spreading across the water. " +
			"Ambient, meditative pacing suitable for a wall display.",
		NegativePrompt: "people, text, watermarks, fast camera movement, jump cuts",
		Style:          "cinematic",
	}
}
