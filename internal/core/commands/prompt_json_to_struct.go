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

// This file defines the command that parses the model's raw JSON response
// into the typed GenerationPrompt the video generation step consumes.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// PromptJsonToStruct converts the enhancer's JSON output into a
// *model.GenerationPrompt. Failures here usually mean the model ignored the
// output format instructions; the chain stops and the run is marked failed.
type PromptJsonToStruct struct {
	cor.BaseCommand
}

// NewPromptJsonToStruct is the constructor for the PromptJsonToStruct command.
func NewPromptJsonToStruct(name string) *PromptJsonToStruct {
	return &PromptJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires a non-empty string on the input parameter.
func (t *PromptJsonToStruct) IsExecutable(context cor.Context) bool {
	raw, ok := context.Get(t.GetInputParam()).(string)
	return ok && len(strings.TrimSpace(raw)) > 0
}

// Execute parses the JSON string and validates the fields the downstream
// commands rely on.
func (t *PromptJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(t.GetInputParam()).(string)

	prompt := &model.GenerationPrompt{}
	if err := json.Unmarshal([]byte(raw), prompt); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to parse enhanced prompt: %w", err))
		return
	}
	if strings.TrimSpace(prompt.Prompt) == "" {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("enhanced prompt is missing the prompt field: %q", raw))
		return
	}
	if strings.TrimSpace(prompt.Title) == "" {
		prompt.Title = "Untitled Painting"
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), prompt)
}
