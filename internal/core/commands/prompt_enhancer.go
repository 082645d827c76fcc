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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the video generation
// workflow. This file defines the prompt-enhancement step.
//
// Logic Flow:
//  1. Read the parsed GenerationRequest from the COR context.
//  2. Render the enhancement template with the request's theme and style,
//     plus a few-shot JSON example of the expected output shape.
//  3. Send the rendered prompt to Gemini through the rate-limited wrapper.
//  4. Place the raw JSON response string into the context for the
//     PromptJsonToStruct command to parse.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// PromptEnhancer is a command that turns a short free-text theme into a
// full cinematic video prompt using a generative model.
type PromptEnhancer struct {
	cor.BaseCommand
	config                   *cloud.Config                      // Application configuration, used for prompt templating.
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel // The rate-limited generative model client.
	template                 *template.Template                 // The Go template for building the prompt.
	geminiInputTokenCounter  metric.Int64Counter                // OTel counter for input tokens.
	geminiOutputTokenCounter metric.Int64Counter                // OTel counter for output tokens.
	geminiRetryCounter       metric.Int64Counter                // OTel counter for retries.
}

// NewPromptEnhancer is the constructor for the PromptEnhancer command.
func NewPromptEnhancer(
	name string,
	config *cloud.Config,
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	template *template.Template) *PromptEnhancer {

	out := &PromptEnhancer{
		BaseCommand:       *cor.NewBaseCommand(name),
		config:            config,
		generativeAIModel: generativeAIModel,
		template:          template}

	// Initialize OpenTelemetry counters for monitoring Gemini API usage.
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.retry", out.GetName()))

	return out
}

// GenerateParams creates the map of dynamic data to be injected into the
// prompt template.
func (t *PromptEnhancer) GenerateParams(request *model.GenerationRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["THEME"] = request.Theme
	params["STYLE"] = request.Style
	if request.Style == "" {
		params["STYLE"] = "cinematic"
	}
	params["DURATION_SECONDS"] = request.Duration

	// Provide a complete, well-formed JSON example in the prompt. This
	// few-shot technique significantly improves the reliability and
	// structure of the model's output.
	examplePrompt, _ := json.Marshal(model.GetExamplePrompt())
	params["EXAMPLE_JSON"] = string(examplePrompt)
	return params
}

// IsExecutable ensures the command only runs when a parsed GenerationRequest
// is present on the input parameter.
func (t *PromptEnhancer) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*model.GenerationRequest)
	return ok
}

// Execute renders the prompt, calls the model, and stores the raw JSON
// response string on the output parameter.
func (t *PromptEnhancer) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.GenerationRequest)

	var prompt bytes.Buffer
	if err := t.template.Execute(&prompt, t.GenerateParams(request)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to render prompt template: %w", err))
		return
	}

	response, err := cloud.GenerateMultiModalResponse(
		context.GetContext(),
		t.geminiInputTokenCounter,
		t.geminiOutputTokenCounter,
		t.geminiRetryCounter,
		0,
		t.generativeAIModel,
		cloud.NewTextPart(prompt.String()))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("prompt enhancement failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), response)
}
