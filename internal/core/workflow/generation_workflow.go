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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the video
// generation workflow, triggered by a Pub/Sub message published by the
// generation API endpoint.
package workflow

import (
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/commands"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
)

// GenerationWorkflow orchestrates the production of a new ambient video:
// prompt enhancement with Gemini, video generation with VEO, an optional
// mirror upload to GCS, and the catalog insert that makes the video
// playable. It implements cor.Command so the Pub/Sub listener can drive it
// directly.
type GenerationWorkflow struct {
	cor.BaseCommand
	config          *cloud.Config
	genaiModel      *cloud.QuotaAwareGenerativeAIModel
	videoGenerator  *cloud.VeoVideoGenerator
	videos          *services.VideoService
	tracker         *services.GenerationTracker
	enhanceTemplate *template.Template
	chain           cor.Chain
}

// Context key the catalog step writes the new video id to.
const videoIdOutputParamName = "__video_id_output__"

// Execute parses the trigger message, reports progress to the generation
// tracker, and runs the underlying chain.
func (w *GenerationWorkflow) Execute(context cor.Context) {
	raw, ok := context.Get(cor.CtxIn).(string)
	if !ok {
		w.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(w.GetName(), fmt.Errorf("generation trigger is not a string payload"))
		return
	}

	// The request is parsed here, before the chain runs, so the tracker can
	// attribute progress and failures to the request id.
	request := &model.GenerationRequest{}
	if err := json.Unmarshal([]byte(raw), request); err != nil {
		w.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(w.GetName(), fmt.Errorf("failed to unmarshal generation request: %w", err))
		return
	}

	w.tracker.Running(request.Id, request.Theme)
	context.Add(cor.CtxIn, request)

	w.chain.Execute(context)

	if context.HasErrors() {
		w.tracker.Failed(request.Id, firstErrorMessage(context))
		return
	}

	videoId, _ := context.Get(videoIdOutputParamName).(string)
	w.tracker.Completed(request.Id, videoId)
	w.GetSuccessCounter().Add(context.GetContext(), 1)
}

// initializeChain builds the sequence of commands that make up the workflow.
func (w *GenerationWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Turn the free-text theme into a structured cinematic prompt
	// using Gemini, returned as a JSON string.
	out.AddCommand(commands.NewPromptEnhancer("enhance-prompt", w.config, w.genaiModel, w.enhanceTemplate))

	// Step 2: Parse the JSON response into a typed GenerationPrompt.
	out.AddCommand(commands.NewPromptJsonToStruct("convert-prompt"))

	// Step 3: Generate the video with VEO and write it to a temp file. The
	// nominal clip duration comes from the model configuration rather than
	// probing the file.
	out.AddCommand(commands.NewVeoVideoGenerator("generate-video", w.videoGenerator, 8))

	// Step 4: Mirror the file into the generated-videos bucket. Skipped
	// when no bucket is configured.
	out.AddCommand(commands.NewGCSVideoUpload("upload-to-gcs", w.videos.StorageClient, w.config.Storage.GeneratedBucket))

	// Step 5: Copy the file into the local library and insert the catalog
	// row. The new video id lands on videoIdOutputParamName.
	persist := commands.NewCatalogPersist("persist-to-catalog", w.videos, w.config.Storage.VideosDirectory)
	persist.BaseCommand.OutputParamName = videoIdOutputParamName
	out.AddCommand(persist)

	w.chain = out
}

// firstErrorMessage flattens the context error map into a single message for
// the generation tracker.
func firstErrorMessage(context cor.Context) string {
	for name, err := range context.GetErrors() {
		return fmt.Sprintf("%s: %v", name, err)
	}
	return "generation failed"
}

// NewGenerationWorkflow is the constructor for the GenerationWorkflow. It
// compiles the prompt template and builds the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: Initialized clients for the GCP services.
//   - videos: The catalog data access layer.
//   - tracker: The shared generation status tracker polled by the web UI.
//   - agentModelName: Key of the agent model config to use (e.g. "creative").
//   - videoModelName: Key of the video model config to use (e.g. "veo").
func NewGenerationWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	videos *services.VideoService,
	tracker *services.GenerationTracker,
	agentModelName string,
	videoModelName string) *GenerationWorkflow {

	enhanceTemplate, err := template.New("enhance-template").Parse(config.PromptTemplates.Enhance)
	if err != nil {
		panic(err) // The app cannot run without a valid template.
	}

	w := &GenerationWorkflow{
		BaseCommand:     *cor.NewBaseCommand("generation-pipeline"),
		config:          config,
		genaiModel:      serviceClients.AgentModels[agentModelName],
		videoGenerator:  serviceClients.VideoModels[videoModelName],
		videos:          videos,
		tracker:         tracker,
		enhanceTemplate: enhanceTemplate,
	}
	w.initializeChain()
	return w
}
