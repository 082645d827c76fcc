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

// This file defines the command that runs the VEO video generation model.
//
// Logic Flow:
//  1. Read the typed GenerationPrompt from the COR context.
//  2. Submit the generation and poll the long-running operation until the
//     video bytes come back (handled inside cloud.VeoVideoGenerator).
//  3. Write the bytes to a temporary .mp4 file and register it with the
//     context so it is cleaned up when the workflow closes.
//  4. Place a GeneratedVideoFile describing the artifact on the output
//     parameter for the upload and catalog steps.
package commands

import (
	"fmt"
	"os"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// VeoVideoGenerator is a command that produces an ambient video file from a
// structured prompt. It is by far the slowest step of the workflow; the
// generator's own timeout bounds how long the chain can stall here.
type VeoVideoGenerator struct {
	cor.BaseCommand
	generator *cloud.VeoVideoGenerator
	duration  float64 // Nominal clip length in seconds, recorded on the artifact.
}

// NewVeoVideoGenerator is the constructor for the VeoVideoGenerator command.
func NewVeoVideoGenerator(name string, generator *cloud.VeoVideoGenerator, durationSeconds float64) *VeoVideoGenerator {
	return &VeoVideoGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		generator:   generator,
		duration:    durationSeconds,
	}
}

// IsExecutable requires a parsed GenerationPrompt on the input parameter.
func (t *VeoVideoGenerator) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*model.GenerationPrompt)
	return ok
}

// Execute runs the generation and writes the result to a temp file.
func (t *VeoVideoGenerator) Execute(context cor.Context) {
	prompt := context.Get(t.GetInputParam()).(*model.GenerationPrompt)

	videoBytes, err := t.generator.Generate(context.GetContext(), prompt.Prompt, prompt.NegativePrompt)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("video generation failed: %w", err))
		return
	}

	tmp, err := os.CreateTemp("", "painting-*.mp4")
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to create temp file: %w", err))
		return
	}
	// Track the temp file so Context.Close removes it even if a later
	// command fails before the catalog step copies it into the library.
	context.AddTempFile(tmp.Name())

	if _, err := tmp.Write(videoBytes); err != nil {
		_ = tmp.Close()
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to write video bytes: %w", err))
		return
	}
	if err := tmp.Close(); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to close temp file: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.GeneratedVideoFile{
		LocalPath: tmp.Name(),
		Title:     prompt.Title,
		SizeBytes: int64(len(videoBytes)),
		Duration:  t.duration,
	})
}
