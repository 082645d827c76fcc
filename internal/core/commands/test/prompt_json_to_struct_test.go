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

// Package commands_test contains the test suite for the workflow commands
// that run without cloud clients.
package commands_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/commands"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/zeebo/assert"
)

func newCommandContext(payload interface{}) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, payload)
	return ctx
}

func TestPromptJsonToStruct(t *testing.T) {
	cmd := commands.NewPromptJsonToStruct("convert-prompt")
	ctx := newCommandContext(`{
		"prompt": "slow pan across a misty valley",
		"negative_prompt": "people, text",
		"style": "cinematic",
		"title": "Misty Valley"
	}`)

	assert.True(t, cmd.IsExecutable(ctx))
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	prompt := ctx.Get(cmd.GetOutputParam()).(*model.GenerationPrompt)
	assert.Equal(t, "Misty Valley", prompt.Title)
	assert.Equal(t, "people, text", prompt.NegativePrompt)
}

func TestPromptJsonToStructDefaultsTitle(t *testing.T) {
	cmd := commands.NewPromptJsonToStruct("convert-prompt")
	ctx := newCommandContext(`{"prompt": "rain on glass"}`)

	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	prompt := ctx.Get(cmd.GetOutputParam()).(*model.GenerationPrompt)
	assert.Equal(t, "Untitled Painting", prompt.Title)
}

func TestPromptJsonToStructRejectsGarbage(t *testing.T) {
	cmd := commands.NewPromptJsonToStruct("convert-prompt")
	ctx := newCommandContext("not json at all")

	cmd.Execute(ctx)
	assert.True(t, ctx.HasErrors())
}

func TestPromptJsonToStructRejectsMissingPrompt(t *testing.T) {
	cmd := commands.NewPromptJsonToStruct("convert-prompt")
	ctx := newCommandContext(`{"title": "Empty"}`)

	cmd.Execute(ctx)
	assert.True(t, ctx.HasErrors())
}

func TestPromptJsonToStructNotExecutableOnEmptyInput(t *testing.T) {
	cmd := commands.NewPromptJsonToStruct("convert-prompt")
	assert.False(t, cmd.IsExecutable(newCommandContext("   ")))
	assert.False(t, cmd.IsExecutable(newCommandContext(42)))
}
