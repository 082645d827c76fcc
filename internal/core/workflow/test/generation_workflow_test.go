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

// Package workflow_test contains the test suite for the generation
// workflow. The full pipeline needs live Vertex AI and GCS clients, so
// these tests cover the trigger handling that runs before any cloud call.
package workflow_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-dynamic-painting/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newWorkflow(t *testing.T) (*workflow.GenerationWorkflow, *services.GenerationTracker) {
	t.Helper()
	config := test.GetConfig()
	clients := &cloud.ServiceClients{
		AgentModels: make(map[string]*cloud.QuotaAwareGenerativeAIModel),
		VideoModels: make(map[string]*cloud.VeoVideoGenerator),
	}
	tracker := services.NewGenerationTracker()
	w := workflow.NewGenerationWorkflow(config, clients, test.NewTestCatalog(t), tracker, "creative", "veo")
	return w, tracker
}

func newTriggerContext(payload interface{}) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, payload)
	return ctx
}

func TestMalformedTriggerRecordsError(t *testing.T) {
	w, tracker := newWorkflow(t)

	ctx := newTriggerContext("{not valid json")
	w.Execute(ctx)

	require.True(t, ctx.HasErrors())
	// The request never parsed, so the tracker stays idle; the listener
	// nacks the message based on the context errors.
	require.Equal(t, services.GenerationIdle, tracker.Status().State)
}

func TestNonStringTriggerRecordsError(t *testing.T) {
	w, tracker := newWorkflow(t)

	ctx := newTriggerContext(12345)
	w.Execute(ctx)

	require.True(t, ctx.HasErrors())
	require.Equal(t, services.GenerationIdle, tracker.Status().State)
}

func TestWorkflowTemplateFromConfigParses(t *testing.T) {
	// Constructing the workflow parses the enhancement template; a broken
	// template would panic here rather than at message time.
	w, _ := newWorkflow(t)
	require.Equal(t, "generation-pipeline", w.GetName())
}
