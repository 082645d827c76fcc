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

// Package cloud provides components for interacting with Google Cloud
// services. This file builds the ServiceClients container: every external
// client the backend needs (GCS, Pub/Sub, Vertex AI), created once at
// startup from the configuration and passed to the rest of the application
// as a single dependency.
//
// Logic Flow:
//  1. NewCloudServiceClients is called at application startup with the
//     loaded Config.
//  2. It initializes the Storage, Pub/Sub and GenAI clients.
//  3. It builds a PubSubListener for each configured subscription (the
//     command to execute is attached later, once the workflows exist).
//  4. It wraps each configured agent model in the quota-aware decorator and
//     each video model in the VEO generator.
package cloud

import (
	"context"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"google.golang.org/genai"
)

// ServiceClients is the container for all external Google Cloud clients and
// the model wrappers derived from configuration.
type ServiceClients struct {
	StorageClient   *storage.Client
	PubsubClient    *pubsub.Client
	GenAIClient     *genai.Client
	PubSubListeners map[string]*PubSubListener
	AgentModels     map[string]*QuotaAwareGenerativeAIModel
	VideoModels     map[string]*VeoVideoGenerator
}

// Close releases all client connections. Connections are normally tied to
// the root context, but tests and controlled shutdowns use this directly.
func (c *ServiceClients) Close() {
	_ = c.StorageClient.Close()
	_ = c.PubsubClient.Close()
}

// NewCloudServiceClients initializes every Google Cloud client the backend
// requires, using the given configuration.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	sc, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	pc, err := pubsub.NewClient(ctx, config.Application.GoogleProjectId)
	if err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Application.GoogleProjectId,
		Location: config.Application.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}

	// One listener per configured subscription. Commands are attached later
	// when the workflows are assembled.
	subscriptions := make(map[string]*PubSubListener)
	for subKey := range config.TopicSubscriptions {
		values := config.TopicSubscriptions[subKey]
		actual, err := NewPubSubListener(pc, values.Name, nil)
		if err != nil {
			return nil, err
		}
		subscriptions[subKey] = actual
	}

	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey := range config.AgentModels {
		values := config.AgentModels[amKey]
		generateConfig := &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](values.Temperature),
			TopP:              genai.Ptr[float32](values.TopP),
			TopK:              genai.Ptr[float32](values.TopK),
			MaxOutputTokens:   values.MaxTokens,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
			SafetySettings:    DefaultSafetySettings,
			ResponseMIMEType:  values.OutputFormat,
		}
		agentModels[amKey] = NewQuotaAwareModel(generateConfig, values.Model, gc.Models, values.RateLimit)
	}

	videoModels := make(map[string]*VeoVideoGenerator)
	for vmKey := range config.VideoModels {
		videoModels[vmKey] = NewVeoVideoGenerator(gc, config.VideoModels[vmKey])
	}

	cloud = &ServiceClients{
		StorageClient:   sc,
		PubsubClient:    pc,
		GenAIClient:     gc,
		PubSubListeners: subscriptions,
		AgentModels:     agentModels,
		VideoModels:     videoModels,
	}

	return cloud, err
}
