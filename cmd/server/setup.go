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

package main

import (
	"context"
	"log"
	"os"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/api"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/cloud"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/control"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/monitor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config       *cloud.Config
	cloud        *cloud.ServiceClients
	videoService *services.VideoService
	playback     *playback.Manager
	recorder     *control.EventRecorder
	router       *control.Router
	tracker      *services.GenerationTracker
	monitor      *monitor.SystemMonitor
	handlers     *api.Handlers
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		// Create a default cloud config, then load it from the TOML files.
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState wires the full dependency graph: cloud clients, the SQLite
// catalog, the playback state machine, the hardware control router, and the
// HTTP handlers that expose them.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	db, err := services.OpenDatabase(config.Database.Path)
	if err != nil {
		panic(err)
	}

	state.videoService = services.NewVideoService(db, cloudClients.StorageClient)
	state.playback = playback.NewManager(playback.NewMemorySessionStore(), state.videoService)
	state.recorder = control.NewEventRecorder(db)
	state.router = control.NewRouter(state.playback, state.recorder)
	state.tracker = services.NewGenerationTracker()
	state.monitor = monitor.NewSystemMonitor(config.Storage.VideosDirectory)

	state.handlers = &api.Handlers{
		Config:       config,
		Playback:     state.playback,
		Control:      state.router,
		Videos:       state.videoService,
		Recorder:     state.recorder,
		Tracker:      state.tracker,
		Monitor:      state.monitor,
		PubsubClient: cloudClients.PubsubClient,
	}

	SetupListeners(ctx, config, cloudClients)
}
