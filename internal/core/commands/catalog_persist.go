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

// This file defines the final command of the generation workflow: moving the
// generated file into the local video library and inserting its catalog row.
// Only after this step does the video become playable on the display.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/services"
)

// CatalogPersist is a command that copies a generated video into the library
// directory and records it in the SQLite catalog with status active.
type CatalogPersist struct {
	cor.BaseCommand
	videos    *services.VideoService
	directory string // Library directory the display plays from.
}

// NewCatalogPersist is the constructor for the CatalogPersist command.
func NewCatalogPersist(name string, videos *services.VideoService, directory string) *CatalogPersist {
	return &CatalogPersist{BaseCommand: *cor.NewBaseCommand(name), videos: videos, directory: directory}
}

// IsExecutable requires a generated artifact on the input parameter.
func (c *CatalogPersist) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(c.GetInputParam()).(*model.GeneratedVideoFile)
	return ok
}

// Execute copies the artifact into the library and creates the catalog row.
// The new video's id is placed on the output parameter so the workflow can
// report it to the generation tracker.
func (c *CatalogPersist) Execute(context cor.Context) {
	artifact := context.Get(c.GetInputParam()).(*model.GeneratedVideoFile)

	video := model.NewVideo(artifact.Title, "", artifact.SizeBytes, "mp4")
	video.Duration = artifact.Duration
	video.MediaUrl = artifact.MediaUrl
	video.FilePath = filepath.Join(c.directory, video.Id+".mp4")

	if err := copyFile(artifact.LocalPath, video.FilePath); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to copy video into library: %w", err))
		return
	}

	video.Status = model.VideoStatusActive
	if err := c.videos.Create(context.GetContext(), video); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), video.Id)
}

func copyFile(src string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
