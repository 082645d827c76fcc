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

// This file defines the command that mirrors a generated video file into a
// Google Cloud Storage bucket.
//
// Logic Flow:
//  1. Read the GeneratedVideoFile from the COR context.
//  2. Open the local file and stream it to the configured bucket with
//     io.Copy, keyed by a sanitized version of the video title.
//  3. Record the https URL of the uploaded object on the artifact and pass
//     it through to the catalog step.
//
// The bucket is a backup of record, not the playback source; the display
// plays from the local library directory. An empty bucket name disables the
// step entirely.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/cor"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// GCSVideoUpload is a command implementation responsible for uploading a
// generated video from the local filesystem to a Google Cloud Storage bucket.
type GCSVideoUpload struct {
	cor.BaseCommand
	client *storage.Client // The GCS client for interacting with the storage service.
	bucket string          // The name of the destination GCS bucket. Empty disables the upload.
}

// NewGCSVideoUpload is the constructor for creating a new GCSVideoUpload command.
func NewGCSVideoUpload(name string, client *storage.Client, bucket string) *GCSVideoUpload {
	return &GCSVideoUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket}
}

// IsExecutable requires a generated artifact on the input parameter.
func (c *GCSVideoUpload) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(c.GetInputParam()).(*model.GeneratedVideoFile)
	return ok
}

// Execute streams the local file to GCS and annotates the artifact with the
// resulting media URL.
func (c *GCSVideoUpload) Execute(context cor.Context) {
	artifact := context.Get(c.GetInputParam()).(*model.GeneratedVideoFile)

	if c.bucket == "" || c.client == nil {
		// Cloud mirroring is optional; hand the artifact through untouched.
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(c.GetOutputParam(), artifact)
		return
	}

	dat, err := os.Open(artifact.LocalPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to open file %s: %w", artifact.LocalPath, err))
		return
	}
	defer func() { _ = dat.Close() }()

	objectName := objectNameForTitle(artifact.Title)
	writer := c.client.Bucket(c.bucket).Object(objectName).NewWriter(context.GetContext())

	if _, err := io.Copy(writer, dat); err != nil {
		_ = writer.Close()
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to stream %s to gs://%s/%s: %w", artifact.LocalPath, c.bucket, objectName, err))
		return
	}
	// Closing the writer finalizes the upload; an unfinalized object does
	// not exist in the bucket.
	if err := writer.Close(); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to close GCS writer: %w", err))
		return
	}

	artifact.MediaUrl = fmt.Sprintf("https://storage.mtls.cloud.google.com/%s/%s", c.bucket, objectName)
	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), artifact)
}

// objectNameForTitle derives a stable object key from a human title, e.g.
// "Rain on a Mountain Lake" becomes "rain-on-a-mountain-lake.mp4".
func objectNameForTitle(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "untitled"
	}
	return name + ".mp4"
}
