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

// Package model defines the core data structures for the application.
// This file holds the persistent video catalog entry. Videos are stored in
// the local SQLite catalog; the playback manager only ever reads them
// through a lookup-by-id interface.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Video status values.
const (
	VideoStatusActive     = "active"
	VideoStatusArchived   = "archived"
	VideoStatusProcessing = "processing"
	VideoStatusError      = "error"
)

// ValidVideoStatuses lists the accepted values for the status filter on the
// catalog listing endpoint.
var ValidVideoStatuses = []string{VideoStatusActive, VideoStatusArchived, VideoStatusProcessing, VideoStatusError}

// Video is one catalog entry. Rows come from two places: manual uploads
// through the upload endpoint and finished AI generation runs persisted by
// the generation workflow.
type Video struct {
	Id              string     `gorm:"primaryKey" json:"id"`
	Title           string     `json:"title"`
	FilePath        string     `json:"file_path"`
	FileSize        int64      `json:"file_size"`
	Duration        float64    `json:"duration"`
	Format          string     `json:"format"`
	Resolution      string     `json:"resolution,omitempty"`
	MediaUrl        string     `json:"media_url,omitempty"` // GCS URL when the file is also archived in a bucket.
	UploadTimestamp time.Time  `json:"upload_timestamp"`
	LastPlayed      *time.Time `json:"last_played,omitempty"`
	PlayCount       int        `json:"play_count"`
	Status          string     `json:"status"`
}

// NewVideo creates a catalog entry with a fresh id and the upload timestamp
// set to the current time.
func NewVideo(title string, filePath string, fileSize int64, format string) *Video {
	return &Video{
		Id:              uuid.NewString(),
		Title:           title,
		FilePath:        filePath,
		FileSize:        fileSize,
		Format:          format,
		UploadTimestamp: time.Now(),
		Status:          VideoStatusProcessing,
	}
}
