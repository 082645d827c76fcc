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

// Package services contains the business logic for interacting with data
// sources. This file defines the VideoService, the data access layer for the
// video catalog. It is the single writer to the videos table and also the
// playback manager's view of the catalog via the Lookup method.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"gorm.io/gorm"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
)

// VideoService encapsulates access to the video catalog and to the GCS
// buckets that mirror it. StorageClient may be nil when the deployment has
// no bucket configured; signed URL generation then fails cleanly.
type VideoService struct {
	DB            *gorm.DB
	StorageClient *storage.Client
}

// NewVideoService creates a VideoService over the given database handle and
// optional storage client.
func NewVideoService(db *gorm.DB, storageClient *storage.Client) *VideoService {
	return &VideoService{DB: db, StorageClient: storageClient}
}

// Lookup retrieves a single video by id. A missing row is reported as
// playback.ErrVideoNotFound so the playback manager and the HTTP layer can
// recognize it without knowing about GORM.
func (s *VideoService) Lookup(ctx context.Context, id string) (*model.Video, error) {
	var video model.Video
	err := s.DB.WithContext(ctx).First(&video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", playback.ErrVideoNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load video %s: %w", id, err)
	}
	return &video, nil
}

// List returns catalog entries, newest first. An empty status returns every
// row; limit <= 0 means no limit.
func (s *VideoService) List(ctx context.Context, status string, limit int) ([]model.Video, error) {
	q := s.DB.WithContext(ctx).Order("upload_timestamp DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var videos []model.Video
	if err := q.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// Create inserts a new catalog entry.
func (s *VideoService) Create(ctx context.Context, video *model.Video) error {
	if err := s.DB.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video %s: %w", video.Id, err)
	}
	return nil
}

// Save writes back every field of an existing entry.
func (s *VideoService) Save(ctx context.Context, video *model.Video) error {
	if err := s.DB.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to save video %s: %w", video.Id, err)
	}
	return nil
}

// Delete removes a catalog entry. Deleting a missing id is reported as
// playback.ErrVideoNotFound.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Delete(&model.Video{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete video %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", playback.ErrVideoNotFound, id)
	}
	return nil
}

// Count returns the number of catalog entries, optionally filtered by
// status.
func (s *VideoService) Count(ctx context.Context, status string) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.Video{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// RecordPlayback bumps the play counter and last-played timestamp for a
// video that just started a session. Failures here are logged by the caller
// and never fail the playback operation itself.
func (s *VideoService) RecordPlayback(ctx context.Context, id string) error {
	now := time.Now()
	err := s.DB.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"play_count":  gorm.Expr("play_count + 1"),
			"last_played": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record playback for %s: %w", id, err)
	}
	return nil
}

// GenerateSignedURL creates a time-limited, secure URL to access a private
// GCS object, letting a browser stream video directly from the bucket
// without its own credentials. The gcsURI is the https form stored on the
// catalog entry's MediaUrl field.
func (s *VideoService) GenerateSignedURL(gcsURI string, expires time.Duration) (string, error) {
	if s.StorageClient == nil {
		return "", errors.New("no storage client configured")
	}

	prefix := "https://storage.mtls.cloud.google.com/"
	if !strings.HasPrefix(gcsURI, prefix) {
		return "", fmt.Errorf("invalid GCS URI format: %s", gcsURI)
	}
	path := strings.TrimPrefix(gcsURI, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid GCS URI: unable to determine bucket and object from %s", gcsURI)
	}
	bucketName := parts[0]
	objectName := parts[1]

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}
	u, err := s.StorageClient.Bucket(bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucketName, objectName, err)
	}
	return u, nil
}
