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

// This file defines the video catalog endpoints: listing, retrieval,
// deletion, streaming, and the multipart upload path. Uploads are validated
// by content sniffing rather than trusting the file extension.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/playback"
)

// VideoRouter sets up the catalog routes.
func (h *Handlers) VideoRouter(r *gin.RouterGroup) {
	videos := r.Group("/videos")
	{
		videos.GET("", func(c *gin.Context) {
			status := c.Query("status")
			if status != "" && !slices.Contains(model.ValidVideoStatuses, status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_status",
					"message": "status must be one of " + strings.Join(model.ValidVideoStatuses, ", "),
				})
				return
			}
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
			if err != nil {
				limit = 0
			}

			list, err := h.Videos.List(c.Request.Context(), status, limit)
			if err != nil {
				slog.Error("failed to list videos", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{"videos": list, "count": len(list)})
		})

		videos.GET("/:id", func(c *gin.Context) {
			video, err := h.Videos.Lookup(c.Request.Context(), c.Param("id"))
			if err != nil {
				respondVideoError(c, err)
				return
			}
			c.JSON(http.StatusOK, video)
		})

		videos.DELETE("/:id", func(c *gin.Context) {
			id := c.Param("id")
			video, err := h.Videos.Lookup(c.Request.Context(), id)
			if err != nil {
				respondVideoError(c, err)
				return
			}
			if err := h.Videos.Delete(c.Request.Context(), id); err != nil {
				respondVideoError(c, err)
				return
			}
			// The file goes after the row so a failed delete never leaves a
			// catalog entry pointing at nothing.
			if video.FilePath != "" {
				if err := os.Remove(video.FilePath); err != nil && !os.IsNotExist(err) {
					slog.Warn("failed to remove video file", "path", video.FilePath, "error", err)
				}
			}
			c.JSON(http.StatusOK, gin.H{"deleted": id})
		})

		// Returns a time-limited signed URL when the video is mirrored in
		// GCS, otherwise falls back to the local file path for the display
		// host to read directly.
		videos.GET("/:id/stream", func(c *gin.Context) {
			video, err := h.Videos.Lookup(c.Request.Context(), c.Param("id"))
			if err != nil {
				respondVideoError(c, err)
				return
			}
			if video.MediaUrl != "" {
				signedURL, err := h.Videos.GenerateSignedURL(video.MediaUrl, 15*time.Minute)
				if err != nil {
					slog.Error("failed to sign streaming URL", "video_id", video.Id, "error", err)
					c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate streaming URL"})
					return
				}
				c.JSON(http.StatusOK, gin.H{"url": signedURL})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": "file://" + video.FilePath})
		})

		videos.POST("/upload", h.uploadVideo)
	}
}

// uploadVideo handles POST /api/videos/upload. The multipart field is named
// "file"; an optional "title" field overrides the filename-derived title.
func (h *Handlers) uploadVideo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "multipart field 'file' is required",
		})
		return
	}

	maxBytes := int64(h.Config.Upload.MaxFileSizeMB) * 1024 * 1024
	if maxBytes > 0 && file.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "file_too_large",
			"message": "file exceeds the " + strconv.Itoa(h.Config.Upload.MaxFileSizeMB) + "MB upload limit",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	// Sniff the real container format from the first bytes of the stream.
	head := make([]byte, 261)
	n, _ := src.Read(head)
	_ = src.Close()

	kind, err := filetype.Match(head[:n])
	if err != nil || !slices.Contains(h.Config.Upload.AllowedFormats, kind.Extension) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unsupported_format",
			"message": "file content must be one of " + strings.Join(h.Config.Upload.AllowedFormats, ", "),
		})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	video := model.NewVideo(title, "", file.Size, kind.Extension)
	video.FilePath = filepath.Join(h.Config.Storage.VideosDirectory, video.Id+"."+kind.Extension)

	if err := c.SaveUploadedFile(file, video.FilePath); err != nil {
		slog.Error("failed to save uploaded file", "path", video.FilePath, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	video.Status = model.VideoStatusActive
	if err := h.Videos.Create(c.Request.Context(), video); err != nil {
		slog.Error("failed to catalog uploaded video", "video_id", video.Id, "error", err)
		_ = os.Remove(video.FilePath)
		c.Status(http.StatusInternalServerError)
		return
	}

	if h.Recorder != nil {
		event := model.NewControlEvent(c.ClientIP(), model.EventUpload)
		event.EventData = video.Id
		h.Recorder.Record(event)
	}
	c.JSON(http.StatusCreated, video)
}

func respondVideoError(c *gin.Context, err error) {
	if errors.Is(err, playback.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "video_not_found",
			"message": err.Error(),
		})
		return
	}
	slog.Error("catalog operation failed", "error", err)
	c.Status(http.StatusInternalServerError)
}
