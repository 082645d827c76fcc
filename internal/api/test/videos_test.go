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

// This file covers the video catalog endpoints.
package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	test "github.com/jaycherian/gcp-go-dynamic-painting/internal/testutil"
)

func TestListVideos(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/api/videos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, float64(2), body["count"])

	w = doJSON(t, r, http.MethodGet, "/api/videos?status=archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(0), decode(t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/videos?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVideo(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/api/videos/"+test.SampleVideoId, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ocean Sunrise", decode(t, w)["title"])

	w = doJSON(t, r, http.MethodGet, "/api/videos/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "video_not_found", decode(t, w)["error"])
}

func TestDeleteVideo(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodDelete, "/api/videos/"+test.SampleVideoId, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/videos/"+test.SampleVideoId, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamFallsBackToLocalPath(t *testing.T) {
	r := newTestEngine(t)

	// The seeded videos have no GCS mirror, so the stream endpoint hands
	// back the local file path.
	w := doJSON(t, r, http.MethodGet, "/api/videos/"+test.SampleVideoId+"/stream", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decode(t, w)["url"], "file://")
}

// TestUploadRejectsNonVideoContent posts a multipart body whose content is
// plain text with an mp4 filename; the sniffer must reject it.
func TestUploadRejectsNonVideoContent(t *testing.T) {
	r := newTestEngine(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "fake.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a video container"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/videos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unsupported_format", decode(t, w)["error"])
}

func TestUploadRequiresFileField(t *testing.T) {
	r := newTestEngine(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "No File"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/videos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
