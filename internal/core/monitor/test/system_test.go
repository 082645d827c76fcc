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

// Package monitor_test contains the test suite for the host monitor.
package monitor_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/monitor"
	"github.com/zeebo/assert"
)

func TestStatusReportsHostMetrics(t *testing.T) {
	m := monitor.NewSystemMonitor("/")

	status := m.Status(context.Background())

	assert.False(t, status.Timestamp.IsZero())
	assert.True(t, status.MemoryTotalMB > 0)
	assert.True(t, status.DiskTotalGB > 0)
	assert.True(t, status.MemoryUsedMB <= status.MemoryTotalMB)
	assert.True(t, status.DiskFreeGB <= status.DiskTotalGB)
}

func TestStatusSurvivesBadPath(t *testing.T) {
	// An unreadable disk path leaves the disk fields at zero but still
	// returns a reading.
	m := monitor.NewSystemMonitor("/definitely/not/a/real/path")

	status := m.Status(context.Background())

	assert.False(t, status.Timestamp.IsZero())
	assert.Equal(t, 0.0, status.DiskTotalGB)
}
