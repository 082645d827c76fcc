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

// Package monitor reports the health of the home server the painting backend
// runs on. The dashboard shows these numbers so the owner can tell when the
// disk holding the video library is filling up.
package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemStatus is a point-in-time reading of host health.
type SystemStatus struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsedMB  uint64    `json:"memory_used_mb"`
	MemoryTotalMB uint64    `json:"memory_total_mb"`
	DiskPercent   float64   `json:"disk_percent"`
	DiskFreeGB    float64   `json:"disk_free_gb"`
	DiskTotalGB   float64   `json:"disk_total_gb"`
	UptimeSeconds uint64    `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// SystemMonitor samples host metrics for the directory holding the video
// library.
type SystemMonitor struct {
	videosPath string
}

// NewSystemMonitor creates a monitor that reports disk usage for the
// filesystem containing videosPath.
func NewSystemMonitor(videosPath string) *SystemMonitor {
	if videosPath == "" {
		videosPath = "/"
	}
	return &SystemMonitor{videosPath: videosPath}
}

// Status samples CPU, memory, disk and uptime. Individual probe failures
// leave the corresponding fields at zero rather than failing the whole
// reading; a dashboard with partial numbers beats no dashboard.
func (m *SystemMonitor) Status(ctx context.Context) SystemStatus {
	status := SystemStatus{Timestamp: time.Now()}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsedMB = vm.Used / (1024 * 1024)
		status.MemoryTotalMB = vm.Total / (1024 * 1024)
	}
	if usage, err := disk.UsageWithContext(ctx, m.videosPath); err == nil {
		status.DiskPercent = usage.UsedPercent
		status.DiskFreeGB = float64(usage.Free) / (1024 * 1024 * 1024)
		status.DiskTotalGB = float64(usage.Total) / (1024 * 1024 * 1024)
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		status.UptimeSeconds = uptime
	}
	return status
}
