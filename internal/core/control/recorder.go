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

package control

import (
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/jaycherian/gcp-go-dynamic-painting/internal/core/model"
)

// EventRecorder persists hardware control events without putting the
// database write on the request path. Events flow through a buffered
// channel into a single writer goroutine; when the buffer is full the
// event is dropped with a warning rather than blocking the device.
type EventRecorder struct {
	db     *gorm.DB
	events chan *model.ControlEvent
	done   chan struct{}
	once   sync.Once
}

// NewEventRecorder starts the background writer. A nil db yields a
// recorder that discards everything, which keeps unit tests and
// storage-less deployments simple.
func NewEventRecorder(db *gorm.DB) *EventRecorder {
	r := &EventRecorder{
		db:     db,
		events: make(chan *model.ControlEvent, 256),
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues an event for persistence. It never blocks.
func (r *EventRecorder) Record(event *model.ControlEvent) {
	select {
	case r.events <- event:
	default:
		slog.Warn("control event buffer full, dropping event",
			slog.String("device_id", event.DeviceId),
			slog.String("event_type", string(event.EventType)))
	}
}

// Close flushes buffered events and stops the writer. Safe to call more
// than once.
func (r *EventRecorder) Close() {
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}

func (r *EventRecorder) drain() {
	defer close(r.done)
	for event := range r.events {
		if r.db == nil {
			continue
		}
		if err := r.db.Create(event).Error; err != nil {
			slog.Error("failed to persist control event",
				slog.String("event_id", event.Id),
				slog.String("error", err.Error()))
		}
	}
}
