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

// Package cor (Chain of Responsibility) provides the building blocks for the
// generation workflows. A workflow is a Chain of Commands sharing one Context;
// each command reads its input from the context, does one unit of work, and
// writes its output back for the next command.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used to pipe the primary data flow through a
// chain: after each command runs, the chain moves the value stored under
// CtxOut to CtxIn so it becomes the next command's input.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state for a single workflow execution. It carries
// arbitrary key-value data, collected errors, temporary files to clean up,
// and the standard Go context used for cancellation and tracing.
type Context interface {
	SetContext(context context.Context)
	GetContext() context.Context

	// Add stores a key-value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context
	Get(key string) interface{}
	Remove(key string)

	// AddError records an error, keyed by the command that produced it.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool

	// AddTempFile tracks a temporary file so Close can remove it.
	AddTempFile(file string)
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it at workflow start.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, thread-safe unit of work and the fundamental
// building block of a workflow.
type Command interface {
	Executable

	// GetName returns the command's unique name, used in logs and telemetry.
	GetName() string

	// GetInputParam and GetOutputParam return the context keys this command
	// reads its input from and writes its output to.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable reports whether the command's preconditions hold for the
	// current context state.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can be nested.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps executing after a
	// command records an error. Defaults to stopping at the first failure.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
