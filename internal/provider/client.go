// Copyright 2025 Utrippin Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package provider holds the generative text providers and the sequential
// failover gateway across them. Each stage gets exactly one attempt; any
// failure advances the state machine, never retries in place.
package provider

import "context"

// Client is one generative text provider stage.
type Client interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Configured reports whether the provider has a usable credential. An
	// unconfigured stage is skipped without an attempt.
	Configured() bool
	// Generate performs a single completion call. Transport failures and
	// non-success statuses return a PROVIDER_HTTP_ERROR.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
