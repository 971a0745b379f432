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

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/observability"
	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// RawResult is the gateway's output: raw provider text plus the tag that
// downstream responses label themselves with.
type RawResult struct {
	Text     string
	Provider trip.Provider
}

// Gateway runs the sequential failover across the generative providers:
// TryPrimary -> TrySecondary -> exhausted. An unconfigured stage is skipped
// without an attempt; a failed stage advances with no in-state retry. The
// deterministic synthesizer stage lives with the caller, which invokes it on
// any gateway or parse failure, so a response always exists.
type Gateway struct {
	primary   Client
	secondary Client
	// stageTimeout bounds each provider call with a client-side deadline,
	// independent of whatever timeout the provider's own transport carries.
	stageTimeout time.Duration
	logger       *zap.Logger
}

// NewGateway creates the failover gateway.
func NewGateway(primary, secondary Client, stageTimeout time.Duration, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stageTimeout <= 0 {
		stageTimeout = 30 * time.Second
	}
	return &Gateway{
		primary:      primary,
		secondary:    secondary,
		stageTimeout: stageTimeout,
		logger:       logger,
	}
}

// Generate walks the provider stages in order and returns the first
// successful raw payload. When every stage fails or is unconfigured, the
// last classified error is returned and the caller degrades to the
// synthesizer.
func (g *Gateway) Generate(ctx context.Context, systemPrompt, userPrompt string) (RawResult, error) {
	stages := []struct {
		tag    trip.Provider
		client Client
	}{
		{tag: trip.ProviderPrimary, client: g.primary},
		{tag: trip.ProviderSecondary, client: g.secondary},
	}

	var lastErr error
	for _, stage := range stages {
		if stage.client == nil || !stage.client.Configured() {
			lastErr = resilience.NewMissingCredentials(string(stage.tag))
			observability.ObserveProvider(nameOf(stage.client, stage.tag), "missing_credentials", 0)
			g.logger.Info("Skipping unconfigured provider stage",
				zap.String("stage", string(stage.tag)),
			)
			continue
		}

		text, err := g.attempt(ctx, stage.client, systemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			resilience.LogError(g.logger, err, "provider_generate",
				zap.String("stage", string(stage.tag)),
			)
			continue
		}

		g.logger.Info("Provider stage succeeded",
			zap.String("stage", string(stage.tag)),
			zap.String("provider", stage.client.Name()),
			zap.Int("response_length", len(text)),
		)
		return RawResult{Text: text, Provider: stage.tag}, nil
	}

	if lastErr == nil {
		lastErr = resilience.NewMissingCredentials("all")
	}
	return RawResult{}, lastErr
}

// attempt runs exactly one bounded provider call.
func (g *Gateway) attempt(ctx context.Context, client Client, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.stageTimeout)
	defer cancel()

	start := time.Now()
	text, err := client.Generate(ctx, systemPrompt, userPrompt)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "http_error"
		if resilience.IsCode(err, resilience.ErrorCodeMissingCredentials) {
			outcome = "missing_credentials"
		}
	}
	observability.ObserveProvider(client.Name(), outcome, elapsed)

	return text, err
}

func nameOf(client Client, tag trip.Provider) string {
	if client != nil {
		return client.Name()
	}
	return string(tag)
}
