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

// Package generation orchestrates the trip pipeline: repair the incoming
// request, derive the policy-driven prompt, run the provider gateway, parse
// and repair the response, and degrade to the deterministic synthesizer when
// anything upstream fails. A Generate call never fails outright.
package generation

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/conversation"
	"github.com/AMB305/v0-utrippin-sub004/internal/observability"
	"github.com/AMB305/v0-utrippin-sub004/internal/parser"
	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/prompt"
	"github.com/AMB305/v0-utrippin-sub004/internal/provider"
	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
	"github.com/AMB305/v0-utrippin-sub004/internal/synthesizer"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// Request repair defaults. Out-of-range fields are replaced, not rejected,
// so a malformed client still gets an itinerary.
const (
	DefaultBudget    = 3000
	DefaultGroupSize = 2
	DefaultMode      = trip.ModeVacation
)

// fallbackNotice is the soft error attached to degraded responses.
const fallbackNotice = "live providers unavailable; returning offline itinerary"

// TextGenerator abstracts the provider gateway so tests can script failover
// outcomes without network clients.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (provider.RawResult, error)
}

// Service wires the pipeline stages together.
type Service struct {
	gateway     TextGenerator
	parser      *parser.Parser
	synthesizer *synthesizer.Synthesizer
	durations   policy.DurationTable
	splits      policy.SplitTable
	promptCfg   prompt.Config
	log         *conversation.Log
	logger      *zap.Logger
}

// Options configures a Service beyond its collaborators.
type Options struct {
	Durations policy.DurationTable
	Splits    policy.SplitTable
	Prompt    prompt.Config
	// Log is optional; when set, each generation appends the exchange
	// to the request's conversation.
	Log *conversation.Log
}

// NewService creates the generation service. gateway may be nil when no
// provider is configured; every request then takes the synthesizer path.
func NewService(gateway TextGenerator, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Durations.Vacation) == 0 {
		opts.Durations = policy.ServerDurationTable()
	}
	if opts.Splits.Vacation == (policy.SplitPercentages{}) {
		opts.Splits = policy.DefaultSplitTable()
	}
	if opts.Prompt.PackageCount == 0 {
		opts.Prompt = prompt.DefaultConfig()
	}
	return &Service{
		gateway:     gateway,
		parser:      parser.New(opts.Durations, opts.Splits, logger),
		synthesizer: synthesizer.New(opts.Durations, opts.Splits, logger),
		durations:   opts.Durations,
		splits:      opts.Splits,
		promptCfg:   opts.Prompt,
		log:         opts.Log,
		logger:      logger,
	}
}

// Repair replaces invalid request fields with defaults, logging each
// substitution. It never rejects.
func (s *Service) Repair(req trip.Request) trip.Request {
	if req.Budget <= 0 {
		s.logger.Warn("repairing request field",
			zap.String("field", "budget"),
			zap.Float64("given", req.Budget),
			zap.Int("default", DefaultBudget))
		observability.ObserveRepair("budget")
		req.Budget = DefaultBudget
	}
	if req.GroupSize < 1 {
		s.logger.Warn("repairing request field",
			zap.String("field", "group_size"),
			zap.Int("given", req.GroupSize),
			zap.Int("default", DefaultGroupSize))
		observability.ObserveRepair("group_size")
		req.GroupSize = DefaultGroupSize
	}
	if req.Mode != trip.ModeVacation && req.Mode != trip.ModeStaycation {
		s.logger.Warn("repairing request field",
			zap.String("field", "mode"),
			zap.String("given", string(req.Mode)),
			zap.String("default", string(DefaultMode)))
		observability.ObserveRepair("mode")
		req.Mode = DefaultMode
	}
	return req
}

// Generate runs the full pipeline for one request. The result always carries
// at least one package; degraded responses are tagged with the Fallback
// provider and a soft error string.
func (s *Service) Generate(ctx context.Context, req trip.Request) trip.GenerationResult {
	req = s.Repair(req)

	var seq int64
	if s.log != nil && req.ConversationID != "" {
		seq = s.log.Begin(req.ConversationID)
	}

	result := s.generate(ctx, req)
	s.record(req, seq, result)
	return result
}

func (s *Service) generate(ctx context.Context, req trip.Request) trip.GenerationResult {
	if s.gateway == nil {
		return s.fallback(req, resilience.NewMissingCredentials("no provider configured"))
	}

	days := s.durations.Duration(req.Budget, req.Mode)
	split := s.splits.Split(req.Mode, s.durations.IsLowBudgetStaycation(req.Budget, req.Mode))
	userPrompt := prompt.Build(prompt.Input{
		Request:  req,
		Days:     days,
		Split:    split,
		Guidance: policy.Apply(req.Budget, split),
	}, s.promptCfg)
	if err := prompt.Validate(userPrompt); err != nil {
		return s.fallback(req, resilience.NewInternal("generated prompt failed validation", err))
	}

	raw, err := s.gateway.Generate(ctx, prompt.SystemPrompt(), userPrompt)
	if err != nil {
		return s.fallback(req, err)
	}

	packages, err := s.parser.Parse(raw.Text, req)
	if err != nil {
		return s.fallback(req, err)
	}

	s.logger.Info("generation succeeded",
		zap.String("provider", string(raw.Provider)),
		zap.Int("packages", len(packages)))
	return trip.GenerationResult{Packages: packages, Provider: raw.Provider}
}

// fallback produces the deterministic offline response. The triggering error
// is logged and surfaced only as a soft annotation.
func (s *Service) fallback(req trip.Request, cause error) trip.GenerationResult {
	resilience.LogError(s.logger, cause, "degrading to offline synthesizer")
	observability.ObserveFallback()

	return trip.GenerationResult{
		Packages: s.synthesizer.Generate(req),
		Provider: trip.ProviderFallback,
		Error:    fallbackNotice,
	}
}

// record appends the exchange to the conversation log. Stale sequences are
// discarded by the log itself.
func (s *Service) record(req trip.Request, seq int64, result trip.GenerationResult) {
	if s.log == nil || req.ConversationID == "" {
		return
	}

	reqJSON, _ := json.Marshal(req)
	resJSON, _ := json.Marshal(result)
	accepted := s.log.Append(req.ConversationID, seq,
		conversation.Message{Role: conversation.RoleUser, Content: string(reqJSON)},
		conversation.Message{
			Role:     conversation.RoleAssistant,
			Content:  string(resJSON),
			Provider: string(result.Provider),
		},
	)
	if !accepted {
		s.logger.Info("superseded generation result discarded",
			zap.String("conversation_id", req.ConversationID),
			zap.Int64("seq", seq))
	}
}
