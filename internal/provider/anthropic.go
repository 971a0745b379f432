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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
)

const anthropicVersion = "2023-06-01"

// AnthropicConfig configures the secondary provider.
type AnthropicConfig struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
	RPS       int
}

// AnthropicClient is the secondary generative provider, called over plain
// HTTP against the messages endpoint.
type AnthropicClient struct {
	cfg    AnthropicConfig
	hc     *http.Client
	rl     *rate.Limiter
	logger *zap.Logger
}

// NewAnthropic creates the secondary provider client. As with the primary,
// a missing key only marks the stage unconfigured.
func NewAnthropic(cfg AnthropicConfig, logger *zap.Logger) *AnthropicClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.anthropic.com/v1/messages"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}

	var rl *rate.Limiter
	if cfg.RPS > 0 {
		rl = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS)
	}

	return &AnthropicClient{
		cfg:    cfg,
		hc:     &http.Client{Timeout: 60 * time.Second},
		rl:     rl,
		logger: logger,
	}
}

// Name implements Client.
func (c *AnthropicClient) Name() string { return "anthropic" }

// Configured implements Client.
func (c *AnthropicClient) Configured() bool { return c.cfg.APIKey != "" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Generate performs a single messages call.
func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", resilience.NewMissingCredentials(c.Name())
	}

	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return "", resilience.NewProviderHTTP(c.Name(), 0, err)
		}
	}

	payload := anthropicRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", resilience.NewInternal("failed to encode provider request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", resilience.NewInternal("failed to build provider request", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("anthropic-version", anthropicVersion)

	c.logger.Debug("Calling secondary provider",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_length", len(userPrompt)),
	)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", resilience.NewProviderHTTP(c.Name(), 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resilience.NewProviderHTTP(c.Name(), resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 {
		return "", resilience.NewProviderHTTP(c.Name(), resp.StatusCode,
			fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var out anthropicResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", resilience.NewProviderHTTP(c.Name(), resp.StatusCode, err)
	}
	if len(out.Content) == 0 {
		return "", resilience.NewProviderHTTP(c.Name(), resp.StatusCode, fmt.Errorf("empty content"))
	}

	return out.Content[0].Text, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
