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
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AMB305/v0-utrippin-sub004/internal/resilience"
)

// OpenAIConfig configures the primary provider.
type OpenAIConfig struct {
	APIKey      string
	Endpoint    string
	Model       string
	MaxTokens   int
	Temperature float32
	// RPS caps outbound calls; zero disables the limiter.
	RPS int
}

// OpenAIClient is the primary generative provider.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	rl     *rate.Limiter
	logger *zap.Logger
}

// NewOpenAI creates the primary provider client. An empty API key is not an
// error here; the gateway skips unconfigured stages.
func NewOpenAI(cfg OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}

	var client *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = cfg.Endpoint
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	var rl *rate.Limiter
	if cfg.RPS > 0 {
		rl = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS)
	}

	return &OpenAIClient{client: client, cfg: cfg, rl: rl, logger: logger}
}

// Name implements Client.
func (c *OpenAIClient) Name() string { return "openai" }

// Configured implements Client.
func (c *OpenAIClient) Configured() bool { return c.client != nil }

// Generate performs a single chat completion call.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", resilience.NewMissingCredentials(c.Name())
	}

	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return "", resilience.NewProviderHTTP(c.Name(), 0, err)
		}
	}

	c.logger.Debug("Calling primary provider",
		zap.String("model", c.cfg.Model),
		zap.Int("max_tokens", c.cfg.MaxTokens),
		zap.Int("prompt_length", len(userPrompt)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", resilience.NewProviderHTTP(c.Name(), apiErr.HTTPStatusCode, err)
		}
		return "", resilience.NewProviderHTTP(c.Name(), 0, err)
	}

	if len(resp.Choices) == 0 {
		return "", resilience.NewProviderHTTP(c.Name(), 0, fmt.Errorf("no choices returned"))
	}

	c.logger.Debug("Primary provider responded",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
