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

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AMB305/v0-utrippin-sub004/internal/config"
	"github.com/AMB305/v0-utrippin-sub004/internal/conversation"
	"github.com/AMB305/v0-utrippin-sub004/internal/costrules"
	"github.com/AMB305/v0-utrippin-sub004/internal/generation"
	"github.com/AMB305/v0-utrippin-sub004/internal/normalizer"
	"github.com/AMB305/v0-utrippin-sub004/internal/observability"
	"github.com/AMB305/v0-utrippin-sub004/internal/prompt"
	"github.com/AMB305/v0-utrippin-sub004/internal/provider"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

// descriptionWordLimit caps the collapsed itinerary description returned by
// the normalize endpoint.
const descriptionWordLimit = 150

// generateResponse is the public API envelope around a generation result.
// The echoed request fields are the repaired values actually used.
type generateResponse struct {
	Trips     []trip.Package `json:"trips"`
	Count     int            `json:"count"`
	Budget    float64        `json:"budget"`
	GroupSize int            `json:"groupSize"`
	Mode      trip.Mode      `json:"mode"`
	Provider  trip.Provider  `json:"provider"`
	Error     string         `json:"error,omitempty"`
}

type normalizeRequest struct {
	Content string `json:"content" binding:"required"`
}

type normalizeResponse struct {
	Days        []trip.DayCard        `json:"days"`
	Count       int                   `json:"count"`
	Description normalizer.Truncation `json:"description"`
}

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	maskedConfig := cfg.MaskSensitiveValues()
	logger.Info("Configuration loaded successfully",
		zap.String("service", "tripserver"),
		zap.String("environment", os.Getenv("ENVIRONMENT")),
		zap.String("openai_api_key", maskedConfig.OpenAI.APIKey),
		zap.String("anthropic_api_key", maskedConfig.Anthropic.APIKey),
		zap.Int("package_count", cfg.Generation.PackageCount),
		zap.Int("stage_timeout_seconds", cfg.Generation.StageTimeoutSeconds),
	)

	primary := provider.NewOpenAI(provider.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		Endpoint:    cfg.OpenAI.Endpoint,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: float32(cfg.OpenAI.Temperature),
		RPS:         int(cfg.OpenAI.RPS),
	}, logger)

	secondary := provider.NewAnthropic(provider.AnthropicConfig{
		APIKey:    cfg.Anthropic.APIKey,
		Endpoint:  cfg.Anthropic.Endpoint,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	}, logger)

	gateway := provider.NewGateway(primary, secondary,
		time.Duration(cfg.Generation.StageTimeoutSeconds)*time.Second, logger)

	store, err := conversation.NewStore(cfg.Conversation.DBPath)
	if err != nil {
		logger.Fatal("Failed to open conversation store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()
	log := conversation.NewLog(store, logger)

	promptCfg := prompt.DefaultConfig()
	promptCfg.PackageCount = cfg.Generation.PackageCount
	promptCfg.MaxTokens = cfg.Generation.PromptMaxTokens

	service := generation.NewService(gateway, generation.Options{
		Prompt: promptCfg,
		Log:    log,
	}, logger)

	normCfg := normalizer.DefaultConfig()
	normCfg.AssumedPartySize = cfg.Normalizer.AssumedPartySize
	norm := normalizer.New(costrules.DefaultTable(), normCfg)

	registry := observability.InitRegistry()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(requestMetrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"service":     "tripserver",
			"version":     "1.0.0",
			"environment": os.Getenv("ENVIRONMENT"),
			"providers": gin.H{
				"primary":   primary.Configured(),
				"secondary": secondary.Configured(),
			},
		})
	})

	router.GET("/metrics", gin.WrapH(observability.MetricsHandler(registry)))

	// Generation never hard-fails: malformed requests are repaired and a
	// degraded pipeline still answers with synthesized packages.
	router.POST("/api/generate-trips", func(c *gin.Context) {
		var req trip.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Unreadable generation request, using defaults", zap.Error(err))
			req = trip.Request{}
		}

		req = service.Repair(req)
		result := service.Generate(c.Request.Context(), req)
		c.JSON(http.StatusOK, generateResponse{
			Trips:     result.Packages,
			Count:     len(result.Packages),
			Budget:    req.Budget,
			GroupSize: req.GroupSize,
			Mode:      req.Mode,
			Provider:  result.Provider,
			Error:     result.Error,
		})
	})

	router.POST("/api/normalize-itinerary", normalizeItinerary(norm, logger))

	router.GET("/api/conversations/:id/messages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"conversation_id": c.Param("id"),
			"messages":        log.History(c.Param("id")),
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting trip server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// normalizeItinerary converts free-form itinerary text into structured,
// cost-annotated day cards plus a collapsed description of the raw content.
func normalizeItinerary(norm *normalizer.Normalizer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req normalizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Unreadable normalize request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		days := norm.Normalize(req.Content)
		if days == nil {
			days = []trip.DayCard{}
		}
		c.JSON(http.StatusOK, normalizeResponse{
			Days:        days,
			Count:       len(days),
			Description: normalizer.TruncateWords(req.Content, descriptionWordLimit),
		})
	}
}

// requestMetrics records request counts and latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// initializeLogger creates a logger based on configuration settings
func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Logging.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	switch cfg.Logging.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if cfg.Logging.Output == "file" {
		zapConfig.OutputPaths = []string{"tripserver.log"}
		zapConfig.ErrorOutputPaths = []string{"tripserver.log"}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig.Build()
}
