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

// Package observability exposes Prometheus metrics for the generation
// pipeline: per-stage provider outcomes, fallback usage, request repairs and
// HTTP latency.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts API requests by route, method and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "utrippin", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	// HTTPLatency observes API request duration.
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "utrippin", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	// ProviderAttempts counts gateway stage outcomes.
	// outcome: success|http_error|missing_credentials|unparsable
	ProviderAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "utrippin", Name: "provider_attempts_total", Help: "Gateway stage attempts."},
		[]string{"provider", "outcome"},
	)
	// ProviderLatency observes provider call duration per stage.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "utrippin", Name: "provider_call_duration_seconds",
			Help:    "Provider call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	// FallbackResponses counts responses served by the deterministic synthesizer.
	FallbackResponses = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "utrippin", Name: "fallback_responses_total", Help: "Responses degraded to the synthesizer."},
	)
	// RequestRepairs counts request fields repaired with defaults.
	RequestRepairs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "utrippin", Name: "request_repairs_total", Help: "Invalid request fields repaired with defaults."},
		[]string{"field"},
	)
)

// InitRegistry registers all pipeline metrics on a fresh registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ProviderAttempts, ProviderLatency, FallbackResponses, RequestRepairs)
	return reg
}

// MetricsHandler returns the scrape handler for a registry.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one API request.
func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveProvider records one gateway stage attempt.
func ObserveProvider(provider, outcome string, dur time.Duration) {
	ProviderAttempts.WithLabelValues(provider, outcome).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

// ObserveFallback records a response served by the synthesizer.
func ObserveFallback() {
	FallbackResponses.Inc()
}

// ObserveRepair records one repaired request field.
func ObserveRepair(field string) {
	RequestRepairs.WithLabelValues(field).Inc()
}
