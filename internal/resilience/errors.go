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

// Package resilience defines the error taxonomy shared across the generation
// pipeline. Provider and parsing failures are classified here so the gateway
// can decide which failures advance its state machine and which surface as
// soft error annotations.
package resilience

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorCode classifies a pipeline failure.
type ErrorCode string

const (
	// ErrorCodeMissingCredentials marks a provider stage that has no
	// credential configured. Recovered silently by skipping the stage.
	ErrorCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	// ErrorCodeProviderHTTP marks a non-success status or transport failure
	// from a provider. Recovered silently by advancing to the next stage.
	ErrorCodeProviderHTTP ErrorCode = "PROVIDER_HTTP_ERROR"
	// ErrorCodeContentUnparsable marks provider output from which no valid
	// trip payload could be extracted.
	ErrorCodeContentUnparsable ErrorCode = "CONTENT_UNPARSABLE"
	// ErrorCodeRequestValidation marks a malformed request that was repaired
	// with defaults rather than rejected.
	ErrorCodeRequestValidation ErrorCode = "REQUEST_VALIDATION"
	// ErrorCodeInternal is the catch-all for unexpected failures.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// PipelineError carries a classified failure through the gateway.
type PipelineError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Internal   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Internal
}

// NewMissingCredentials creates an unconfigured-provider error.
func NewMissingCredentials(provider string) *PipelineError {
	return &PipelineError{
		Code:    ErrorCodeMissingCredentials,
		Message: fmt.Sprintf("%s provider has no credential configured", provider),
	}
}

// NewProviderHTTP creates a provider transport or status error.
func NewProviderHTTP(provider string, statusCode int, internal error) *PipelineError {
	return &PipelineError{
		Code:       ErrorCodeProviderHTTP,
		Message:    fmt.Sprintf("%s provider call failed", provider),
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewContentUnparsable creates an unparsable-content error.
func NewContentUnparsable(detail string, internal error) *PipelineError {
	return &PipelineError{
		Code:     ErrorCodeContentUnparsable,
		Message:  detail,
		Internal: internal,
	}
}

// NewRequestValidation records a repaired request field.
func NewRequestValidation(detail string) *PipelineError {
	return &PipelineError{
		Code:    ErrorCodeRequestValidation,
		Message: detail,
	}
}

// NewInternal creates a catch-all internal error.
func NewInternal(detail string, internal error) *PipelineError {
	return &PipelineError{
		Code:     ErrorCodeInternal,
		Message:  detail,
		Internal: internal,
	}
}

// CodeOf extracts the error code from any error in the chain, defaulting to
// the internal code for unclassified errors.
func CodeOf(err error) ErrorCode {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ErrorCodeInternal
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var pErr *PipelineError
	return errors.As(err, &pErr) && pErr.Code == code
}

// LogError logs a classified error with its code attached.
func LogError(logger *zap.Logger, err error, operation string, fields ...zap.Field) {
	if err == nil || logger == nil {
		return
	}

	logFields := []zap.Field{
		zap.String("operation", operation),
		zap.String("error_code", string(CodeOf(err))),
		zap.Error(err),
	}
	logFields = append(logFields, fields...)
	logger.Warn("Pipeline stage failed", logFields...)
}
