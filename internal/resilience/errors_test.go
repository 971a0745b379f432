package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPipelineError_Error(t *testing.T) {
	err := NewProviderHTTP("Primary", 503, errors.New("upstream down"))

	msg := err.Error()
	if !strings.Contains(msg, "PROVIDER_HTTP_ERROR") {
		t.Errorf("error message missing code: %s", msg)
	}
	if !strings.Contains(msg, "503") {
		t.Errorf("error message missing status: %s", msg)
	}

	noStatus := NewMissingCredentials("Secondary")
	if strings.Contains(noStatus.Error(), "status") {
		t.Errorf("credential error should not mention a status: %s", noStatus.Error())
	}
}

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{name: "missing credentials", err: NewMissingCredentials("Primary"), expected: ErrorCodeMissingCredentials},
		{name: "unparsable", err: NewContentUnparsable("no JSON found", nil), expected: ErrorCodeContentUnparsable},
		{name: "wrapped", err: fmt.Errorf("stage failed: %w", NewProviderHTTP("Primary", 500, nil)), expected: ErrorCodeProviderHTTP},
		{name: "plain error", err: errors.New("boom"), expected: ErrorCodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.expected {
				t.Errorf("CodeOf = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("while parsing: %w", NewContentUnparsable("truncated payload", nil))

	if !IsCode(wrapped, ErrorCodeContentUnparsable) {
		t.Error("IsCode should match through wrapping")
	}
	if IsCode(wrapped, ErrorCodeProviderHTTP) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), ErrorCodeInternal) {
		t.Error("IsCode should not classify plain errors")
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewProviderHTTP("Secondary", 0, inner)

	if !errors.Is(err, inner) {
		t.Error("PipelineError should unwrap to its internal error")
	}
}
