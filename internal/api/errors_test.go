package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindTransport, "transport"},
		{KindStatus, "status"},
		{KindPayload, "payload"},
		{KindDecode, "decode"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q, want empty", got)
	}

	wrapped := fmt.Errorf("loading usage: %w", statusError(PathTokenData, 502, "Bad Gateway"))
	if got := UserMessage(wrapped); got != "Server returned 502: Bad Gateway" {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}

	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}

	if got := payloadError(PathModels, "").Message; got != "Server reported an error: unknown error" {
		t.Errorf("payloadError with empty message = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	err := transportError(PathModels, fmt.Errorf("dial: %w", context.Canceled))
	if !IsCanceled(err) {
		t.Error("IsCanceled should see through the api error")
	}
	if got := err.Error(); got != PathModels+": Request failed: dial: context canceled" {
		t.Errorf("Error() = %q", got)
	}
}

func TestServerError_Truncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := serverError(long)
	if len(got) != 203 {
		t.Errorf("serverError() length = %d, want 203", len(got))
	}
}
