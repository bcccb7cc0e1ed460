package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "internal error",
			err:  &Error{Code: CodeInternalError, Message: "something went wrong"},
			want: "jsonrpc: something went wrong (code: -32603)",
		},
		{
			name: "parse error",
			err:  &Error{Code: CodeParseError, Message: "invalid JSON"},
			want: "jsonrpc: invalid JSON (code: -32700)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err1 := NewInternalError("test")
	err2 := NewInternalError("different message")
	err3 := NewInvalidParams("test")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match with errors.Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match with errors.Is")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code int
	}{
		{"parse error", NewParseError("bad json"), CodeParseError},
		{"invalid request", NewInvalidRequest("missing method"), CodeInvalidRequest},
		{"method not found", NewMethodNotFound("unknown/method"), CodeMethodNotFound},
		{"invalid params", NewInvalidParams("missing field"), CodeInvalidParams},
		{"internal error", NewInternalError("boom"), CodeInternalError},
		{"rate limited", NewRateLimited("slow down"), CodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
		})
	}
}

func TestError_WithData(t *testing.T) {
	orig := NewInvalidParams("validation failed")
	err := orig.WithData(map[string]string{"field": "message"})

	if orig.Data != nil {
		t.Error("WithData must not mutate the receiver")
	}
	data, ok := err.Data.(map[string]string)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]string", err.Data)
	}
	if data["field"] != "message" {
		t.Errorf("Data[field] = %q, want %q", data["field"], "message")
	}
}

func TestAsError(t *testing.T) {
	t.Run("keeps wrapped protocol error", func(t *testing.T) {
		wrapped := fmt.Errorf("dispatch: %w", NewInvalidParams("bad"))
		got := AsError(wrapped)
		if got.Code != CodeInvalidParams {
			t.Errorf("Code = %d, want %d", got.Code, CodeInvalidParams)
		}
	})

	t.Run("converts plain error to internal error", func(t *testing.T) {
		got := AsError(errors.New("disk full"))
		if got.Code != CodeInternalError {
			t.Errorf("Code = %d, want %d", got.Code, CodeInternalError)
		}
		if got.Message != "disk full" {
			t.Errorf("Message = %q, want %q", got.Message, "disk full")
		}
	})
}
