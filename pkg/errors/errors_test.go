package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedInput, "record %s has no breakends", "sv1")

	if err.Code != ErrCodeMalformedInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedInput)
	}

	if err.Message != "record sv1 has no breakends" {
		t.Errorf("Message = %v, want %v", err.Message, "record sv1 has no breakends")
	}

	expected := "MALFORMED_INPUT: record sv1 has no breakends"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "load dataset")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "NETWORK_ERROR: load dataset: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      Malformed("test"),
			code:     ErrCodeMalformedInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      Malformed("test"),
			code:     ErrCodeUnsupported,
			expected: false,
		},
		{
			name:     "wrapped with fmt",
			err:      fmt.Errorf("refresh: %w", Unsupported("multi-breakend")),
			code:     ErrCodeUnsupported,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Unsupported("x")); got != ErrCodeUnsupported {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeUnsupported)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{Malformed("x"), true},
		{Unsupported("x"), true},
		{fmt.Errorf("wrapped: %w", Malformed("x")), true},
		{New(ErrCodeNetwork, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Malformed("bad record")); got != "bad record" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad record")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
