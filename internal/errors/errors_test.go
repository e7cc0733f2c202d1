package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(StoreUnavailable, "open session", cause)

	if err.Code != StoreUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, StoreUnavailable)
	}
	if err.Message != "open session" {
		t.Errorf("Message = %q, want %q", err.Message, "open session")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      InvalidID,
			message:   "id segment is not an integer",
			cause:     errors.New(`strconv.ParseInt: parsing "abc": invalid syntax`),
			wantParts: []string{"INVALID_ID", "id segment is not an integer", "invalid syntax"},
		},
		{
			name:      "without cause",
			code:      RouteNotMatched,
			message:   "no route for GET /nope",
			wantParts: []string{"ROUTE_NOT_MATCHED", "no route for GET /nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", New(InvalidBody, "bad json", nil))

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"direct", New(NotFound, "user 9", nil), NotFound},
		{"wrapped", wrapped, InvalidBody},
		{"foreign", errors.New("boom"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFamilies(t *testing.T) {
	for _, code := range []ErrorCode{InvalidID, InvalidBody} {
		err := New(code, "x", nil)
		if !IsParse(err) || IsStore(err) {
			t.Errorf("%s should be a parse error only", code)
		}
	}
	for _, code := range []ErrorCode{StoreUnavailable, StoreFailure} {
		err := New(code, "x", nil)
		if !IsStore(err) || IsParse(err) {
			t.Errorf("%s should be a store error only", code)
		}
	}
	if Is(nil, NotFound) {
		t.Error("Is(nil, ...) should be false")
	}
	if !Is(New(NotFound, "x", nil), NotFound) {
		t.Error("Is should match the code")
	}
}
