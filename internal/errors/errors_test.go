package errors

import (
	"fmt"
	"testing"
)

func TestNookError_Error(t *testing.T) {
	err := &NookError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "workspace not found",
	}

	expected := "NOT_FOUND: workspace not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("name is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "name is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01ABC")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01ABC" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01ABC")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/missing.json")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Details["path"] != "/tmp/missing.json" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewAmbiguousName(t *testing.T) {
	err := NewAmbiguousName("research", []string{"a", "b"})

	if err.Code != ErrAmbiguousName {
		t.Errorf("Code = %q, want %q", err.Code, ErrAmbiguousName)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	ids, ok := err.Details["ids"].([]string)
	if !ok || len(ids) != 2 {
		t.Errorf("Details[ids] = %v, want two ids", err.Details["ids"])
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "with error", err: fmt.Errorf("disk full"), wantMsg: "disk full"},
		{name: "nil error", err: nil, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInternal(tt.err)
			if err.Code != ErrInternal {
				t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
			}
			if err.Status != 500 {
				t.Errorf("Status = %d, want 500", err.Status)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrInvalidRequest) {
		t.Error("Is(err, ErrInvalidRequest) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain error) = true, want false")
	}

	wrapped := fmt.Errorf("loading: %w", err)
	if !Is(wrapped, ErrNotFound) {
		t.Error("Is(wrapped, ErrNotFound) = false, want true")
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewInvalidRequest("bad"))

	nErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As() ok = false, want true")
	}
	if nErr.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", nErr.Code, ErrInvalidRequest)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As(plain) ok = true, want false")
	}
}
