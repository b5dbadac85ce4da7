package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "required")

	if got := err.Error(); got != "validation: name: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "categories_id", Message: "missing id a"},
		{Field: "categories_id", Message: "missing id b"},
	})

	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewNotFoundError("Category", "abc")

	if got := err.Error(); got != "Category abc not found" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("errors.Is(err, ErrNotFound) = false")
	}
}

func TestIsRetriable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"wrapped retriable", Retriable(errors.New("conn reset")), true},
		{"retriable through fmt", fmt.Errorf("handle: %w", Retriable(errors.New("x"))), true},
		{"validation never retriable", Retriable(NewValidationError("id", "bad")), false},
		{"not found never retriable", Retriable(NewNotFoundError("Genre", "g1")), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetriable(tt.err); got != tt.want {
				t.Errorf("IsRetriable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetriable_NilPassthrough(t *testing.T) {
	t.Parallel()

	if Retriable(nil) != nil {
		t.Fatal("Retriable(nil) should be nil")
	}
}
