package domain

import (
	"errors"
	"testing"
)

func TestParseCastMemberType(t *testing.T) {
	t.Parallel()

	got, err := ParseCastMemberType(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CastMemberDirector {
		t.Errorf("got %v, want director", got)
	}

	got, err = ParseCastMemberType(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CastMemberActor {
		t.Errorf("got %v, want actor", got)
	}

	if _, err := ParseCastMemberType(3); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid enum should be a validation error, got %v", err)
	}
}

func TestParseRating(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"L", "10", "12", "14", "16", "18"} {
		if _, err := ParseRating(v); err != nil {
			t.Errorf("ParseRating(%q) unexpected error: %v", v, err)
		}
	}
	if _, err := ParseRating("PG-13"); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid rating should be a validation error, got %v", err)
	}
}
