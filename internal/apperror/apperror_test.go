package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("recipe", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false, want true")
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("NotFound should not match ErrValidation")
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("tag", "t1")
	want := "tag not found with id t1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "email address is required")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
}

func TestUnauthorized_MatchesSentinel(t *testing.T) {
	err := Unauthorized("invalid credentials")
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("errors.Is(err, ErrUnauthorized) = false, want true")
	}
}

func TestForbidden_MatchesSentinel(t *testing.T) {
	err := Forbidden("staff access required")
	if !errors.Is(err, ErrForbidden) {
		t.Error("errors.Is(err, ErrForbidden) = false, want true")
	}
}

// Wrapping an AppError with fmt.Errorf("%w") must preserve the sentinel —
// services wrap repository errors with context before returning them.
func TestWrappedAppError_StillMatches(t *testing.T) {
	inner := NotFound("ingredient", "i9")
	wrapped := fmt.Errorf("deleting ingredient: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *AppError from the chain")
	}
	if appErr.Message != inner.Message {
		t.Errorf("extracted Message = %q, want %q", appErr.Message, inner.Message)
	}
}

func TestConflict_Message(t *testing.T) {
	err := Conflict("user", "test@example.com")
	if !errors.Is(err, ErrConflict) {
		t.Error("errors.Is(err, ErrConflict) = false, want true")
	}
	want := "user already exists: test@example.com"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
