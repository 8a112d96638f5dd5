package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed")

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Booking not found",
			},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeStoreUnavailable,
				Message: "store unavailable",
				Err:     errors.New("connection reset"),
			},
			expected: "STORE_UNAVAILABLE: store unavailable (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped")

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should see the original error")
	}
}

func TestSlotConflict(t *testing.T) {
	err := SlotConflict()

	if err.Code != CodeSlotConflict {
		t.Errorf("expected code %s, got %s", CodeSlotConflict, err.Code)
	}
	if err.Message != "Selected time slot is no longer available" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", SlotConflict())

	if !HasCode(wrapped, CodeSlotConflict) {
		t.Error("HasCode should find the wrapped AppError")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("plain errors have no code")
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("plain error should become %s, got %s", CodeInternal, got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("converted error should wrap the original")
	}

	nf := NotFound("Booking")
	if AsAppError(fmt.Errorf("lookup: %w", nf)) != nf {
		t.Error("AsAppError should return the wrapped AppError unchanged")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("Booking validation failed", nil).WithDetails(map[string]any{
		"field": "customer.email",
	})

	if err.Details["field"] != "customer.email" {
		t.Errorf("expected field detail, got %v", err.Details["field"])
	}
}
