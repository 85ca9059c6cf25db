package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrLiveryNotFound, "livery not found"},
		{ErrLiveryAlreadyExists, "livery already exists"},
		{ErrInvalidLivery, "invalid livery"},
		{ErrInvalidFilter, "invalid filter"},
		{ErrStaleCursor, "stale cursor"},
	}
	for _, tt := range tests {
		if tt.err == nil {
			t.Fatalf("sentinel for %q must not be nil", tt.want)
		}
		if tt.err.Error() != tt.want {
			t.Fatalf("unexpected message: %q", tt.err.Error())
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("batch scan: %w", ErrStaleCursor)
	if !errors.Is(wrapped, ErrStaleCursor) {
		t.Fatal("errors.Is must match wrapped ErrStaleCursor")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidLivery, errors.New("name too short"))
	if !errors.Is(wrapped2, ErrInvalidLivery) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidLivery")
	}
}
