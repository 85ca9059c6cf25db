package models

import (
	"strings"
	"testing"
)

func TestNewLiveryName(t *testing.T) {
	t.Run("valid minimum length", func(t *testing.T) {
		n, err := NewLiveryName("abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "abc" {
			t.Fatalf("expected %q, got %q", "abc", n.String())
		}
	})

	t.Run("valid 120 characters", func(t *testing.T) {
		s := strings.Repeat("x", 120)
		n, err := NewLiveryName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 120, got %d", len(n.String()))
		}
	})

	t.Run("too short returns error", func(t *testing.T) {
		if _, err := NewLiveryName("ab"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("121 characters returns error", func(t *testing.T) {
		if _, err := NewLiveryName(strings.Repeat("x", 121)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
