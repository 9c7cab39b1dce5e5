//go:build !darwin

package gate

import (
	"context"
	"errors"
	"testing"
)

func TestGateUnsupportedOffDarwin(t *testing.T) {
	if err := Store("db-password", []byte("s3cret")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Store error = %v, want ErrUnsupported", err)
	}
	if _, err := Retrieve(context.Background(), nil, "db-password"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Retrieve error = %v, want ErrUnsupported", err)
	}
	if err := Remove("db-password"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Remove error = %v, want ErrUnsupported", err)
	}
}

func TestGateStubStillValidatesNames(t *testing.T) {
	if err := Store("", []byte("x")); err == nil || errors.Is(err, ErrUnsupported) {
		t.Fatalf("Store with empty name = %v, want a validation error before the platform check", err)
	}
	if _, err := Retrieve(context.Background(), nil, "  "); err == nil || errors.Is(err, ErrUnsupported) {
		t.Fatalf("Retrieve with blank name = %v, want a validation error before the platform check", err)
	}
}
