//go:build !darwin

package gate

import (
	"context"

	"github.com/revlabs/localauth"
)

// Store is unavailable off macOS.
func Store(name string, secret []byte) error {
	if _, err := accountFor(name); err != nil {
		return err
	}
	return ErrUnsupported
}

// Retrieve is unavailable off macOS.
func Retrieve(ctx context.Context, svc *localauth.Service, name string) ([]byte, error) {
	if _, err := accountFor(name); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

// Remove is unavailable off macOS.
func Remove(name string) error {
	if _, err := accountFor(name); err != nil {
		return err
	}
	return ErrUnsupported
}
