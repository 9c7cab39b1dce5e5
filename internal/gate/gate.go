// Package gate stores small secrets behind a successful device
// authentication ceremony. The secret lives in the OS keychain as a
// device-local, non-synced item; Retrieve runs one ceremony first and only
// reads the item when the OS reports success.
package gate

import (
	"errors"
	"strings"
)

// ErrUnsupported signals that gated secrets are not available on this
// platform.
var ErrUnsupported = errors.New("gated secrets require the macOS keychain")

// ErrNotFound signals that no secret is stored under the given name.
var ErrNotFound = errors.New("gated secret not found")

// accountFor validates and canonicalizes a secret name for use as the
// keychain account string.
func accountFor(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("secret name is required")
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return "", errors.New("secret name contains control characters")
	}
	return name, nil
}
