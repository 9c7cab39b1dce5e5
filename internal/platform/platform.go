// Package platform holds the per-OS authentication shims. Each supported
// GOOS provides two entry points with identical contracts:
//
//	Capabilities() Capability
//	Present(ctx, Request, report func(Event))
//
// Capabilities is a live probe; it never caches, because enrollment state
// can change between calls. Present runs one native authentication ceremony
// and reports zero or more non-terminal attempt events followed by exactly
// one terminal event (success or error).
package platform

import "errors"

// ErrUnsupported signals that no native authentication shim exists for this
// operating system.
var ErrUnsupported = errors.New("device authentication not supported on this platform")

// Capability reports what the OS authentication subsystem can do right now.
// BiometricsUsable requires both hardware capability and enrollment;
// CredentialUsable requires that a passcode/password is currently set.
type Capability struct {
	BiometricsUsable bool
	CredentialUsable bool
}

// Request configures one ceremony. Title and Subtitle are always populated
// by the caller; CancelTitle and ConfirmationRequired are honored only where
// the native prompt exposes the matching knob.
type Request struct {
	Title                   string
	Subtitle                string
	CancelTitle             string
	ConfirmationRequired    bool
	DisableDeviceCredential bool
}

// EventKind classifies a ceremony event.
type EventKind int

const (
	// EventAttemptFailed is non-terminal: the presented factor was not
	// recognized but the prompt is still open and the user may retry.
	EventAttemptFailed EventKind = iota
	// EventSuccess is terminal.
	EventSuccess
	// EventError is terminal; Message carries the OS-supplied reason.
	EventError
)

// Event is one observation from a running ceremony.
type Event struct {
	Kind    EventKind
	Message string
}
