//go:build !darwin && !linux

package platform

import "context"

// Capabilities reports nothing usable on platforms without a shim.
func Capabilities() Capability {
	return Capability{}
}

// Present fails immediately on platforms without a shim.
func Present(ctx context.Context, req Request, report func(Event)) {
	report(Event{Kind: EventError, Message: ErrUnsupported.Error()})
}
