package platform

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// Present runs one ceremony on Linux. There is no single native prompt that
// offers both modalities at once, so the strategy stages them: fingerprint
// verification first where usable, then the polkit password dialog as the
// credential stage. Scans that do not match surface as non-terminal attempt
// events; only the end of the staged plan produces a terminal event.
func Present(ctx context.Context, req Request, report func(Event)) {
	if err := ctx.Err(); err != nil {
		report(Event{Kind: EventError, Message: "Authentication canceled before the prompt was shown"})
		return
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		report(Event{Kind: EventError, Message: "Authentication not available"})
		return
	}

	caps := Capability{
		BiometricsUsable: fingerprintUsable(conn),
		CredentialUsable: credentialAuthorityReachable(conn),
	}

	switch strategyFor(caps, req.DisableDeviceCredential) {
	case stageBiometricThenCredential:
		dev, err := defaultFingerprintDevice(conn)
		if err == nil {
			if verr := dev.verify(ctx, report); verr == nil {
				report(Event{Kind: EventSuccess})
				return
			}
		}
		// Biometric stage exhausted or unavailable mid-ceremony; fall
		// through to the credential stage rather than failing outright.
		presentCredential(ctx, conn, req, report)
	case stageBiometricOnly:
		dev, err := defaultFingerprintDevice(conn)
		if err != nil {
			report(Event{Kind: EventError, Message: "Authentication not available"})
			return
		}
		if verr := dev.verify(ctx, report); verr != nil {
			report(Event{Kind: EventError, Message: verr.Error()})
			return
		}
		report(Event{Kind: EventSuccess})
	case stageCredentialOnly:
		presentCredential(ctx, conn, req, report)
	default:
		report(Event{Kind: EventError, Message: "Authentication not available"})
	}
}

func presentCredential(ctx context.Context, conn *dbus.Conn, req Request, report func(Event)) {
	if err := checkAuthorization(ctx, conn, req.Subtitle); err != nil {
		report(Event{Kind: EventError, Message: err.Error()})
		return
	}
	report(Event{Kind: EventSuccess})
}
