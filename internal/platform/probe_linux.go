package platform

import "github.com/godbus/dbus/v5"

// Capabilities probes fprintd and polkit on the system bus. Any failure on
// either path (no bus, no reader, no authority) degrades to "unavailable"
// for that modality; the probe itself never errors.
func Capabilities() Capability {
	conn, err := dbus.SystemBus()
	if err != nil {
		return Capability{}
	}
	return Capability{
		BiometricsUsable: fingerprintUsable(conn),
		CredentialUsable: credentialAuthorityReachable(conn),
	}
}

// fingerprintUsable requires a present reader AND at least one enrolled
// finger for the calling user. A reader with nothing enrolled is not usable.
func fingerprintUsable(conn *dbus.Conn) bool {
	dev, err := defaultFingerprintDevice(conn)
	if err != nil {
		return false
	}
	fingers, err := dev.enrolledFingers()
	if err != nil {
		return false
	}
	return len(fingers) > 0
}
