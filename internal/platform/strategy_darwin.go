package platform

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// promptStrategy selects how a ceremony offers the device credential.
type promptStrategy int

const (
	// strategyCombined presents a single ceremony that accepts biometrics
	// or the device passcode (LAPolicyDeviceOwnerAuthentication).
	strategyCombined promptStrategy = iota
	// strategyBiometricWithFallback runs the biometrics-only policy with an
	// explicit password stage behind the fallback button. Required on
	// releases where the combined prompt does not honor custom titles.
	strategyBiometricWithFallback
)

// strategyFor maps a macOS product version to a prompt strategy. Catalina
// (10.15) and later get the combined ceremony; older releases take the
// two-stage path. An unparseable version is treated as old.
func strategyFor(version string) promptStrategy {
	major, minor, ok := parseProductVersion(version)
	if !ok {
		return strategyBiometricWithFallback
	}
	if major >= 11 || (major == 10 && minor >= 15) {
		return strategyCombined
	}
	return strategyBiometricWithFallback
}

func parseProductVersion(version string) (major, minor int, ok bool) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) == 0 || parts[0] == "" {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false
		}
	}
	return major, minor, true
}

// productVersion reads the OS version at call time, never at init: the
// strategy is an environment fact, not a compile-time one.
func productVersion() string {
	v, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return ""
	}
	return v
}
