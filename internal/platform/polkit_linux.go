package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	polkitService    = "org.freedesktop.PolicyKit1"
	polkitPath       = "/org/freedesktop/PolicyKit1/Authority"
	polkitIface      = "org.freedesktop.PolicyKit1.Authority"
	polkitExecAction = "org.freedesktop.policykit.exec"

	// CheckAuthorization flag: let the registered agent prompt the user.
	polkitAllowInteraction = uint32(1)
)

// credentialAuthorityReachable reports whether the polkit authority answers
// on the system bus. Without it there is nothing that can prompt for the
// account password, so the device-credential modality is unavailable.
func credentialAuthorityReachable(conn *dbus.Conn) bool {
	obj := conn.Object(polkitService, polkitPath)
	_, err := obj.GetProperty(polkitIface + ".BackendName")
	return err == nil
}

// checkAuthorization runs one interactive polkit authorization round for
// this process. The registered authentication agent shows the native
// password dialog; we only observe the verdict.
func checkAuthorization(ctx context.Context, conn *dbus.Conn, message string) error {
	subject := struct {
		Kind    string
		Details map[string]dbus.Variant
	}{
		Kind: "unix-process",
		Details: map[string]dbus.Variant{
			"pid": dbus.MakeVariant(uint32(os.Getpid())),
			// The real start time pins the subject to this incarnation of
			// the PID; zero would let a recycled PID inherit the verdict.
			"start-time": dbus.MakeVariant(processStartTime()),
		},
	}
	details := map[string]string{
		"polkit.message": message,
	}

	var result struct {
		IsAuthorized bool
		IsChallenge  bool
		Details      map[string]string
	}

	obj := conn.Object(polkitService, polkitPath)
	call := obj.CallWithContext(ctx, polkitIface+".CheckAuthorization", 0,
		subject, polkitExecAction, details, polkitAllowInteraction, "")
	if call.Err != nil {
		return fmt.Errorf("polkit authorization: %w", call.Err)
	}
	if err := call.Store(&result); err != nil {
		return fmt.Errorf("decode polkit reply: %w", err)
	}
	if !result.IsAuthorized {
		if result.IsChallenge {
			return errors.New("Authentication canceled by user")
		}
		return errors.New("Device credential not accepted")
	}
	return nil
}

// processStartTime reads this process's start time (clock ticks since boot)
// from /proc/self/stat. Returns 0 when the stat file cannot be read, which
// polkit treats as "unspecified".
func processStartTime() uint64 {
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0
	}
	return parseStartTime(data)
}

// parseStartTime extracts field 22 (starttime) from a stat line. The comm
// field can itself contain spaces and parentheses, so parsing resumes after
// the last closing paren.
func parseStartTime(stat []byte) uint64 {
	i := bytes.LastIndexByte(stat, ')')
	if i < 0 {
		return 0
	}
	fields := strings.Fields(string(stat[i+1:]))
	// fields[0] is state (field 3 of the stat line), so starttime sits at
	// offset 19.
	if len(fields) < 20 {
		return 0
	}
	v, err := strconv.ParseUint(fields[19], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
