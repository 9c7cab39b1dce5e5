package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	fprintdService      = "net.reactivated.Fprint"
	fprintdManagerPath  = "/net/reactivated/Fprint/Manager"
	fprintdManagerIface = "net.reactivated.Fprint.Manager"
	fprintdDevIface     = "net.reactivated.Fprint.Device"

	// Finger selector meaning "whichever enrolled finger is presented".
	anyFinger = "any"
)

// Status strings delivered by the VerifyStatus signal.
const (
	verifyStatusMatch   = "verify-match"
	verifyStatusNoMatch = "verify-no-match"
	verifyStatusRetry   = "verify-retry-scan"
	verifyStatusSwipe   = "verify-swipe-too-short"
	verifyStatusCenter  = "verify-finger-not-centered"
	verifyStatusRemove  = "verify-remove-finger"
	verifyStatusGone    = "verify-disconnected"
	verifyStatusUnknown = "verify-unknown-error"
)

// noMatchLimit bounds how many terminal no-match rounds one ceremony allows
// before giving up on the fingerprint reader. fprintd ends the scan on every
// no-match, so the ceremony restarts verification to let the user retry.
const noMatchLimit = 3

var errNoReader = errors.New("no fingerprint reader")

// fprintDevice wraps the default fprintd device object.
type fprintDevice struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	path dbus.ObjectPath
}

func defaultFingerprintDevice(conn *dbus.Conn) (*fprintDevice, error) {
	manager := conn.Object(fprintdService, fprintdManagerPath)

	var path dbus.ObjectPath
	if err := manager.Call(fprintdManagerIface+".GetDefaultDevice", 0).Store(&path); err != nil {
		return nil, fmt.Errorf("%w: %v", errNoReader, err)
	}
	return &fprintDevice{
		conn: conn,
		obj:  conn.Object(fprintdService, path),
		path: path,
	}, nil
}

// enrolledFingers lists the calling user's enrolled fingerprints. An
// empty username means the caller.
func (d *fprintDevice) enrolledFingers() ([]string, error) {
	var fingers []string
	if err := d.obj.Call(fprintdDevIface+".ListEnrolledFingers", 0, "").Store(&fingers); err != nil {
		return nil, fmt.Errorf("list enrolled fingers: %w", err)
	}
	return fingers, nil
}

// verify runs the fingerprint ceremony against the claimed device, emitting
// a non-terminal event for every scan that does not match. Returns nil on a
// match, an error when the ceremony ends without one.
func (d *fprintDevice) verify(ctx context.Context, report func(Event)) error {
	if err := d.obj.Call(fprintdDevIface+".Claim", 0, "").Err; err != nil {
		return fmt.Errorf("claim fingerprint device: %w", err)
	}
	defer d.obj.Call(fprintdDevIface+".Release", 0)

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(d.path),
		dbus.WithMatchInterface(fprintdDevIface),
		dbus.WithMatchMember("VerifyStatus"),
	}
	if err := d.conn.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("subscribe verify status: %w", err)
	}
	defer d.conn.RemoveMatchSignal(match...)

	signals := make(chan *dbus.Signal, 16)
	d.conn.Signal(signals)
	defer d.conn.RemoveSignal(signals)

	if err := d.obj.Call(fprintdDevIface+".VerifyStart", 0, anyFinger).Err; err != nil {
		return fmt.Errorf("start fingerprint verification: %w", err)
	}
	defer d.obj.Call(fprintdDevIface+".VerifyStop", 0)

	noMatches := 0
	for {
		select {
		case <-ctx.Done():
			return errors.New("fingerprint verification canceled")
		case sig, open := <-signals:
			if !open {
				return errors.New("fingerprint signal stream closed")
			}
			status, done, ok := decodeVerifyStatus(sig)
			if !ok {
				continue
			}

			if !done {
				// Mid-scan feedback (retry-scan, swipe-too-short, ...): the
				// reader is still listening, so just surface the attempt.
				report(Event{Kind: EventAttemptFailed, Message: status})
				continue
			}

			switch status {
			case verifyStatusMatch:
				return nil
			case verifyStatusNoMatch:
				noMatches++
				if noMatches >= noMatchLimit {
					return errors.New("Fingerprint not recognized")
				}
				report(Event{Kind: EventAttemptFailed, Message: status})
				// fprintd ends the scan on a no-match; restart so the user
				// can try again within the same ceremony.
				d.obj.Call(fprintdDevIface+".VerifyStop", 0)
				if err := d.obj.Call(fprintdDevIface+".VerifyStart", 0, anyFinger).Err; err != nil {
					return fmt.Errorf("restart fingerprint verification: %w", err)
				}
			case verifyStatusGone:
				return errors.New("Fingerprint reader disconnected")
			default:
				return fmt.Errorf("fingerprint verification error: %s", status)
			}
		}
	}
}

func decodeVerifyStatus(sig *dbus.Signal) (status string, done bool, ok bool) {
	if sig == nil || sig.Name != fprintdDevIface+".VerifyStatus" || len(sig.Body) < 2 {
		return "", false, false
	}
	status, sok := sig.Body[0].(string)
	done, dok := sig.Body[1].(bool)
	if !sok || !dok {
		return "", false, false
	}
	return status, done, true
}
