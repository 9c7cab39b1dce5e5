// Package localauth bridges device-level authentication (biometric sensors
// or the device passcode/password) to a host application. It answers two
// questions only: which authentication modalities the device currently
// supports and has enrolled, and whether one run of the operating system's
// native authentication prompt succeeded. All actual verification is
// performed by the OS; this layer normalizes the verdict into a single
// Outcome delivered through a callback.
package localauth

import (
	"context"

	"github.com/revlabs/localauth/internal/platform"
)

// Default prompt strings used when the caller supplies none. Empty values
// never reach the native prompt.
const (
	DefaultTitle    = "Authentication"
	DefaultSubtitle = "Please authenticate to continue"
)

// ErrUnsupported signals that no native authentication shim exists for this
// operating system.
var ErrUnsupported = platform.ErrUnsupported

// Availability is the result of one capability probe. It is rebuilt from a
// live OS query on every call and must never be cached: enrollment state can
// change at any moment (the user may add a fingerprint between calls).
// Available is always the OR of the two modality fields.
type Availability struct {
	Biometrics        bool
	DeviceCredentials bool
	Available         bool
}

// Outcome is the single result of one ceremony. Reason is empty exactly
// when Success is true.
type Outcome struct {
	Success bool
	Reason  string
}

// PromptConfig configures one ceremony. CancelTitle and
// ConfirmationRequired are honored only where the native prompt has the
// matching knob; they pass through untouched so a platform that can honor
// them does.
type PromptConfig struct {
	Title                   string
	Subtitle                string
	CancelTitle             string
	ConfirmationRequired    bool
	DisableDeviceCredential bool
}

func (c PromptConfig) withDefaults() PromptConfig {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Subtitle == "" {
		c.Subtitle = DefaultSubtitle
	}
	return c
}

// Backend is the per-OS shim surface. The zero-config Service uses the
// native shim for the running OS; tests inject fakes.
type Backend interface {
	Capabilities() platform.Capability
	Present(ctx context.Context, req platform.Request, report func(platform.Event))
}

// Config wires a Service. The zero value is ready for production use.
type Config struct {
	// Backend overrides the native OS shim. Nil means the running OS.
	Backend Backend

	// Deliver runs outcome callbacks on the host's execution context (a UI
	// toolkit's main thread, typically). Nil means an internal serial
	// dispatcher, which still guarantees ordered single-threaded delivery.
	Deliver func(func())
}

// Service exposes the two bridge operations: Check and Authenticate.
type Service struct {
	backend Backend
	deliver func(func())
	loop    *dispatcher
}

// New returns a Service bound to the configured backend and delivery
// context.
func New(cfg Config) *Service {
	s := &Service{backend: cfg.Backend, deliver: cfg.Deliver}
	if s.backend == nil {
		s.backend = osBackend{}
	}
	if s.deliver == nil {
		s.loop = newDispatcher()
		s.deliver = s.loop.post
	}
	return s
}

// Close stops the internal dispatcher, if one was created. Outcomes from
// ceremonies still in flight are dropped after Close.
func (s *Service) Close() {
	if s.loop != nil {
		s.loop.stop()
	}
}

// Check probes the OS authentication subsystem. Biometrics is true only
// when hardware is capable AND at least one identity is enrolled; mere
// capability reports false. DeviceCredentials is true only when a
// passcode/password is currently set. Underlying platform errors degrade to
// "not available"; Check itself never fails.
func (s *Service) Check() Availability {
	caps := s.backend.Capabilities()
	return Availability{
		Biometrics:        caps.BiometricsUsable,
		DeviceCredentials: caps.CredentialUsable,
		Available:         caps.BiometricsUsable || caps.CredentialUsable,
	}
}

// Authenticate runs one native ceremony and delivers exactly one Outcome
// through onResult, on the configured delivery context.
//
// When neither modality is available the attempt resolves immediately to a
// failure without showing any prompt. Per-attempt mismatches reported by
// the OS while the prompt is still open do not resolve the outcome; only a
// terminal verdict does. Overlapping calls are the caller's responsibility
// to serialize, per the bridge contract.
func (s *Service) Authenticate(ctx context.Context, cfg PromptConfig, onResult func(Outcome)) {
	if onResult == nil {
		return
	}
	cfg = cfg.withDefaults()

	res := newResolver(func(o Outcome) {
		s.deliver(func() { onResult(o) })
	})

	if !s.Check().Available {
		res.resolve(Outcome{Reason: "Authentication not available"})
		return
	}

	req := platform.Request{
		Title:                   cfg.Title,
		Subtitle:                cfg.Subtitle,
		CancelTitle:             cfg.CancelTitle,
		ConfirmationRequired:    cfg.ConfirmationRequired,
		DisableDeviceCredential: cfg.DisableDeviceCredential,
	}

	go s.backend.Present(ctx, req, func(ev platform.Event) {
		switch ev.Kind {
		case platform.EventAttemptFailed:
			// Prompt still open; the user retries inside the same ceremony.
		case platform.EventSuccess:
			res.resolve(Outcome{Success: true})
		case platform.EventError:
			msg := ev.Message
			if msg == "" {
				msg = "Authentication failed"
			}
			res.resolve(Outcome{Reason: msg})
		}
	})
}

// Run executes one ceremony and blocks until its outcome arrives. A
// convenience for non-UI callers (CLI, gated secret reads).
func (s *Service) Run(ctx context.Context, cfg PromptConfig) Outcome {
	ch := make(chan Outcome, 1)
	s.Authenticate(ctx, cfg, func(o Outcome) { ch <- o })
	return <-ch
}

// osBackend is the production backend: the shim compiled for this GOOS.
type osBackend struct{}

func (osBackend) Capabilities() platform.Capability {
	return platform.Capabilities()
}

func (osBackend) Present(ctx context.Context, req platform.Request, report func(platform.Event)) {
	platform.Present(ctx, req, report)
}
