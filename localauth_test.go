package localauth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/revlabs/localauth"
	"github.com/revlabs/localauth/internal/platform"
)

// fakeBackend scripts a ceremony: it reports fixed capabilities and replays
// a fixed event sequence through the report callback.
type fakeBackend struct {
	mu       sync.Mutex
	caps     platform.Capability
	events   []platform.Event
	presents int
	lastReq  platform.Request
}

func (f *fakeBackend) Capabilities() platform.Capability {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caps
}

func (f *fakeBackend) Present(ctx context.Context, req platform.Request, report func(platform.Event)) {
	f.mu.Lock()
	f.presents++
	f.lastReq = req
	events := f.events
	f.mu.Unlock()

	for _, ev := range events {
		report(ev)
	}
}

func (f *fakeBackend) presentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

func (f *fakeBackend) request() platform.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// collect runs one ceremony and gathers every delivered outcome, waiting a
// settle period after the first so duplicate deliveries would be caught.
func collect(t *testing.T, svc *localauth.Service, cfg localauth.PromptConfig) []localauth.Outcome {
	t.Helper()

	ch := make(chan localauth.Outcome, 4)
	svc.Authenticate(context.Background(), cfg, func(o localauth.Outcome) {
		ch <- o
	})

	var got []localauth.Outcome
	select {
	case o := <-ch:
		got = append(got, o)
	case <-time.After(2 * time.Second):
		return got
	}
	for {
		select {
		case o := <-ch:
			got = append(got, o)
		case <-time.After(100 * time.Millisecond):
			return got
		}
	}
}

func TestCheckAllCombinations(t *testing.T) {
	cases := []struct {
		name       string
		biometrics bool
		credential bool
	}{
		{"neither", false, false},
		{"biometrics only", true, false},
		{"credential only", false, true},
		{"both", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{caps: platform.Capability{
				BiometricsUsable: tc.biometrics,
				CredentialUsable: tc.credential,
			}}
			svc := localauth.New(localauth.Config{Backend: backend})
			defer svc.Close()

			got := svc.Check()
			if got.Biometrics != tc.biometrics {
				t.Fatalf("Biometrics = %v, want %v", got.Biometrics, tc.biometrics)
			}
			if got.DeviceCredentials != tc.credential {
				t.Fatalf("DeviceCredentials = %v, want %v", got.DeviceCredentials, tc.credential)
			}
			if got.Available != (tc.biometrics || tc.credential) {
				t.Fatalf("Available = %v, want OR of modalities", got.Available)
			}
		})
	}
}

func TestAuthenticateUnavailableFailsWithoutPrompt(t *testing.T) {
	backend := &fakeBackend{}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	got := collect(t, svc, localauth.PromptConfig{})
	if len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}
	if got[0].Success {
		t.Fatalf("expected failure when nothing is available")
	}
	if got[0].Reason != "Authentication not available" {
		t.Fatalf("Reason = %q, want %q", got[0].Reason, "Authentication not available")
	}
	if backend.presentCount() != 0 {
		t.Fatalf("prompt was shown %d times, want 0", backend.presentCount())
	}
}

func TestAuthenticateSuccessResolvesOnce(t *testing.T) {
	backend := &fakeBackend{
		caps: platform.Capability{BiometricsUsable: true},
		events: []platform.Event{
			{Kind: platform.EventAttemptFailed},
			{Kind: platform.EventAttemptFailed},
			{Kind: platform.EventSuccess},
		},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	got := collect(t, svc, localauth.PromptConfig{})
	if len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}
	if !got[0].Success || got[0].Reason != "" {
		t.Fatalf("outcome = %+v, want success with empty reason", got[0])
	}
}

func TestAuthenticateErrorResolvesOnceWithMessage(t *testing.T) {
	backend := &fakeBackend{
		caps: platform.Capability{BiometricsUsable: true},
		events: []platform.Event{
			{Kind: platform.EventError, Message: "Authentication canceled by user"},
			// Misbehaving extra terminals must be swallowed.
			{Kind: platform.EventError, Message: "late duplicate"},
			{Kind: platform.EventSuccess},
		},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	got := collect(t, svc, localauth.PromptConfig{})
	if len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}
	if got[0].Success {
		t.Fatalf("expected failure outcome")
	}
	if got[0].Reason != "Authentication canceled by user" {
		t.Fatalf("Reason = %q, want the first terminal message", got[0].Reason)
	}
}

func TestAttemptFailureDoesNotResolve(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{BiometricsUsable: true},
		events: []platform.Event{{Kind: platform.EventAttemptFailed, Message: "verify-no-match"}},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	called := make(chan localauth.Outcome, 1)
	svc.Authenticate(context.Background(), localauth.PromptConfig{}, func(o localauth.Outcome) {
		called <- o
	})

	select {
	case o := <-called:
		t.Fatalf("non-terminal event resolved the outcome: %+v", o)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEmptyTerminalMessageGetsFallbackReason(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{CredentialUsable: true},
		events: []platform.Event{{Kind: platform.EventError}},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	got := collect(t, svc, localauth.PromptConfig{})
	if len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}
	if got[0].Reason == "" {
		t.Fatalf("terminal error must carry a non-empty reason")
	}
}

func TestDefaultPromptStringsReachTheBackend(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{BiometricsUsable: true},
		events: []platform.Event{{Kind: platform.EventSuccess}},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	if got := collect(t, svc, localauth.PromptConfig{}); len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}

	req := backend.request()
	if req.Title != localauth.DefaultTitle {
		t.Fatalf("Title = %q, want %q", req.Title, localauth.DefaultTitle)
	}
	if req.Subtitle != localauth.DefaultSubtitle {
		t.Fatalf("Subtitle = %q, want %q", req.Subtitle, localauth.DefaultSubtitle)
	}
}

func TestCallerStringsPassThroughUnchanged(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{BiometricsUsable: true},
		events: []platform.Event{{Kind: platform.EventSuccess}},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	cfg := localauth.PromptConfig{
		Title:                   "Unlock notes",
		Subtitle:                "Confirm it is you",
		CancelTitle:             "Not now",
		ConfirmationRequired:    true,
		DisableDeviceCredential: true,
	}
	if got := collect(t, svc, cfg); len(got) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(got))
	}

	req := backend.request()
	if req.Title != cfg.Title || req.Subtitle != cfg.Subtitle || req.CancelTitle != cfg.CancelTitle {
		t.Fatalf("prompt strings were altered: %+v", req)
	}
	if !req.ConfirmationRequired || !req.DisableDeviceCredential {
		t.Fatalf("boolean options were dropped: %+v", req)
	}
}

func TestDeliverRunsOnConfiguredContext(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{BiometricsUsable: true},
		events: []platform.Event{{Kind: platform.EventSuccess}},
	}

	var mu sync.Mutex
	var delivered []localauth.Outcome
	done := make(chan struct{})

	svc := localauth.New(localauth.Config{
		Backend: backend,
		Deliver: func(fn func()) { fn() },
	})

	svc.Authenticate(context.Background(), localauth.PromptConfig{}, func(o localauth.Outcome) {
		mu.Lock()
		delivered = append(delivered, o)
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("outcome never delivered through custom Deliver")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 || !delivered[0].Success {
		t.Fatalf("delivered = %+v, want one success", delivered)
	}
}

func TestRunBlocksForOutcome(t *testing.T) {
	backend := &fakeBackend{
		caps:   platform.Capability{BiometricsUsable: true},
		events: []platform.Event{{Kind: platform.EventSuccess}},
	}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	o := svc.Run(context.Background(), localauth.PromptConfig{})
	if !o.Success {
		t.Fatalf("Run outcome = %+v, want success", o)
	}
}

func TestNilCallbackIsIgnored(t *testing.T) {
	backend := &fakeBackend{caps: platform.Capability{BiometricsUsable: true}}
	svc := localauth.New(localauth.Config{Backend: backend})
	defer svc.Close()

	svc.Authenticate(context.Background(), localauth.PromptConfig{}, nil)
	if backend.presentCount() != 0 {
		t.Fatalf("prompt shown for a nil callback")
	}
}
