package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/revlabs/localauth"
	"github.com/revlabs/localauth/internal/fallback"
	"github.com/revlabs/localauth/internal/journal"
)

// runAuth runs one authentication ceremony and reports the outcome.
//
// When the device has no usable modality and --allow-fallback is given, an
// enrolled fallback passphrase is verified at the terminal instead of
// showing any native prompt. With --journal the outcome is appended to the
// ceremony journal either way.
func runAuth(args []string) error {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var title string
	var subtitle string
	var cancel string
	var confirm bool
	var noCredential bool
	var allowFallback bool
	var journalPath string

	fs.StringVar(&title, "title", "", "prompt title")
	fs.StringVar(&subtitle, "subtitle", "", "prompt subtitle/reason")
	fs.StringVar(&cancel, "cancel", "", "cancel button text (honored where the platform allows)")
	fs.BoolVar(&confirm, "confirm", false, "require explicit confirmation (honored where the platform allows)")
	fs.BoolVar(&noCredential, "no-credential", false, "refuse the device passcode/password, biometrics only")
	fs.BoolVar(&allowFallback, "allow-fallback", false, "allow the enrolled fallback passphrase when no native modality is usable")
	fs.StringVar(&journalPath, "journal", "", "append the outcome to this journal database")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	svc := localauth.New(localauth.Config{})
	defer svc.Close()

	outcome, mechanism, err := runCeremony(svc, localauth.PromptConfig{
		Title:                   title,
		Subtitle:                subtitle,
		CancelTitle:             cancel,
		ConfirmationRequired:    confirm,
		DisableDeviceCredential: noCredential,
	}, allowFallback)
	if err != nil {
		return err
	}

	if journalPath != "" {
		if jerr := recordOutcome(journalPath, outcome, mechanism); jerr != nil {
			return jerr
		}
	}

	if !outcome.Success {
		return userError{msg: fmt.Sprintf("authentication failed: %s", outcome.Reason)}
	}
	fmt.Println("Authentication succeeded")
	return nil
}

func runCeremony(svc *localauth.Service, cfg localauth.PromptConfig, allowFallback bool) (localauth.Outcome, string, error) {
	if svc.Check().Available || !allowFallback {
		return svc.Run(context.Background(), cfg), "device", nil
	}

	dir, err := fallback.StateDir()
	if err != nil {
		return localauth.Outcome{}, "", err
	}
	if !fallback.Enrolled(dir) {
		return localauth.Outcome{}, "", userError{msg: "no native authentication available and no fallback passphrase enrolled; run 'localauth fallback set'"}
	}

	pw, err := promptPassword("Fallback passphrase: ")
	if err != nil {
		return localauth.Outcome{}, "", fmt.Errorf("read fallback passphrase: %w", err)
	}
	defer zeroBytes(pw)

	ok, err := fallback.Verify(dir, string(pw))
	if err != nil && !errors.Is(err, fallback.ErrNotEnrolled) {
		return localauth.Outcome{}, "", fmt.Errorf("verify fallback passphrase: %w", err)
	}
	if !ok {
		return localauth.Outcome{Reason: "Fallback passphrase not accepted"}, "fallback", nil
	}
	return localauth.Outcome{Success: true}, "fallback", nil
}

func recordOutcome(path string, outcome localauth.Outcome, mechanism string) error {
	j, err := journal.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if err := j.Record(journal.Entry{
		Success:   outcome.Success,
		Reason:    outcome.Reason,
		Mechanism: mechanism,
	}); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}
