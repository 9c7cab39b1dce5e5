package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/revlabs/localauth"
	"github.com/revlabs/localauth/internal/gate"
)

func runSecret(args []string) error {
	if len(args) == 0 {
		return userError{msg: "missing secret subcommand"}
	}

	switch args[0] {
	case "set":
		return runSecretSet(args[1:])
	case "get":
		return runSecretGet(args[1:])
	case "remove":
		return runSecretRemove(args[1:])
	default:
		return userError{msg: "unknown secret subcommand"}
	}
}

func runSecretSet(args []string) error {
	fs := flag.NewFlagSet("secret set", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var name string
	fs.StringVar(&name, "name", "", "secret name")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if name == "" {
		return userError{msg: "missing required flag: --name"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	value, err := promptPassword("Secret value: ")
	if err != nil {
		return fmt.Errorf("read secret value: %w", err)
	}
	defer zeroBytes(value)

	if err := gate.Store(name, value); err != nil {
		if errors.Is(err, gate.ErrUnsupported) {
			return userError{msg: "gated secrets are only supported on macOS"}
		}
		return fmt.Errorf("store secret: %w", err)
	}
	fmt.Printf("Secret %q stored behind device authentication\n", name)
	return nil
}

// runSecretGet runs a full ceremony before the keychain read; a canceled or
// failed prompt never reveals the value.
func runSecretGet(args []string) error {
	fs := flag.NewFlagSet("secret get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var name string
	fs.StringVar(&name, "name", "", "secret name")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if name == "" {
		return userError{msg: "missing required flag: --name"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	svc := localauth.New(localauth.Config{})
	defer svc.Close()

	value, err := gate.Retrieve(context.Background(), svc, name)
	if err != nil {
		if errors.Is(err, gate.ErrUnsupported) {
			return userError{msg: "gated secrets are only supported on macOS"}
		}
		if errors.Is(err, gate.ErrNotFound) {
			return userError{msg: fmt.Sprintf("no secret stored under %q", name)}
		}
		return fmt.Errorf("retrieve secret: %w", err)
	}
	defer zeroBytes(value)

	fmt.Printf("%s\n", value)
	return nil
}

func runSecretRemove(args []string) error {
	fs := flag.NewFlagSet("secret remove", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var name string
	fs.StringVar(&name, "name", "", "secret name")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if name == "" {
		return userError{msg: "missing required flag: --name"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	if err := gate.Remove(name); err != nil {
		if errors.Is(err, gate.ErrUnsupported) {
			return userError{msg: "gated secrets are only supported on macOS"}
		}
		return fmt.Errorf("remove secret: %w", err)
	}
	fmt.Printf("Secret %q removed\n", name)
	return nil
}
