package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"

	"github.com/revlabs/localauth/internal/fallback"
)

func runFallback(args []string) error {
	if len(args) == 0 {
		return userError{msg: "missing fallback subcommand"}
	}

	switch args[0] {
	case "set":
		return runFallbackSet(args[1:])
	case "status":
		return runFallbackStatus(args[1:])
	case "remove":
		return runFallbackRemove(args[1:])
	default:
		return userError{msg: "unknown fallback subcommand"}
	}
}

func runFallbackSet(args []string) error {
	fs := flag.NewFlagSet("fallback set", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var dir string
	fs.StringVar(&dir, "dir", "", "state directory (defaults to the user config dir)")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	dir, err := resolveStateDir(dir)
	if err != nil {
		return err
	}

	pw, err := promptPassword("Enter fallback passphrase: ")
	if err != nil {
		return fmt.Errorf("read fallback passphrase: %w", err)
	}
	defer zeroBytes(pw)

	confirm, err := promptPassword("Confirm fallback passphrase: ")
	if err != nil {
		return fmt.Errorf("read confirmation passphrase: %w", err)
	}
	defer zeroBytes(confirm)

	if !bytes.Equal(pw, confirm) {
		return userError{msg: "passphrases do not match"}
	}

	if err := fallback.Set(dir, string(pw)); err != nil {
		return userError{msg: err.Error()}
	}

	fmt.Printf("Fallback passphrase enrolled under %s\n", dir)
	return nil
}

func runFallbackStatus(args []string) error {
	fs := flag.NewFlagSet("fallback status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var dir string
	fs.StringVar(&dir, "dir", "", "state directory (defaults to the user config dir)")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	dir, err := resolveStateDir(dir)
	if err != nil {
		return err
	}

	if fallback.Enrolled(dir) {
		fmt.Println("Fallback passphrase: enrolled")
	} else {
		fmt.Println("Fallback passphrase: not enrolled")
	}
	return nil
}

func runFallbackRemove(args []string) error {
	fs := flag.NewFlagSet("fallback remove", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var dir string
	fs.StringVar(&dir, "dir", "", "state directory (defaults to the user config dir)")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	dir, err := resolveStateDir(dir)
	if err != nil {
		return err
	}

	if err := fallback.Remove(dir); err != nil {
		return fmt.Errorf("remove fallback passphrase: %w", err)
	}
	fmt.Println("Fallback passphrase removed")
	return nil
}

func resolveStateDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	dir, err := fallback.StateDir()
	if err != nil {
		return "", fmt.Errorf("resolve state directory: %w", err)
	}
	return dir, nil
}
