package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/revlabs/localauth"
)

const cliVersion = "0.1.0"

type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Println(cliVersion)
	case "check":
		if err := runCheck(os.Args[2:]); err != nil {
			handleError(err)
		}
	case "auth":
		if err := runAuth(os.Args[2:]); err != nil {
			handleError(err)
		}
	case "fallback":
		if err := runFallback(os.Args[2:]); err != nil {
			handleError(err)
		}
	case "journal":
		if err := runJournal(os.Args[2:]); err != nil {
			handleError(err)
		}
	case "secret":
		if err := runSecret(os.Args[2:]); err != nil {
			handleError(err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleError(err error) {
	if err == nil {
		return
	}

	var uerr userError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, uerr.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
	os.Exit(2)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	svc := localauth.New(localauth.Config{})
	defer svc.Close()

	avail := svc.Check()
	fmt.Printf("biometrics:         %v\n", avail.Biometrics)
	fmt.Printf("device credentials: %v\n", avail.DeviceCredentials)
	fmt.Printf("available:          %v\n", avail.Available)
	return nil
}

func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: localauth <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version")
	fmt.Fprintln(os.Stderr, "  check")
	fmt.Fprintln(os.Stderr, "  auth [--title t] [--subtitle s] [--cancel c] [--confirm] [--no-credential] [--allow-fallback] [--journal path]")
	fmt.Fprintln(os.Stderr, "  fallback set|status|remove")
	fmt.Fprintln(os.Stderr, "  journal list [--db path] [--limit n]")
	fmt.Fprintln(os.Stderr, "  secret set|get|remove --name <name>")
}
