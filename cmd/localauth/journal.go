package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/revlabs/localauth/internal/fallback"
	"github.com/revlabs/localauth/internal/journal"
)

func runJournal(args []string) error {
	if len(args) == 0 {
		return userError{msg: "missing journal subcommand"}
	}

	switch args[0] {
	case "list":
		return runJournalList(args[1:])
	default:
		return userError{msg: "unknown journal subcommand"}
	}
}

func runJournalList(args []string) error {
	fs := flag.NewFlagSet("journal list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var dbPath string
	var limit int
	fs.StringVar(&dbPath, "db", "", "journal database path (defaults to journal.db in the state dir)")
	fs.IntVar(&limit, "limit", 20, "maximum number of entries to list")

	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if fs.NArg() != 0 {
		return userError{msg: "unexpected positional arguments"}
	}

	if dbPath == "" {
		dir, err := fallback.StateDir()
		if err != nil {
			return fmt.Errorf("resolve state directory: %w", err)
		}
		dbPath = filepath.Join(dir, "journal.db")
	}

	j, err := journal.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	entries, err := j.Recent(limit)
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No ceremonies recorded")
		return nil
	}

	for _, e := range entries {
		verdict := "FAIL"
		if e.Success {
			verdict = "OK"
		}
		line := fmt.Sprintf("%s  %-4s  %s", e.When.Local().Format(time.RFC3339), verdict, e.Mechanism)
		if e.Reason != "" {
			line += "  " + e.Reason
		}
		fmt.Println(line)
	}
	return nil
}
