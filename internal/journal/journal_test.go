package journal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/revlabs/localauth/internal/journal"
)

func TestOpenCreatesDatabaseFile(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "state", "journal.db")

	j, err := journal.Open(dbPath)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})

	info, err := os.Stat(dbPath)
	if err != nil {
		t.Fatalf("expected journal file to exist at %q: %v", dbPath, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("journal permissions = %o, want 600", perm)
	}
}

func TestRecordAndRecentNewestFirst(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "journal.db")

	j, err := journal.Open(dbPath)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})

	records := []journal.Entry{
		{Success: true, Mechanism: "biometrics"},
		{Success: false, Reason: "Authentication canceled by user", Mechanism: "biometrics"},
		{Success: true, Mechanism: "credential"},
	}
	for _, e := range records {
		if err := j.Record(e); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	got, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d entries, want 3", len(got))
	}
	if !got[0].Success || got[0].Mechanism != "credential" {
		t.Fatalf("newest entry = %+v, want the credential success", got[0])
	}
	if got[1].Success || got[1].Reason == "" {
		t.Fatalf("middle entry = %+v, want the canceled failure with reason", got[1])
	}
	if got[0].When.IsZero() {
		t.Fatalf("entry timestamp was not stamped")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	tempDir := t.TempDir()

	j, err := journal.Open(filepath.Join(tempDir, "journal.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})

	for i := 0; i < 5; i++ {
		if err := j.Record(journal.Entry{Success: true}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	got, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(got))
	}
}
