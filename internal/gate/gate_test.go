package gate

import "testing"

func TestAccountForRejectsBadNames(t *testing.T) {
	cases := []string{"", "   ", "with\x00nul", "line\nbreak"}
	for _, name := range cases {
		if _, err := accountFor(name); err == nil {
			t.Fatalf("accountFor(%q) accepted an invalid name", name)
		}
	}
}

func TestAccountForTrims(t *testing.T) {
	got, err := accountFor("  db-password  ")
	if err != nil {
		t.Fatalf("accountFor returned error: %v", err)
	}
	if got != "db-password" {
		t.Fatalf("accountFor = %q, want %q", got, "db-password")
	}
}
