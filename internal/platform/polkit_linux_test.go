package platform

import "testing"

func TestParseStartTime(t *testing.T) {
	// Realistic stat line: comm contains spaces and a closing paren.
	stat := []byte("1234 (my (odd) proc) S 1 1234 1234 0 -1 4194560 189 0 0 0 2 1 0 0 20 0 4 0 987654 225280000 641 18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0 17 3 0 0 0 0 0")

	if got := parseStartTime(stat); got != 987654 {
		t.Fatalf("parseStartTime = %d, want 987654", got)
	}
}

func TestParseStartTimeMalformed(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("1234 no-parens S 1"),
		[]byte("1234 (proc) S 1 2 3"),
		[]byte("1234 (proc) S 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 notanumber 20"),
	}
	for _, stat := range cases {
		if got := parseStartTime(stat); got != 0 {
			t.Fatalf("parseStartTime(%q) = %d, want 0", stat, got)
		}
	}
}

func TestProcessStartTimeReadsSelf(t *testing.T) {
	if got := processStartTime(); got == 0 {
		t.Fatalf("processStartTime returned 0 for the running process")
	}
}
