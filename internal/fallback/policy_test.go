package fallback_test

import (
	"testing"

	"github.com/revlabs/localauth/internal/fallback"
)

func TestValidatePassphrase(t *testing.T) {
	cases := []struct {
		name   string
		pw     string
		wantOK bool
	}{
		{"strong", "Tr0ub4dor&3-horse-battery", true},
		{"too short", "Ab1!x", false},
		{"no uppercase", "trouble4dor&3-horse", false},
		{"no digit", "Troubledor&-horse-batt", false},
		{"no special", "Tr0ub4dor3HorseBatt", false},
		{"guessable pattern", "Password123!", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := fallback.ValidatePassphrase(tc.pw)
			if tc.wantOK && err != nil {
				t.Fatalf("ValidatePassphrase(%q) = %v, want nil", tc.pw, err)
			}
			if !tc.wantOK && err == nil {
				t.Fatalf("ValidatePassphrase(%q) accepted a weak passphrase", tc.pw)
			}
		})
	}
}
