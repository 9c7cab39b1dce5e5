package fallback

import (
	"errors"
	"strings"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const specialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_{|}~`"

// minScore is the zxcvbn floor (0–4). Rule checks alone let through
// patterned passphrases like "Password123!"; the estimator catches those.
const minScore = 3

// ValidatePassphrase applies the fallback passphrase policy.
func ValidatePassphrase(pw string) error {
	if len(pw) < 12 {
		return errors.New("passphrase must be at least 12 characters long")
	}
	if !hasUpper(pw) {
		return errors.New("passphrase must include an uppercase letter")
	}
	if !hasDigit(pw) {
		return errors.New("passphrase must include a digit")
	}
	if !hasSpecial(pw) {
		return errors.New("passphrase must include a special character")
	}
	if zxcvbn.PasswordStrength(pw, nil).Score < minScore {
		return errors.New("passphrase is too guessable, choose something less predictable")
	}
	return nil
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecial(s string) bool {
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			return true
		}
	}
	return false
}
