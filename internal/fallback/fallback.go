// Package fallback enrolls and verifies a local passphrase for hosts where
// no native authentication shim is usable (headless machines, unsupported
// operating systems). It is never consulted by the core bridge; callers
// wire it in explicitly when Check reports nothing available.
package fallback

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/argon2"
)

const stateFilename = "fallback.json"

// Argon2id parameters for the stored passphrase hash.
const (
	hashTime     = 3
	hashMemoryMB = 64
	hashThreads  = 1
	hashKeyLen   = 32
	saltLen      = 16
)

// ErrNotEnrolled signals that no fallback passphrase has been set.
var ErrNotEnrolled = errors.New("no fallback passphrase enrolled")

type record struct {
	Salt        []byte    `json:"salt"`
	Hash        []byte    `json:"hash"`
	Time        uint32    `json:"time"`
	MemoryMB    uint32    `json:"memoryMb"`
	Parallelism uint8     `json:"parallelism"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StateDir resolves the per-user directory holding fallback state.
func StateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "localauth"), nil
}

func statePath(dir string) string {
	return filepath.Join(dir, stateFilename)
}

// Set enrolls a fallback passphrase, replacing any previous one. The
// passphrase must satisfy the policy; only its argon2id hash is stored, as
// a 0600 file under dir.
func Set(dir, passphrase string) error {
	if dir == "" {
		return errors.New("state directory is required")
	}
	if err := ValidatePassphrase(passphrase); err != nil {
		return err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	rec := record{
		Salt:        salt,
		Hash:        argon2.IDKey([]byte(passphrase), salt, hashTime, hashMemoryMB*1024, hashThreads, hashKeyLen),
		Time:        hashTime,
		MemoryMB:    hashMemoryMB,
		Parallelism: hashThreads,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode fallback record: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(statePath(dir), data, 0o600); err != nil {
		return fmt.Errorf("write fallback record: %w", err)
	}
	return nil
}

// Verify checks a passphrase against the enrolled record. Returns
// ErrNotEnrolled when nothing is set.
func Verify(dir, passphrase string) (bool, error) {
	rec, err := load(dir)
	if err != nil {
		return false, err
	}
	if rec.Time == 0 || rec.MemoryMB == 0 || rec.Parallelism == 0 {
		return false, errors.New("fallback record has invalid parameters")
	}

	hash := argon2.IDKey([]byte(passphrase), rec.Salt, rec.Time, rec.MemoryMB*1024, rec.Parallelism, uint32(len(rec.Hash)))
	return subtle.ConstantTimeCompare(hash, rec.Hash) == 1, nil
}

// Enrolled reports whether a fallback passphrase is set under dir.
func Enrolled(dir string) bool {
	_, err := load(dir)
	return err == nil
}

// Remove deletes the enrolled passphrase. Removing an absent record is not
// an error.
func Remove(dir string) error {
	if err := os.Remove(statePath(dir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove fallback record: %w", err)
	}
	return nil
}

func load(dir string) (record, error) {
	var rec record

	data, err := os.ReadFile(statePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return rec, ErrNotEnrolled
		}
		return rec, fmt.Errorf("read fallback record: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode fallback record: %w", err)
	}
	if len(rec.Salt) == 0 || len(rec.Hash) == 0 {
		return rec, errors.New("fallback record is incomplete")
	}
	return rec, nil
}
