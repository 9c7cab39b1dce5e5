package gate

import (
	"context"
	"fmt"

	keychain "github.com/keybase/go-keychain"

	"github.com/revlabs/localauth"
)

const (
	keychainService = "com.revlabs.localauth.gate"
	keychainLabel   = "localauth gated secret"
)

// Store writes the secret into the macOS Keychain under the given name.
// Device-local and never synchronized; readable only while the device is
// unlocked. Overwrites an existing item with the same name.
func Store(name string, secret []byte) error {
	account, err := accountFor(name)
	if err != nil {
		return err
	}
	if len(secret) == 0 {
		return fmt.Errorf("secret payload is required")
	}

	item := keychain.NewGenericPassword(keychainService, account, keychainLabel, secret, "")
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := keychain.AddItem(item); err != nil {
		if err == keychain.ErrorDuplicateItem {
			query := keychain.NewGenericPassword(keychainService, account, "", nil, "")
			update := keychain.NewItem()
			update.SetData(secret)
			if err := keychain.UpdateItem(query, update); err != nil {
				return fmt.Errorf("update gated secret: %w", err)
			}
			return nil
		}
		return fmt.Errorf("add gated secret to keychain: %w", err)
	}
	return nil
}

// Retrieve runs one authentication ceremony and, on success, reads the
// secret back. A failed or canceled ceremony never touches the keychain.
func Retrieve(ctx context.Context, svc *localauth.Service, name string) ([]byte, error) {
	account, err := accountFor(name)
	if err != nil {
		return nil, err
	}

	outcome := svc.Run(ctx, localauth.PromptConfig{
		Title:    "Unlock secret",
		Subtitle: fmt.Sprintf("access the %q secret", account),
	})
	if !outcome.Success {
		return nil, fmt.Errorf("authentication required: %s", outcome.Reason)
	}

	data, err := keychain.GetGenericPassword(keychainService, account, "", "")
	if err != nil {
		return nil, fmt.Errorf("read gated secret: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// Remove deletes the secret. Removing a missing secret is not an error.
func Remove(name string) error {
	account, err := accountFor(name)
	if err != nil {
		return err
	}
	query := keychain.NewGenericPassword(keychainService, account, "", nil, "")
	if err := keychain.DeleteItem(query); err != nil && err != keychain.ErrorItemNotFound {
		return fmt.Errorf("remove gated secret: %w", err)
	}
	return nil
}
