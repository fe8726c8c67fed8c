package driven

import (
	"context"
	"errors"

	"github.com/jcastellan/workpanel/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// WORKPANEL_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set WORKPANEL_SECRET_KEY")

// Well-known credential store keys. The bearer token and the username that
// obtained it are always written together on login and cleared together on
// logout.
const (
	CredentialKeyToken    = "token"
	CredentialKeyUsername = "username"
)

// CredentialStore defines the driven port for durable local credential
// persistence. The adapter layer is responsible for encryption/decryption;
// this interface operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the value under the given key. Returns
	// ErrEncryptionKeyNotSet if the adapter was constructed without a key.
	Set(ctx context.Context, key, plaintext string) error

	// Get retrieves the plaintext value for the given key.
	// Returns ("", nil) if no value exists for that key.
	Get(ctx context.Context, key string) (string, error)

	// List returns all stored entries with decrypted values.
	List(ctx context.Context) ([]model.StoredValue, error)

	// Delete removes the value under the given key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
