package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellan/workpanel/internal/domain/port/driven"
)

// testKey is a fixed 32-byte AES-256 key for tests.
var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestCredentialRepo_SetGetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.CredentialKeyToken, "eyJhbGciOiJIUzI1NiJ9.secret"))

	got, err := repo.Get(ctx, driven.CredentialKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.secret", got)
}

func TestCredentialRepo_ValueEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.CredentialKeyToken, "plaintext-token"))

	var raw string
	err := db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, driven.CredentialKeyToken).Scan(&raw)
	require.NoError(t, err)
	assert.NotContains(t, raw, "plaintext-token")
}

func TestCredentialRepo_GetMissingKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	got, err := repo.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCredentialRepo_SetReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.CredentialKeyUsername, "alice"))
	require.NoError(t, repo.Set(ctx, driven.CredentialKeyUsername, "bob"))

	got, err := repo.Get(ctx, driven.CredentialKeyUsername)
	require.NoError(t, err)
	assert.Equal(t, "bob", got)

	values, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestCredentialRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.CredentialKeyToken, "tok"))
	require.NoError(t, repo.Delete(ctx, driven.CredentialKeyToken))

	got, err := repo.Get(ctx, driven.CredentialKeyToken)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Deleting an absent key is not an error.
	assert.NoError(t, repo.Delete(ctx, driven.CredentialKeyToken))
}

func TestCredentialRepo_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.CredentialKeyUsername, "alice"))
	require.NoError(t, repo.Set(ctx, driven.CredentialKeyToken, "tok"))

	values, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, values, 2)

	// Ordered by key.
	assert.Equal(t, driven.CredentialKeyToken, values[0].Key)
	assert.Equal(t, "tok", values[0].Value)
	assert.Equal(t, driven.CredentialKeyUsername, values[1].Key)
	assert.Equal(t, "alice", values[1].Value)
	assert.False(t, values[0].UpdatedAt.IsZero())
}

func TestCredentialRepo_NoEncryptionKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Set(ctx, "k", "v"), driven.ErrEncryptionKeyNotSet)

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestCredentialRepo_WrongKeyFailsDecrypt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewCredentialRepo(db, testKey).Set(ctx, "k", "v"))

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err := NewCredentialRepo(db, otherKey).Get(ctx, "k")
	assert.Error(t, err)
}
