// Package application holds the session and view-state services sitting
// between the driving web/CLI adapters and the backend client.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jcastellan/workpanel/internal/domain/model"
	"github.com/jcastellan/workpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenSource = (*Session)(nil)

// Session owns the panel's authentication state: the bearer credential, the
// identity derived from it, and their persistence in the local credential
// store. It is constructed once at application start and passed explicitly
// into everything that needs it; all reads observe state changes
// synchronously.
type Session struct {
	api    driven.BackendClient
	store  driven.CredentialStore
	logger *slog.Logger

	mu         sync.RWMutex
	credential *model.Credential
	identity   *model.Identity
}

// NewSession creates a Session backed by the given client and store.
func NewSession(api driven.BackendClient, store driven.CredentialStore, logger *slog.Logger) *Session {
	return &Session{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Login exchanges the credentials for a bearer token, persists token and
// username together, and updates the in-memory state. Backend rejection
// surfaces to the caller as a *model.APIError, never swallowed.
func (s *Session) Login(ctx context.Context, username, secret string) (model.Identity, error) {
	token, err := s.api.Login(ctx, username, secret)
	if err != nil {
		return model.Identity{}, err
	}

	if err := s.persist(ctx, token, username); err != nil {
		// The backend accepted the login; a disabled or failing store only
		// costs persistence across restarts, not this session.
		s.logger.Warn("session not persisted", "error", err)
	}

	s.mu.Lock()
	s.credential = &model.Credential{Token: token, Username: username}
	s.identity = &model.Identity{Username: username}
	s.mu.Unlock()

	s.logger.Info("login succeeded", "username", username)
	return model.Identity{Username: username}, nil
}

func (s *Session) persist(ctx context.Context, token, username string) error {
	if err := s.store.Set(ctx, driven.CredentialKeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.store.Set(ctx, driven.CredentialKeyUsername, username); err != nil {
		return fmt.Errorf("store username: %w", err)
	}
	return nil
}

// Logout clears the stored entries and the in-memory state unconditionally.
// Idempotent: logging out twice is a no-op the second time.
func (s *Session) Logout(ctx context.Context) error {
	var firstErr error
	for _, key := range []string{driven.CredentialKeyToken, driven.CredentialKeyUsername} {
		if err := s.store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear credential %q: %w", key, err)
		}
	}

	s.mu.Lock()
	s.credential = nil
	s.identity = nil
	s.mu.Unlock()

	s.logger.Info("logged out")
	return firstErr
}

// Restore rehydrates the session from the credential store at startup,
// without contacting the backend. Stored tokens that parse as JWTs and are
// already expired are discarded instead of trusted; opaque tokens are
// accepted as-is and will draw a 401 on first use if stale.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, driven.CredentialKeyToken)
	if err != nil {
		if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
			s.logger.Info("credential store disabled, starting unauthenticated")
			return nil
		}
		return fmt.Errorf("read stored token: %w", err)
	}
	if token == "" {
		return nil
	}

	username, err := s.store.Get(ctx, driven.CredentialKeyUsername)
	if err != nil {
		return fmt.Errorf("read stored username: %w", err)
	}
	if username == "" {
		// A token with no co-stored username is a half-written session;
		// drop it rather than rehydrate a credential with no identity.
		s.logger.Warn("stored token has no username, discarding")
		return s.Logout(ctx)
	}

	if expired, exp := tokenExpired(token, time.Now()); expired {
		s.logger.Info("stored token expired, discarding", "expired_at", exp)
		return s.Logout(ctx)
	}

	s.mu.Lock()
	s.credential = &model.Credential{Token: token, Username: username}
	s.identity = &model.Identity{Username: username}
	s.mu.Unlock()

	s.logger.Info("session restored", "username", username)
	return nil
}

// Current returns the identity of the logged-in user, or nil when
// unauthenticated.
func (s *Session) Current() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Token returns the current bearer token, or "" when unauthenticated.
// Implements driven.TokenSource for the backend client.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == nil {
		return ""
	}
	return s.credential.Token
}

// tokenExpired reports whether token is a JWT whose exp claim lies before
// now. The signature is deliberately not verified -- the panel holds no key
// material -- so this is only a local staleness check, not an authenticity
// check. Tokens that don't parse as JWTs are treated as opaque and never
// expire locally.
func tokenExpired(token string, now time.Time) (bool, time.Time) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, time.Time{}
	}
	return exp.Before(now), exp.Time
}
