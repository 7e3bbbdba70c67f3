// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	// SessionTokenBytes is the raw entropy per token. 32 bytes is double
	// the 128-bit floor for unguessable tokens.
	SessionTokenBytes = 32 // 32 bytes = 64 hex chars

	// SessionTokenTTL is the fixed validity window. Not configurable
	// per call.
	SessionTokenTTL = 24 * time.Hour
)

// Session is the persistent evidence of an authenticated client.
// Rows are immutable: a session is created by a successful login and only
// ever deleted, by logout or by the expiry sweep. The owning account's
// activation flag is deliberately not cached here; the gateway re-checks
// it on every verification.
type Session struct {
	ID        ulid.ULID
	AccountID ulid.ULID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a validated Session with the fixed TTL.
func NewSession(accountID ulid.ULID, tokenHash string) (*Session, error) {
	if accountID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_ACCOUNT").Errorf("account ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}

	now := time.Now()
	return &Session{
		ID:        ulid.Make(),
		AccountID: accountID,
		TokenHash: tokenHash,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTokenTTL),
	}, nil
}

// IsExpiredAt reports whether the session is logically dead at t, whether
// or not the row has been swept yet.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// GenerateSessionToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error). The plaintext token is
// sent to the client; only the hash is stored.
func GenerateSessionToken() (token, hash string, err error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashSessionToken(token)

	return token, hash, nil
}

// HashSessionToken computes the SHA-256 hash of a session token.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifySessionToken checks a plaintext token against a stored hash using
// a constant-time comparison.
func VerifySessionToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("SESSION_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashSessionToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session. A single atomic insert: cancellation
	// mid-login leaves either a complete row or none.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	// Returns ErrNotFound (wrapped) when absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// DeleteByTokenHash removes a session row. Deleting an absent row is
	// not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes every session whose expiry has passed and
	// returns the count of deleted rows.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionStore manages the session-token lifecycle over a repository.
// Every Validate performs a fresh read; nothing is cached across calls, so
// a concurrent revoke or sweep is visible immediately.
type SessionStore struct {
	sessions SessionRepository
	now      func() time.Time
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(sessions SessionRepository) (*SessionStore, error) {
	return NewSessionStoreWithClock(sessions, time.Now)
}

// NewSessionStoreWithClock creates a SessionStore with an injectable clock.
// Useful for testing expiry with deterministic time values.
func NewSessionStoreWithClock(sessions SessionRepository, now func() time.Time) (*SessionStore, error) {
	if sessions == nil {
		return nil, oops.Code("SESSION_STORE_INVALID").Errorf("session repository is required")
	}
	if now == nil {
		return nil, oops.Code("SESSION_STORE_INVALID").Errorf("clock is required")
	}
	return &SessionStore{sessions: sessions, now: now}, nil
}

// Issue generates a fresh token and persists a session for accountID.
// Token uniqueness rests on entropy, not on coordination.
func (s *SessionStore) Issue(ctx context.Context, accountID ulid.ULID) (string, *Session, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", nil, oops.Code("SESSION_ISSUE_FAILED").
			With("operation", "generate token").
			Wrap(err)
	}

	session, err := NewSession(accountID, tokenHash)
	if err != nil {
		return "", nil, oops.Code("SESSION_ISSUE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, oops.Code("SESSION_ISSUE_FAILED").
			With("operation", "persist session").
			With("account_id", accountID.String()).
			Wrap(err)
	}

	return token, session, nil
}

// Validate resolves a token to its owning account ID.
// Fails with CodeUnauthenticated when the token is unknown or the session
// is expired. An expired-but-unswept row is treated exactly like a missing
// one: the decision is the timestamp comparison, not row presence.
// Activation of the owning account is the gateway's concern, not this
// store's.
func (s *SessionStore) Validate(ctx context.Context, token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code(CodeUnauthenticated).Errorf("session token missing")
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashSessionToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ulid.ULID{}, oops.Code(CodeUnauthenticated).Errorf("invalid session token")
		}
		return ulid.ULID{}, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpiredAt(s.now()) {
		return ulid.ULID{}, oops.Code(CodeUnauthenticated).Errorf("session expired")
	}

	return session.AccountID, nil
}

// Revoke deletes the session for token. Idempotent: revoking an unknown
// or already-revoked token succeeds.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		return oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// Sweep deletes every expired session and returns the count removed.
// Safe to run concurrently with any other operation.
func (s *SessionStore) Sweep(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return n, nil
}
