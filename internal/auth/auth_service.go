// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/accounts"
)

// AccountDirectory is the slice of the account collaborator the gateway
// consumes. The gateway only ever reads accounts.
type AccountDirectory interface {
	GetByEmail(ctx context.Context, email string) (*accounts.Account, error)
	GetByID(ctx context.Context, id ulid.ULID) (*accounts.Account, error)
}

// Service is the authentication gateway. It orchestrates login, logout and
// session verification over the account directory, the password hasher and
// the session store.
type Service struct {
	directory AccountDirectory
	sessions  *SessionStore
	hasher    PasswordHasher
	logger    *slog.Logger
}

// LoginResult is returned from a successful login.
type LoginResult struct {
	Token   string
	Account *accounts.Summary
}

// NewService creates a new authentication Service.
func NewService(directory AccountDirectory, sessions *SessionStore, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(directory, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new authentication Service with an
// explicit logger.
func NewServiceWithLogger(directory AccountDirectory, sessions *SessionStore, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if directory == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("account directory is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("session store is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		directory: directory,
		sessions:  sessions,
		hasher:    hasher,
		logger:    logger,
	}, nil
}

// dummyPasswordHash is used when an account doesn't exist so that password
// verification still runs and response time stays flat. It is a fake hash
// that can never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Login authenticates an account by email and password and issues a
// session. The four steps - lookup, verify, activation check, issue - are
// each independently retryable; a failure before issue leaves no partial
// session.
//
// Unknown email and wrong password both yield CodeInvalidCredentials.
// A correct password against an inactive account yields
// CodeAccountDisabled, which is deliberately distinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, lookupErr := s.directory.GetByEmail(ctx, email)

	// Pick the hash to verify against. On a missing account we verify a
	// dummy hash anyway to keep response time flat.
	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, accounts.ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// Malformed stored hash: fail closed as a credential mismatch.
		valid = false
	}

	if !accountExists || !valid {
		return nil, oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
	}

	// Activation check comes after verification so that disabled and
	// unknown accounts take the same time up to this point.
	if !account.Active {
		return nil, oops.Code(CodeAccountDisabled).Errorf("account is disabled")
	}

	token, session, err := s.sessions.Issue(ctx, account.ID)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session").
			Wrap(err)
	}

	s.logger.Info("login succeeded",
		"account_id", account.ID.String(),
		"session_id", session.ID.String(),
		"expires_at", session.ExpiresAt,
	)

	return &LoginResult{
		Token:   token,
		Account: account.Summarize(),
	}, nil
}

// Logout revokes the session for token. Always succeeds from the caller's
// perspective, even when the token was already invalid or absent.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "revoke session").
			Wrap(err)
	}
	return nil
}

// VerifySession resolves a token to the account summary it belongs to.
// The owning account is re-fetched on every call and must be active;
// missing, expired and revoked tokens and inactive accounts are all merged
// into CodeUnauthenticated so that nothing leaks past login.
func (s *Service) VerifySession(ctx context.Context, token string) (*accounts.Summary, error) {
	accountID, err := s.sessions.Validate(ctx, token)
	if err != nil {
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == CodeUnauthenticated {
			return nil, err
		}
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "validate session").
			Wrap(err)
	}

	account, err := s.directory.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, oops.Code(CodeUnauthenticated).Errorf("session account no longer exists")
		}
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}

	if !account.Active {
		return nil, oops.Code(CodeUnauthenticated).Errorf("session account is inactive")
	}

	return account.Summarize(), nil
}
