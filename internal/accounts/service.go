// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package accounts

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// PasswordHasher is the slice of the hashing component this service needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// Service provides account management operations.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService creates a new account Service.
func NewService(repo Repository, hasher PasswordHasher) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("ACCOUNTS_SERVICE_INVALID").Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("ACCOUNTS_SERVICE_INVALID").Errorf("password hasher is required")
	}
	return &Service{repo: repo, hasher: hasher}, nil
}

// Register validates input, hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, name, email, phone, password string) (*Summary, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(name, email, phone, hash)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, oops.Code("ACCOUNT_EMAIL_TAKEN").
				Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "persist account").
			Wrap(err)
	}

	return account.Summarize(), nil
}

// Get retrieves a single account summary.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Summary, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return account.Summarize(), nil
}

// List retrieves all account summaries.
func (s *Service) List(ctx context.Context) ([]*Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").Wrap(err)
	}
	summaries := make([]*Summary, 0, len(all))
	for _, a := range all {
		summaries = append(summaries, a.Summarize())
	}
	return summaries, nil
}

// UpdateProfile updates name, email and phone for an existing account.
func (s *Service) UpdateProfile(ctx context.Context, id ulid.ULID, name, email, phone string) (*Summary, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_UPDATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	// Reject emails already registered to a different account.
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "check email ownership").
			Wrap(err)
	}
	if existing != nil && existing.ID != id {
		return nil, oops.Code("ACCOUNT_EMAIL_TAKEN").
			Errorf("email already registered to another account")
	}

	account.Name = name
	account.Email = email
	account.Phone = phone

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, oops.Code("ACCOUNT_UPDATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	return account.Summarize(), nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id ulid.ULID, current, next string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("ACCOUNT_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return oops.Code("ACCOUNT_PASSWORD_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	ok, err := s.hasher.Verify(current, account.PasswordHash)
	if err != nil || !ok {
		return oops.Code("ACCOUNT_PASSWORD_MISMATCH").
			Errorf("current password is incorrect")
	}

	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return oops.Code("ACCOUNT_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return oops.Code("ACCOUNT_PASSWORD_FAILED").
			With("operation", "persist new hash").
			Wrap(err)
	}
	return nil
}

// Deactivate soft-deletes an account. Existing sessions are left in place
// and fail their next activation re-check.
func (s *Service) Deactivate(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("ACCOUNT_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return oops.Code("ACCOUNT_DEACTIVATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}
