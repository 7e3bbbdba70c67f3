// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

// Account represents a registered account.
type Account struct {
	ID           ulid.ULID
	Name         string
	Email        string
	Phone        string // optional
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// NewAccount creates a validated, active Account.
// The caller is responsible for hashing the password beforehand.
func NewAccount(name, email, phone, passwordHash string) (*Account, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	return &Account{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
	}, nil
}

// Summary is the sanitized view of an Account. It never carries the
// password hash and is the only account shape returned to callers.
type Summary struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Summarize returns the sanitized view of the account.
func (a *Account) Summarize() *Summary {
	return &Summary{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

// ValidateName validates a display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code("ACCOUNT_INVALID_NAME").Errorf("name is required")
	}
	return nil
}

// ValidateEmail performs a minimal shape check on an email address.
// Uniqueness is enforced by the repository.
func ValidateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email is invalid")
	}
	return nil
}

// ValidatePassword validates a plaintext password before hashing.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("ACCOUNT_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Repository manages account persistence.
//
// Email lookups are case-insensitive: the store matches on the lowered
// email and enforces uniqueness on the lowered form as well.
type Repository interface {
	// Create stores a new account. Returns ErrEmailTaken (wrapped) when
	// the email is already registered.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByEmail retrieves an account by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// List retrieves all accounts ordered by creation time.
	List(ctx context.Context) ([]*Account, error)

	// Update updates name, email and phone for an existing account.
	Update(ctx context.Context, account *Account) error

	// UpdatePassword updates only the password hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// Deactivate clears the Active flag. Sessions are untouched; they
	// stop validating on their next activation re-check.
	Deactivate(ctx context.Context, id ulid.ULID) error
}
