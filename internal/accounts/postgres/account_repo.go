// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package postgres implements the accounts repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/accounts"
	"github.com/notisblokk/notisblokk/internal/store"
)

const accountColumns = `id, name, email, phone, password_hash, active, created_at`

// AccountRepository implements accounts.Repository using PostgreSQL.
// Email uniqueness rides on a unique index over LOWER(email), so lookups
// and the taken-check are case-insensitive.
type AccountRepository struct {
	pool store.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool store.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *accounts.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, email, phone, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		account.ID.String(),
		account.Name,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Active,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", account.Email).
				Wrap(accounts.ErrEmailTaken)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*accounts.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(accounts.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email, case-insensitively.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(accounts.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_EMAIL_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}
	return account, nil
}

// List retrieves all accounts ordered by creation time.
func (r *AccountRepository) List(ctx context.Context) ([]*accounts.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").
			With("operation", "list accounts").
			Wrap(err)
	}
	defer rows.Close()

	var result []*accounts.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, oops.Code("ACCOUNT_SCAN_FAILED").
				With("operation", "scan account row").
				Wrap(err)
		}
		result = append(result, account)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("ACCOUNT_ROWS_ERROR").
			With("operation", "iterate account rows").
			Wrap(err)
	}

	return result, nil
}

// Update updates name, email and phone for an existing account.
func (r *AccountRepository) Update(ctx context.Context, account *accounts.Account) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts SET name = $2, email = $3, phone = $4
		WHERE id = $1
	`,
		account.ID.String(),
		account.Name,
		account.Email,
		account.Phone,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", account.Email).
				Wrap(accounts.ErrEmailTaken)
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("id", account.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", account.ID.String()).
			Wrap(accounts.ErrNotFound)
	}
	return nil
}

// UpdatePassword updates only the password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts SET password_hash = $2
		WHERE id = $1
	`, id.String(), passwordHash)
	if err != nil {
		return oops.Code("ACCOUNT_PASSWORD_UPDATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(accounts.ErrNotFound)
	}
	return nil
}

// Deactivate clears the Active flag, leaving the row and any sessions in
// place.
func (r *AccountRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts SET active = FALSE
		WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("ACCOUNT_DEACTIVATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(accounts.ErrNotFound)
	}
	return nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*accounts.Account, error) {
	return scanAccountFrom(row.Scan)
}

// scanAccountRow scans a row from a rows iterator into an Account.
func scanAccountRow(rows pgx.Rows) (*accounts.Account, error) {
	return scanAccountFrom(rows.Scan)
}

func scanAccountFrom(scan func(dest ...any) error) (*accounts.Account, error) {
	var (
		idStr        string
		name         string
		email        string
		phone        string
		passwordHash string
		active       bool
		createdAt    time.Time
	)

	if err := scan(&idStr, &name, &email, &phone, &passwordHash, &active, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}

	return &accounts.Account{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Active:       active,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ accounts.Repository = (*AccountRepository)(nil)
