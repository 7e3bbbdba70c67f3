// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notisblokk/notisblokk/internal/accounts"
)

const accountCols = "id, name, email, phone, password_hash, active, created_at"

func newTestAccount(t *testing.T) *accounts.Account {
	t.Helper()
	account, err := accounts.NewAccount("Kari", "kari@example.com", "12345678", "$argon2id$hash")
	require.NoError(t, err)
	return account
}

func accountRows(account *accounts.Account) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "active", "created_at"}).
		AddRow(account.ID.String(), account.Name, account.Email, account.Phone,
			account.PasswordHash, account.Active, account.CreatedAt)
}

func TestAccountRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID.String(), account.Name, account.Email, account.Phone,
				account.PasswordHash, account.Active, account.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewAccountRepository(mock)
		require.NoError(t, repo.Create(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to email taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID.String(), account.Name, account.Email, account.Phone,
				account.PasswordHash, account.Active, account.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewAccountRepository(mock)
		err = repo.Create(context.Background(), account)
		assert.ErrorIs(t, err, accounts.ErrEmailTaken)
	})

	t.Run("other database error is not email taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID.String(), account.Name, account.Email, account.Phone,
				account.PasswordHash, account.Active, account.CreatedAt).
			WillReturnError(errors.New("connection refused"))

		repo := NewAccountRepository(mock)
		err = repo.Create(context.Background(), account)
		require.Error(t, err)
		assert.NotErrorIs(t, err, accounts.ErrEmailTaken)
	})
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("KARI@example.com").
			WillReturnRows(accountRows(account))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByEmail(context.Background(), "KARI@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Email, got.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found wraps sentinel", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "active", "created_at"}))

		repo := NewAccountRepository(mock)
		_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectQuery(`SELECT ` + accountCols).
			WithArgs(account.ID.String()).
			WillReturnRows(accountRows(account))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.PasswordHash, got.PasswordHash)
	})

	t.Run("not found wraps sentinel", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT ` + accountCols).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "active", "created_at"}))

		repo := NewAccountRepository(mock)
		_, err = repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})
}

func TestAccountRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first := newTestAccount(t)
	second, err := accounts.NewAccount("Ola", "ola@example.com", "", "$argon2id$hash2")
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "active", "created_at"}).
		AddRow(first.ID.String(), first.Name, first.Email, first.Phone, first.PasswordHash, first.Active, first.CreatedAt).
		AddRow(second.ID.String(), second.Name, second.Email, second.Phone, second.PasswordHash, second.Active, second.CreatedAt)
	mock.ExpectQuery(`ORDER BY created_at`).WillReturnRows(rows)

	repo := NewAccountRepository(mock)
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.Email, all[0].Email)
	assert.Equal(t, second.Email, all[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update(t *testing.T) {
	t.Run("zero rows affected is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectExec(`UPDATE accounts SET name`).
			WithArgs(account.ID.String(), account.Name, account.Email, account.Phone).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewAccountRepository(mock)
		err = repo.Update(context.Background(), account)
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})

	t.Run("unique violation maps to email taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		mock.ExpectExec(`UPDATE accounts SET name`).
			WithArgs(account.ID.String(), account.Name, account.Email, account.Phone).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewAccountRepository(mock)
		err = repo.Update(context.Background(), account)
		assert.ErrorIs(t, err, accounts.ErrEmailTaken)
	})
}

func TestAccountRepository_Deactivate(t *testing.T) {
	t.Run("clears active flag", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`UPDATE accounts SET active = FALSE`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewAccountRepository(mock)
		assert.NoError(t, repo.Deactivate(context.Background(), id))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`UPDATE accounts SET active = FALSE`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewAccountRepository(mock)
		err = repo.Deactivate(context.Background(), id)
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})
}

// Account timestamps survive a round trip through the row scanner.
func TestAccountRepository_ScanRoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	account := newTestAccount(t)
	account.CreatedAt = createdAt

	mock.ExpectQuery(`SELECT ` + accountCols).
		WithArgs(account.ID.String()).
		WillReturnRows(accountRows(account))

	repo := NewAccountRepository(mock)
	got, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(createdAt))
}
