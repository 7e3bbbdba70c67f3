// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package accounts_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notisblokk/notisblokk/internal/accounts"
)

func TestNewAccount(t *testing.T) {
	t.Run("creates active account", func(t *testing.T) {
		account, err := accounts.NewAccount("Kari", "kari@example.com", "12345678", "$argon2id$hash")
		require.NoError(t, err)
		assert.True(t, account.Active)
		assert.NotZero(t, account.ID)
		assert.NotZero(t, account.CreatedAt)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := accounts.NewAccount("   ", "kari@example.com", "", "$argon2id$hash")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := accounts.NewAccount("Kari", "not-an-email", "", "$argon2id$hash")
		assert.Error(t, err)
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		_, err := accounts.NewAccount("Kari", "kari@example.com", "", "")
		assert.Error(t, err)
	})

	t.Run("phone is optional", func(t *testing.T) {
		account, err := accounts.NewAccount("Kari", "kari@example.com", "", "$argon2id$hash")
		require.NoError(t, err)
		assert.Empty(t, account.Phone)
	})
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, accounts.ValidatePassword(""))
	assert.Error(t, accounts.ValidatePassword("12345"))
	assert.NoError(t, accounts.ValidatePassword("123456"))
	assert.NoError(t, accounts.ValidatePassword("secret1"))
}

func TestSummarize(t *testing.T) {
	account, err := accounts.NewAccount("Kari", "kari@example.com", "12345678", "$argon2id$hash")
	require.NoError(t, err)

	summary := account.Summarize()
	assert.Equal(t, account.ID, summary.ID)
	assert.Equal(t, account.Email, summary.Email)

	// The JSON shape must never leak the hash.
	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")
	assert.NotContains(t, string(raw), "password")
}
