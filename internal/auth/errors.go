// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Error codes attached to oops errors by this package. Callers switch on
// these to map failures onto wire responses.
const (
	// CodeInvalidCredentials covers unknown email and wrong password.
	// The two are merged so callers cannot enumerate accounts.
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"

	// CodeAccountDisabled is returned on login with a correct password
	// for an inactive account. Distinguishable from invalid credentials.
	CodeAccountDisabled = "AUTH_ACCOUNT_DISABLED"

	// CodeUnauthenticated covers every session verification failure:
	// missing, malformed, expired or revoked token, and accounts found
	// inactive at verification time. All merged.
	CodeUnauthenticated = "AUTH_UNAUTHENTICATED"
)
