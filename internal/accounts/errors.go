// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package accounts

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an email is already registered.
var ErrEmailTaken = errors.New("email already registered")
