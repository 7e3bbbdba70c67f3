// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package accounts provides account management for Notisblokk.
//
// An Account owns the stored credential hash and the activation flag.
// Everything that leaves this package toward a caller is a Summary, which
// never carries the password hash. Deleting an account is a soft delete:
// the row stays, the Active flag goes false, and any still-unexpired
// sessions for it stop validating on their next check.
package accounts
