// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package auth provides credential authentication and session-token
// lifecycle management for Notisblokk.
//
// # Components
//
//   - Argon2idHasher - one-way, salted, deliberately slow password hashing
//   - SessionStore - issue/validate/revoke/sweep of opaque session tokens
//   - Service - the authentication gateway composing the two with the
//     account directory: login, logout, session verification
//
// Sessions are immutable rows with a fixed 24-hour expiry. Expiry is
// observed lazily: Validate compares timestamps on every call, and a
// periodic Sweeper deletes rows whose expiry has passed. Correctness never
// depends on the sweep running promptly.
//
// The plaintext token goes to the client only; the store keeps a SHA-256
// digest, so a leaked sessions table does not yield usable tokens.
package auth
