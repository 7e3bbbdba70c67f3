// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package auth

import (
	"runtime"

	"github.com/samber/oops"
)

// GatedHasher bounds the number of argon2id computations running at once.
// Each call costs tens of megabytes and hundreds of milliseconds of CPU;
// without a bound a burst of logins can starve the I/O-bound paths.
// Callers past the limit queue on the gate.
type GatedHasher struct {
	inner PasswordHasher
	slots chan struct{}
}

// NewGatedHasher wraps inner with a concurrency limit.
// A limit <= 0 defaults to GOMAXPROCS.
func NewGatedHasher(inner PasswordHasher, limit int) (*GatedHasher, error) {
	if inner == nil {
		return nil, oops.Code("AUTH_GATE_INVALID").Errorf("inner hasher is required")
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &GatedHasher{
		inner: inner,
		slots: make(chan struct{}, limit),
	}, nil
}

// Hash computes a password hash within the concurrency limit.
func (g *GatedHasher) Hash(password string) (string, error) {
	g.slots <- struct{}{}
	defer func() { <-g.slots }()
	return g.inner.Hash(password)
}

// Verify checks a password within the concurrency limit.
func (g *GatedHasher) Verify(password, hash string) (bool, error) {
	g.slots <- struct{}{}
	defer func() { <-g.slots }()
	return g.inner.Verify(password, hash)
}

// Compile-time interface check.
var _ PasswordHasher = (*GatedHasher)(nil)
