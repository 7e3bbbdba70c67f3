// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err carries the given oops code, e.g.
// AUTH_UNAUTHENTICATED or NOTE_NOT_FOUND. When wrapping stacks codes,
// the outermost one is compared.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr := asOops(t, err)
	assert.Equal(t, code, oopsErr.Code(), "error code mismatch on %v", err)
}

// AssertErrorContext asserts that err carries the given oops context
// entry, e.g. ("account_id", id.String()) on a session issue failure.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr := asOops(t, err)
	ctx := oopsErr.Context()
	require.Contains(t, ctx, key, "missing context key %q on %v", key, err)
	assert.Equal(t, value, ctx[key])
}

func asOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops error, got %T: %v", err, err)
	return oopsErr
}
