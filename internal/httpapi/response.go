// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package httpapi exposes the application over a JSON HTTP API.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/auth"
)

// envelope is the uniform response shape. Data carries the payload on
// success; Message carries a human-readable note on errors and on
// data-less successes.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: true, Message: msg})
}

func respondError(c *gin.Context, err error) {
	status, msg := statusForError(err)
	c.JSON(status, envelope{Success: false, Message: msg})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: msg})
}

// statusForError maps a service error to an HTTP status and a message
// safe to expose. Unknown errors become a generic 500 so internals do
// not leak.
func statusForError(err error) (int, string) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return http.StatusInternalServerError, "internal server error"
	}

	code, _ := oopsErr.Code().(string)
	switch code {
	case auth.CodeInvalidCredentials, auth.CodeUnauthenticated:
		return http.StatusUnauthorized, oopsErr.Error()
	case auth.CodeAccountDisabled:
		return http.StatusForbidden, oopsErr.Error()
	case "ACCOUNT_EMAIL_TAKEN", "STATUS_IN_USE":
		return http.StatusConflict, oopsErr.Error()
	case "ACCOUNT_PASSWORD_MISMATCH", "AUTH_EMPTY_PASSWORD":
		return http.StatusBadRequest, oopsErr.Error()
	}

	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound, oopsErr.Error()
	case strings.Contains(code, "_INVALID"):
		return http.StatusBadRequest, oopsErr.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}
