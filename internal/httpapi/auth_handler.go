// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/auth"
	"github.com/notisblokk/notisblokk/internal/observability"
)

// sessionCookieMaxAge matches the session TTL so the cookie and the
// server-side session expire together.
const sessionCookieMaxAge = int(auth.SessionTokenTTL / time.Second)

// AuthHandler serves login, logout and session verification.
type AuthHandler struct {
	gateway *auth.Service
	metrics *observability.Metrics
}

// NewAuthHandler creates an AuthHandler. metrics may be nil.
func NewAuthHandler(gateway *auth.Service, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{gateway: gateway, metrics: metrics}
}

// loginOutcome maps a login result to a metric label. Only attempts that
// reached credential evaluation are counted; malformed requests are not.
func loginOutcome(err error) string {
	if err == nil {
		return "success"
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case auth.CodeInvalidCredentials:
			return "invalid"
		case auth.CodeAccountDisabled:
			return "disabled"
		}
	}
	return "error"
}

func (h *AuthHandler) recordLogin(outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates credentials and issues a session token. The token
// is returned in the body and also set as a cookie for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	result, err := h.gateway.Login(c.Request.Context(), req.Email, req.Password)
	h.recordLogin(loginOutcome(err))
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(SessionCookie, result.Token, sessionCookieMaxAge, "/", "", false, true)
	respondData(c, http.StatusOK, gin.H{
		"token":   result.Token,
		"account": result.Account,
	})
}

// Logout revokes the request's session, if any, and clears the cookie.
// Always reports success so clients can log out unconditionally.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := tokenFromRequest(c)
	if token != "" {
		if err := h.gateway.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	respondMessage(c, http.StatusOK, "logged out")
}

// Verify resolves the request's session token to its account summary.
func (h *AuthHandler) Verify(c *gin.Context) {
	account, err := h.gateway.VerifySession(c.Request.Context(), tokenFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, account)
}
