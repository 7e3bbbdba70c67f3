// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notisblokk/notisblokk/internal/accounts"
	"github.com/notisblokk/notisblokk/internal/auth"
	"github.com/notisblokk/notisblokk/internal/observability"
)

// SessionCookie is the cookie that carries the session token for browser
// clients. The Authorization header takes precedence when both are set.
const SessionCookie = "auth_token"

// currentAccountKey is the gin context key the verified account is stored
// under.
const currentAccountKey = "httpapi.account"

// tokenFromRequest extracts a session token from the request. A Bearer
// Authorization header wins over the session cookie. Returns "" when
// neither is present.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireSession verifies the request's session token and stores the
// owning account in the context. Requests without a valid session are
// rejected with 401.
func RequireSession(gateway *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := gateway.VerifySession(c.Request.Context(), tokenFromRequest(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(currentAccountKey, account)
		c.Next()
	}
}

// CurrentAccount returns the account RequireSession stored, or nil when
// the route is not session-protected.
func CurrentAccount(c *gin.Context) *accounts.Summary {
	v, ok := c.Get(currentAccountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*accounts.Summary)
	return account
}

// RequestMetrics counts completed requests by method and status.
func RequestMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		m.RequestsTotal.WithLabelValues(
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// RequestLogger writes one structured access log line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
