// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/accounts"
	"github.com/notisblokk/notisblokk/internal/alerts"
	"github.com/notisblokk/notisblokk/internal/auth"
	"github.com/notisblokk/notisblokk/internal/notes"
	"github.com/notisblokk/notisblokk/internal/observability"
)

// RouterConfig carries the services the router exposes. Metrics and
// Logger are optional.
type RouterConfig struct {
	Gateway  *auth.Service
	Accounts *accounts.Service
	Notes    *notes.Service
	Alerts   *alerts.Service
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Gateway == nil {
		return nil, oops.Code("ROUTER_INVALID").Errorf("auth gateway is required")
	}
	if cfg.Accounts == nil {
		return nil, oops.Code("ROUTER_INVALID").Errorf("accounts service is required")
	}
	if cfg.Notes == nil {
		return nil, oops.Code("ROUTER_INVALID").Errorf("notes service is required")
	}
	if cfg.Alerts == nil {
		return nil, oops.Code("ROUTER_INVALID").Errorf("alerts service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(RequestMetrics(cfg.Metrics))
	}

	authHandler := NewAuthHandler(cfg.Gateway, cfg.Metrics)
	accountsHandler := NewAccountsHandler(cfg.Accounts)
	notesHandler := NewNotesHandler(cfg.Notes)
	alertsHandler := NewAlertsHandler(cfg.Alerts)

	api := r.Group("/api")

	// Unauthenticated: registration, login, and logout. Logout stays open
	// so a client with a dead session can still clear its cookie.
	api.POST("/accounts", accountsHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/verify", authHandler.Verify)

	protected := api.Group("")
	protected.Use(RequireSession(cfg.Gateway))

	protected.GET("/accounts", accountsHandler.List)
	protected.GET("/accounts/:id", accountsHandler.Get)
	protected.PUT("/accounts/:id", accountsHandler.UpdateProfile)
	protected.PUT("/accounts/:id/password", accountsHandler.ChangePassword)
	protected.DELETE("/accounts/:id", accountsHandler.Deactivate)

	protected.POST("/tags", notesHandler.CreateTag)
	protected.GET("/tags", notesHandler.ListTags)
	protected.GET("/tags/:id", notesHandler.GetTag)
	protected.PUT("/tags/:id", notesHandler.RenameTag)
	protected.DELETE("/tags/:id", notesHandler.DeleteTag)

	protected.POST("/statuses", notesHandler.CreateStatus)
	protected.GET("/statuses", notesHandler.ListStatuses)
	protected.GET("/statuses/:id", notesHandler.GetStatus)
	protected.PUT("/statuses/:id", notesHandler.UpdateStatus)
	protected.DELETE("/statuses/:id", notesHandler.DeleteStatus)

	protected.POST("/notes", notesHandler.CreateNote)
	protected.GET("/notes", notesHandler.ListNotes)
	protected.GET("/notes/tag/:id", notesHandler.ListNotesByTag)
	protected.GET("/notes/:id", notesHandler.GetNote)
	protected.PUT("/notes/:id", notesHandler.UpdateNote)
	protected.DELETE("/notes/:id", notesHandler.DeleteNote)

	protected.GET("/alerts", alertsHandler.List)

	return r, nil
}
