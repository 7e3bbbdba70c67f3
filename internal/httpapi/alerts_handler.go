// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notisblokk/notisblokk/internal/alerts"
)

// AlertsHandler serves deadline alerts.
type AlertsHandler struct {
	service *alerts.Service
}

// NewAlertsHandler creates an AlertsHandler.
func NewAlertsHandler(service *alerts.Service) *AlertsHandler {
	return &AlertsHandler{service: service}
}

// List returns the current alert buckets, most urgent first. An empty
// list means nothing is due within the alert horizon.
func (h *AlertsHandler) List(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		result = []*alerts.Alert{}
	}
	respondData(c, http.StatusOK, result)
}
