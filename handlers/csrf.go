// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ailink-app/diagnostico/auth"
	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/middleware"
	"github.com/ailink-app/diagnostico/models"
)

// CSRFHandler issues stateless CSRF tokens.
type CSRFHandler struct {
	cfg cliparse.Config
}

func NewCSRFHandler(cfg cliparse.Config) *CSRFHandler {
	return &CSRFHandler{cfg: cfg}
}

// Token handles GET /api/csrf-token.
func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := auth.GenerateCSRFToken(h.cfg.CSRFSecret)
	if err != nil {
		slog.Error("Failed to generate CSRF token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al generar el token")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CSRFTokenResponse{CSRFToken: token})
}
