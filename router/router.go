// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/db"
	"github.com/ailink-app/diagnostico/handlers"
	"github.com/ailink-app/diagnostico/middleware"
	"github.com/ailink-app/diagnostico/webhook"
	"github.com/ailink-app/diagnostico/ws"
)

// Rate limit policies mirror the form's traffic profile: a broad quota
// for the whole API plus a tighter one on submissions.
const (
	generalLimitMax    = 100
	generalLimitWindow = 15 * time.Minute
	generalLimitMsg    = "Demasiadas solicitudes, por favor intenta nuevamente más tarde."

	webhookLimitMax    = 10
	webhookLimitWindow = 5 * time.Minute
	webhookLimitMsg    = "Demasiadas solicitudes al webhook, por favor intenta nuevamente más tarde."
)

// NewRouter wires up all routes with their middleware.
func NewRouter(cfg cliparse.Config, hub *ws.Hub, store *db.Store) http.Handler {
	mux := http.NewServeMux()

	general := middleware.NewRateLimiter(generalLimitMax, generalLimitWindow, generalLimitMsg, cfg.CSRFSecret)
	submission := middleware.NewRateLimiter(webhookLimitMax, webhookLimitWindow, webhookLimitMsg, cfg.CSRFSecret)

	sender := webhook.NewClient(cfg.WebhookURL, cfg.WebhookAuthKey, cfg.WebhookTimeout)
	diagnostic := handlers.NewDiagnosticHandler(cfg, hub, sender, store)
	csrf := handlers.NewCSRFHandler(cfg)
	health := handlers.NewHealthHandler(store)

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(general.Wrap(h))
	}

	mux.HandleFunc("GET /health", wrap(health.Health))
	mux.HandleFunc("GET /api/csrf-token", wrap(csrf.Token))
	mux.HandleFunc("POST /api/n8n-webhook", wrap(submission.Wrap(diagnostic.Submit)))
	mux.HandleFunc("GET /ws", hub.ServeWS)
	mux.HandleFunc("GET /{$}", wrap(func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"service": "diagnostico API",
			"version": "1.0",
		})
	}))

	// Submissions are exempt: the endpoint has its own abuse controls
	// (honeypot plus the tighter rate limit) and must stay reachable for
	// clients that load the form before fetching a token.
	exempt := map[string]struct{}{"/api/n8n-webhook": {}}
	protected := middleware.WithCSRF(mux, cfg.CSRFSecret, exempt)

	// CORS sits outermost so preflights never hit the method-qualified
	// mux patterns, which would 405 them.
	return middleware.CORS(protected.ServeHTTP)
}
