// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ailink-app/diagnostico/auth"
)

// CSRFHeader carries the token issued by GET /api/csrf-token.
const CSRFHeader = "X-CSRF-Token"

// WithCSRF rejects state-changing requests that lack a valid CSRF token.
// Safe methods and exempt paths pass through untouched.
func WithCSRF(next http.Handler, secret string, exempt map[string]struct{}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(CSRFHeader)
		if err := auth.ValidateCSRFToken(token, secret); err != nil {
			slog.Warn("CSRF validation failed", "path", r.URL.Path, "error", err)
			JSONResponse(w, http.StatusForbidden, map[string]string{
				"error": "Solicitud no válida (CSRF)",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
