// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ailink-app/diagnostico/auth"
)

func TestWithCSRF(t *testing.T) {
	secret := "test-csrf-secret"
	exempt := map[string]struct{}{"/api/n8n-webhook": {}}

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := WithCSRF(okHandler, secret, exempt)

	t.Run("GET passes without token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/csrf-token", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("exempt POST passes without token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/n8n-webhook", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 for exempt path, got %d", rr.Code)
		}
	})

	t.Run("POST without token rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/other", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", rr.Code)
		}
	})

	t.Run("POST with valid token passes", func(t *testing.T) {
		token, err := auth.GenerateCSRFToken(secret)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest("POST", "/api/other", nil)
		req.Header.Set(CSRFHeader, token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 with valid token, got %d", rr.Code)
		}
	})

	t.Run("POST with forged token rejected", func(t *testing.T) {
		token, err := auth.GenerateCSRFToken("other-secret")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest("POST", "/api/other", nil)
		req.Header.Set(CSRFHeader, token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for forged token, got %d", rr.Code)
		}
	})
}
