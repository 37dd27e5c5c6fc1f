// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides shared test helpers.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/db"
)

// SetupTestDB opens a throwaway SQLite database with the schema applied.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.CreateSchema(sqlDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return sqlDB
}

// SetupTestStore returns a Store backed by a throwaway SQLite database.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t))
}

// GetTestConfig returns a config suitable for handler tests.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           5000,
		WebhookURL:     "https://n8n.example.com/webhook/test",
		WebhookAuthKey: "test-key",
		WebhookTimeout: 12 * time.Second,
		DatabaseURL:    "file::memory:",
		DatabaseType:   "sqlite",
		CSRFSecret:     "test-csrf-secret",
	}
}

// MakeRequest builds a request with an optional JSON body.
func MakeRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// AssertStatus fails the test if the recorded status differs.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("Expected status %d, got %d: %s", expected, rr.Code, rr.Body.String())
	}
}

// AssertJSON decodes the recorded body into v, failing on error.
func AssertJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
