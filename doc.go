// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Diagnostico is the backend for a multi-step lead-generation diagnostic
form. It receives submissions, forwards them to an n8n webhook, and
streams per-submission progress to browsers over WebSocket.

# Architecture

  - handlers: HTTP endpoints (submission, CSRF token, health)
  - webhook: outbound client for the n8n workflow
  - ws: WebSocket hub broadcasting lifecycle events
  - middleware: logging, CORS, rate limiting, CSRF enforcement
  - db: submission audit log (SQLite or Postgres)
  - cliparse: flag and environment configuration
  - auth: token generation and IP hashing
  - models: wire types shared across packages

# Running

	N8N_WEBHOOK_URL=https://... N8N_WEBHOOK_AUTH_KEY=... CSRF_TOKEN_SECRET=... go run .

The server listens on PORT (default 5000).
*/
package main
