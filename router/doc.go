// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers, middleware and rate limit policies into
the HTTP routing table.

# Routes

  - GET  /               service identity
  - GET  /health         liveness and database check
  - GET  /api/csrf-token CSRF token issuance
  - POST /api/n8n-webhook diagnostic form submission
  - GET  /ws             WebSocket status channel

All routes except /ws pass through logging, CORS and the general rate
limiter (100 requests / 15 min per IP); submissions additionally pass a
tighter limiter (10 / 5 min). CSRF validation wraps the whole mux, with
the submission endpoint exempt.
*/
package router
