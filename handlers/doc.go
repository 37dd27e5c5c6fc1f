// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP endpoints.

# Submission flow

POST /api/n8n-webhook drives the whole lifecycle: parse and sanitize the
body, drop honeypot traffic with a decoy success, broadcast progress over
the WebSocket hub (starting, data_prepared, sending, receiving), forward
the payload to the webhook, then broadcast exactly one terminal event
(success, warning, format_error, timeout, processing_error or error) and
answer the HTTP request accordingly. Outcomes land in the submission
audit log.

The webhook call runs on a background context: a client that navigates
away mid-submission does not cancel the workflow.

# Other endpoints

  - GET /api/csrf-token: issues a stateless CSRF token
  - GET /health: liveness plus a database ping
*/
package handlers
