// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

Flags take precedence over environment variables. A .env file, if present,
is loaded by main before parsing.

Required settings (startup fails without them):

  - N8N_WEBHOOK_URL (-webhook-url): outbound webhook target
  - N8N_WEBHOOK_AUTH_KEY (-webhook-key): value for the auth header
  - CSRF_TOKEN_SECRET (-csrf-secret): secret for CSRF token HMAC

Optional settings:

  - PORT (-p): server port (default 5000)
  - DATABASE_URL (-d): submission log DSN (default file:diagnostico.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - N8N_WEBHOOK_TIMEOUT (-webhook-timeout): outbound timeout (default 12s)
*/
package cliparse
