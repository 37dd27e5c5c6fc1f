// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: structured request logging (method, path, status, size, duration)
  - CORS: permissive CORS headers and preflight handling
  - RateLimiter.Wrap: fixed-window per-IP rate limiting with a 429 JSON body
  - WithCSRF: token validation for state-changing requests, with path exemptions

# Helpers

  - JSONResponse / ErrorResponse: consistent JSON output
  - ParseJSONBody: request body decoding
  - GetClientIP: client IP extraction honoring X-Forwarded-For

Rate limiters log hashed IPs only; raw client addresses never reach the logs.
*/
package middleware
