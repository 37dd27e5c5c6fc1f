// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package webhook posts submission payloads to the configured n8n webhook
and classifies the response.

Every request carries Content-Type and Accept application/json, a fixed
User-Agent, and the shared key in X-Webhook-Token. Responses are read with
a size cap and classified as JSON or raw text; the caller maps that shape,
together with the status code, onto the submission outcome.

A deadline miss surfaces as an error wrapping ErrTimeout so callers can
distinguish it from other transport failures with errors.Is.
*/
package webhook
