// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and wire types for the diagnostic API.

# Status Lifecycle

Every non-bot submission broadcasts webhook_status frames in a fixed order:

	starting → data_prepared → sending → receiving? → terminal

where the terminal status is exactly one of success, warning, format_error,
timeout, processing_error, or error. Transient statuses appear at most once.

# WebSocket Envelope

All frames share the WSMessage envelope. The type field discriminates:

	connection     - welcome frame, sent once per connection
	webhook_status - submission progress, carries status/requestId/userSessionId
	heartbeat      - keepalive, no status field, ignored by consumers
	ping / pong    - liveness probe (client sends ping, server answers pong)

Timestamps are RFC 3339 UTC strings, matching what browsers produce with
new Date().toISOString().
*/
package models
