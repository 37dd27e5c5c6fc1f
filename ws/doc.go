// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ws implements the WebSocket status channel.

# Model

A single Hub holds every connected client. Each client gets a buffered
send channel and a dedicated write goroutine; Broadcast marshals a message
once and fans it out non-blocking, dropping frames for clients that cannot
keep up. Status events carry a userSessionId so clients can filter for
their own submission; the hub itself does not route.

# Protocol

All frames are JSON envelopes with a "type" field:

  - connection: sent by the server immediately after the upgrade
  - webhook_status: submission lifecycle events
  - heartbeat: periodic keep-alive from RunHeartbeat
  - ping / pong: client-initiated liveness check

Unknown inbound frame types are ignored.
*/
package ws
