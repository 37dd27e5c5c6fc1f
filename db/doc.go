// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the submission audit log.

The server runs against SQLite by default (modernc.org/sqlite, pure Go,
no CGO) and Postgres when DATABASE_TYPE=postgres. The schema and all
queries stick to the syntax both engines accept; $N placeholders work in
lib/pq natively and in modernc's SQLite driver as well.

Audit writes are best-effort: a failed insert is logged and the request
proceeds, since the client-facing outcome never depends on the log.
*/
package db
