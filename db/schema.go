// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "database/sql"

// Schema uses the common subset of SQLite and Postgres syntax; the same
// statements run against either driver.
const Schema = `
CREATE TABLE IF NOT EXISTS submissions (
    request_id      TEXT PRIMARY KEY,
    user_session_id TEXT,
    correo          TEXT,
    status          TEXT NOT NULL,
    http_status     INTEGER,
    duration_ms     INTEGER,
    error           TEXT,
    created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

// CreateSchema initializes the database tables and indexes.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
