// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ailink-app/diagnostico/models"
)

// Store is the submission audit log. It records the outcome of every
// submission; it is never on the hot path for a response.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordSubmission inserts one audit row.
func (s *Store) RecordSubmission(ctx context.Context, sub models.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (request_id, user_session_id, correo, status, http_status, duration_ms, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.RequestID, sub.UserSessionID, sub.Correo, sub.Status, sub.HTTPStatus, sub.DurationMs, sub.Error,
	)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// RecentSubmissions returns the newest rows, up to limit.
func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, user_session_id, correo, status, http_status, duration_ms, error, created_at
		FROM submissions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		var sessionID, correo, errMsg sql.NullString
		if err := rows.Scan(&sub.RequestID, &sessionID, &correo, &sub.Status, &sub.HTTPStatus, &sub.DurationMs, &errMsg, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.UserSessionID = sessionID.String
		sub.Correo = correo.String
		sub.Error = errMsg.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
