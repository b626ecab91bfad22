package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Each event table carries the shared columns: a unique global sequence and
// a UTC timestamp in unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submission_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		draft_id      TEXT    NOT NULL,
		astrologer    TEXT    NOT NULL,
		ad_result     TEXT    NOT NULL,
		ad_error      TEXT    NOT NULL DEFAULT '',
		outcome       TEXT    NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		latency_ms    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS submission_events_draft_id ON submission_events (draft_id)`,
	`CREATE INDEX IF NOT EXISTS submission_events_timestamp ON submission_events (timestamp)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_events_purpose ON llm_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS llm_events_model ON llm_events (model)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
