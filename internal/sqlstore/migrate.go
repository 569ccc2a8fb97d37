package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	// TargetSchemaVersion is the schema version this build reads and writes.
	TargetSchemaVersion int64 = 1
	// JournalComponent names the journal tables in tjb_versions.
	JournalComponent = "journal"
)

// SchemaV1 is valid for both SQLite and Postgres.
const SchemaV1 = `
CREATE TABLE IF NOT EXISTS tjb_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    question_kind TEXT NOT NULL,
    option_set TEXT NOT NULL DEFAULT '[]',
    color_label TEXT NOT NULL,
    time_of_day TEXT NOT NULL,
    created_date TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    media_kind TEXT NOT NULL DEFAULT '',
    media_url TEXT NOT NULL DEFAULT '',
    media_size BIGINT NOT NULL DEFAULT 0,
    media_timestamp BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS journal_entries_created_date ON journal_entries (created_date);
`

// Version returns the schema version of the journal tables, or 0 when the
// database has never been initialized.
func (s *Store) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, s.q(`SELECT version FROM tjb_versions WHERE component = ?`), JournalComponent).Scan(&version)
	switch {
	case err == nil:
		return version, nil
	case errors.Is(err, sql.ErrNoRows), missingTable(err):
		return 0, nil
	}
	return 0, fmt.Errorf("failed to read schema version: %w", err)
}

// missingTable matches the "table does not exist" errors of both drivers.
func missingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "tjb_versions") &&
		(strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist"))
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}
	_, err := s.db.ExecContext(ctx, s.q(`
INSERT INTO tjb_versions (component, version) VALUES (?, ?)
ON CONFLICT (component) DO UPDATE SET version = excluded.version`), JournalComponent, TargetSchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to set version for component %s to %d: %w", JournalComponent, TargetSchemaVersion, err)
	}
	return nil
}

// Upgrade brings the schema to TargetSchemaVersion. An uninitialized
// database is created from scratch; a database at any other version is
// rejected.
func (s *Store) Upgrade(ctx context.Context) error {
	current, err := s.Version(ctx)
	if err != nil {
		return err
	}
	switch {
	case current == 0:
		s.logger.Info("initializing journal schema", "version", TargetSchemaVersion)
		if err := s.initialize(ctx); err != nil {
			return fmt.Errorf("failed to initialize component %s: %w", JournalComponent, err)
		}
		return nil
	case current == TargetSchemaVersion:
		s.logger.Debug("journal schema up to date", "version", current)
		return nil
	case current < TargetSchemaVersion:
		return fmt.Errorf("component %s has schema version %d, older than %d; automatic migration is not supported", JournalComponent, current, TargetSchemaVersion)
	default:
		return fmt.Errorf("component %s has schema version %d, newer than %d; please upgrade tjb", JournalComponent, current, TargetSchemaVersion)
	}
}
