package database

import (
	"context"

	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS examination_types (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id                  TEXT PRIMARY KEY,
		examination_type_id TEXT NOT NULL REFERENCES examination_types(id),
		start_date_time     TIMESTAMPTZ NOT NULL,
		duration_minutes    INTEGER NOT NULL CHECK (duration_minutes >= 0),
		booking_id          TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_slots_available
		ON time_slots (examination_type_id, start_date_time)
		WHERE booking_id IS NULL`,
}

// EnsureSchema creates the scheduling tables if they are missing
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to apply schema", err)
		}
	}
	return nil
}
