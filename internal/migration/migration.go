package migration

import (
	"context"
	"fmt"

	"gotreat/internal"
	"gotreat/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the literature schema. The statements are kept to
// the subset of SQL shared by PostgreSQL and SQLite.
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		logger:  internal.DefaultLogger.With("migration"),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createStartingConcentrationsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create literature_starting_concentrations table")
	}

	if err := r.createRemovalsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create literature_removals table")
	}

	if err := r.createReferencesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create literature_references table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	r.logger.Info("schema version %s applied", r.version)
	return nil
}

func (r *MigrationRunner) createStartingConcentrationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS literature_starting_concentrations (
			row_no INTEGER NOT NULL,
			substance_id VARCHAR(32) NOT NULL,
			matrix_id VARCHAR(8) NOT NULL,
			min_value_ng_l DOUBLE PRECISION,
			point_value_ng_l DOUBLE PRECISION,
			max_value_ng_l DOUBLE PRECISION,
			source TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createRemovalsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS literature_removals (
			row_no INTEGER NOT NULL,
			substance_id VARCHAR(32) NOT NULL,
			treatment_id VARCHAR(8) NOT NULL,
			removal_percent DOUBLE PRECISION NOT NULL,
			source TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createReferencesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS literature_references (
			row_no INTEGER NOT NULL,
			substance_id VARCHAR(32) NOT NULL,
			matrix_id VARCHAR(8) NOT NULL,
			reference_value_ng_l DOUBLE PRECISION NOT NULL,
			reference_id TEXT NOT NULL,
			year INTEGER,
			comments TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_lit_conc_key ON literature_starting_concentrations(substance_id, matrix_id)",
		"CREATE INDEX IF NOT EXISTS idx_lit_rmv_key ON literature_removals(treatment_id, substance_id)",
		"CREATE INDEX IF NOT EXISTS idx_lit_ref_key ON literature_references(matrix_id, substance_id)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			r.logger.Warn("failed to create index: %v", err)
		}
	}

	return nil
}

// Tables lists the tables managed by the runner.
func Tables() []string {
	return []string{"literature_starting_concentrations", "literature_removals", "literature_references"}
}

// Drop removes all managed tables.
func (r *MigrationRunner) Drop(ctx context.Context, db *sqlx.DB) error {
	for _, t := range Tables() {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", t)); err != nil {
			return errors.Wrapf(err, "failed to drop %s", t)
		}
	}
	return nil
}
