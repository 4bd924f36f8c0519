package postgres

import (
	"context"
	"fmt"
	"math"

	"gotreat/adapters/literature"
	"gotreat/domain/catalog"
	"gotreat/internal/migration"
	"gotreat/ports"

	"github.com/jmoiron/sqlx"
)

// LiteratureRepository serves the literature tables from a SQL database.
// Queries use $n placeholders and run against PostgreSQL or SQLite.
type LiteratureRepository struct {
	db *sqlx.DB
}

var _ ports.LiteratureRepository = (*LiteratureRepository)(nil)

// NewLiteratureRepository creates a new literature repository
func NewLiteratureRepository(db *sqlx.DB) *LiteratureRepository {
	return &LiteratureRepository{db: db}
}

// StartingConcentrations returns all minimum, then point, then maximum
// values of the matching rows.
func (r *LiteratureRepository) StartingConcentrations(ctx context.Context, substanceID, matrixID string) ([]float64, error) {
	query := `SELECT substance_id, matrix_id, min_value_ng_l, point_value_ng_l, max_value_ng_l, source
		FROM literature_starting_concentrations
		WHERE substance_id = $1 AND matrix_id = $2
		ORDER BY row_no`

	var rows []literature.ConcentrationRow
	if err := r.db.SelectContext(ctx, &rows, query, substanceID, matrixID); err != nil {
		return nil, fmt.Errorf("failed to get starting concentrations: %w", err)
	}

	var mins, points, maxes []float64
	for _, row := range rows {
		if row.Min != nil {
			mins = append(mins, *row.Min)
		}
		if row.Point != nil {
			points = append(points, *row.Point)
		}
		if row.Max != nil {
			maxes = append(maxes, *row.Max)
		}
	}
	return append(append(mins, points...), maxes...), nil
}

// RemovalPercents returns the matching removal percentages rounded half to
// even.
func (r *LiteratureRepository) RemovalPercents(ctx context.Context, treatmentID, substanceID string) (catalog.RemovalPercent, error) {
	query := `SELECT removal_percent FROM literature_removals
		WHERE treatment_id = $1 AND substance_id = $2
		ORDER BY row_no`

	var values []float64
	if err := r.db.SelectContext(ctx, &values, query, treatmentID, substanceID); err != nil {
		return nil, fmt.Errorf("failed to get removal percents: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	out := make(catalog.RemovalPercent, len(values))
	for i, v := range values {
		out[i] = math.RoundToEven(v)
	}
	return out, nil
}

// Reference returns the first matching reference and the number of matches.
func (r *LiteratureRepository) Reference(ctx context.Context, matrixID, substanceID string) (*catalog.Reference, int, error) {
	query := `SELECT substance_id, matrix_id, reference_value_ng_l, reference_id, year, comments
		FROM literature_references
		WHERE matrix_id = $1 AND substance_id = $2
		ORDER BY row_no`

	var rows []literature.ReferenceRow
	if err := r.db.SelectContext(ctx, &rows, query, matrixID, substanceID); err != nil {
		return nil, 0, fmt.Errorf("failed to get reference: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	ref := rows[0].ToReference()
	return &ref, len(rows), nil
}

// Import replaces the stored tables with t in a single transaction.
func (r *LiteratureRepository) Import(ctx context.Context, t *literature.Tables) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range migration.Tables() {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, row := range t.Concentrations {
		_, err := tx.ExecContext(ctx, `INSERT INTO literature_starting_concentrations (
			row_no, substance_id, matrix_id, min_value_ng_l, point_value_ng_l, max_value_ng_l, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i, row.SubstanceID, row.MatrixID, row.Min, row.Point, row.Max, row.Source)
		if err != nil {
			return fmt.Errorf("failed to insert starting concentration %d: %w", i, err)
		}
	}
	for i, row := range t.Removals {
		_, err := tx.ExecContext(ctx, `INSERT INTO literature_removals (
			row_no, substance_id, treatment_id, removal_percent, source
		) VALUES ($1, $2, $3, $4, $5)`,
			i, row.SubstanceID, row.TreatmentID, row.RemovalPercent, row.Source)
		if err != nil {
			return fmt.Errorf("failed to insert removal %d: %w", i, err)
		}
	}
	for i, row := range t.References {
		_, err := tx.ExecContext(ctx, `INSERT INTO literature_references (
			row_no, substance_id, matrix_id, reference_value_ng_l, reference_id, year, comments
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i, row.SubstanceID, row.MatrixID, row.ValueNgL, row.ReferenceID, row.Year, row.Comments)
		if err != nil {
			return fmt.Errorf("failed to insert reference %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Counts returns the number of rows per literature table.
func (r *LiteratureRepository) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, 3)
	for _, table := range migration.Tables() {
		var n int
		if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}
