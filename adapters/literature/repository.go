package literature

import (
	"context"
	"math"

	"gotreat/domain/catalog"
	"gotreat/ports"
)

// Repository answers literature lookups from in-memory tables.
type Repository struct {
	tables *Tables
}

var _ ports.LiteratureRepository = (*Repository)(nil)

// NewRepository wraps parsed tables.
func NewRepository(t *Tables) *Repository {
	return &Repository{tables: t}
}

// NewEmbeddedRepository loads the default data set.
func NewEmbeddedRepository() (*Repository, error) {
	t, err := LoadFS(Embedded())
	if err != nil {
		return nil, err
	}
	return NewRepository(t), nil
}

// Tables returns the underlying tables.
func (r *Repository) Tables() *Tables { return r.tables }

// StartingConcentrations returns all minimum, then point, then maximum
// values of the matching rows, skipping missing cells.
func (r *Repository) StartingConcentrations(ctx context.Context, substanceID, matrixID string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var mins, points, maxes []float64
	for _, row := range r.tables.Concentrations {
		if row.SubstanceID != substanceID || row.MatrixID != matrixID {
			continue
		}
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
func (r *Repository) RemovalPercents(ctx context.Context, treatmentID, substanceID string) (catalog.RemovalPercent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out catalog.RemovalPercent
	for _, row := range r.tables.Removals {
		if row.SubstanceID == substanceID && row.TreatmentID == treatmentID {
			out = append(out, math.RoundToEven(row.RemovalPercent))
		}
	}
	return out, nil
}

// Reference returns the first matching reference and the number of matches.
func (r *Repository) Reference(ctx context.Context, matrixID, substanceID string) (*catalog.Reference, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var first *catalog.Reference
	n := 0
	for _, row := range r.tables.References {
		if row.SubstanceID != substanceID || row.MatrixID != matrixID {
			continue
		}
		if first == nil {
			ref := row.ToReference()
			first = &ref
		}
		n++
	}
	return first, n, nil
}

// ToReference converts the row into a catalog reference. A missing year is
// reported as -1.
func (row ReferenceRow) ToReference() catalog.Reference {
	year := -1
	if row.Year != nil {
		year = *row.Year
	}
	return catalog.Reference{ID: row.ReferenceID, ValueNgL: row.ValueNgL, Year: year, Comments: row.Comments}
}
