package ports

import (
	"context"

	"gotreat/domain/catalog"
)

// LiteratureRepository serves the static literature tables: observed
// starting concentrations, removal percentages and reference values.
// Lookups with no matching rows return empty results, not errors.
type LiteratureRepository interface {
	// StartingConcentrations returns every observed concentration (ng/L) of
	// the substance in the matrix.
	StartingConcentrations(ctx context.Context, substanceID, matrixID string) ([]float64, error)

	// RemovalPercents returns the observed removal percentages of the
	// treatment for the substance, rounded to whole percent.
	RemovalPercents(ctx context.Context, treatmentID, substanceID string) (catalog.RemovalPercent, error)

	// Reference returns the first reference value for the substance in the
	// matrix together with the number of matching rows. A nil reference
	// means no match.
	Reference(ctx context.Context, matrixID, substanceID string) (*catalog.Reference, int, error)
}
