package ports

import (
	"context"

	"gotreat/domain/simulation"
)

// ResultExporter writes a simulation result to a file.
type ResultExporter interface {
	Export(ctx context.Context, result *simulation.Result, path string) error
	// Extension is the file suffix, including the dot.
	Extension() string
}
