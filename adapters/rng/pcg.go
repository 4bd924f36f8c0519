// Package rng provides the PCG-backed random streams used by simulations.
package rng

import (
	"context"
	"math/rand/v2"

	"gotreat/domain/core"
	"gotreat/ports"
)

// PCGAdapter implements ports.RNGPort with math/rand/v2 PCG generators.
type PCGAdapter struct{}

var _ ports.RNGPort = PCGAdapter{}

// NewPCGAdapter returns an RNG adapter
func NewPCGAdapter() PCGAdapter { return PCGAdapter{} }

// SeededStream creates a deterministic generator for a named operation. The
// name selects the PCG increment so streams of different operations sharing
// a seed do not overlap.
func (PCGAdapter) SeededStream(ctx context.Context, name string, seed uint64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(seed, core.DeriveSeed(seed, name))), nil
}
