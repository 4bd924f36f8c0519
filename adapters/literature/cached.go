package literature

import (
	"context"
	"sync"

	"gotreat/domain/catalog"
	"gotreat/ports"
)

type referenceHit struct {
	ref     *catalog.Reference
	matches int
}

// CachedRepository memoises lookups of another repository. Errors are not
// cached. Safe for concurrent use; returned slices are copies.
type CachedRepository struct {
	next ports.LiteratureRepository

	mu             sync.RWMutex
	concentrations map[string][]float64
	removals       map[string]catalog.RemovalPercent
	references     map[string]referenceHit
}

var _ ports.LiteratureRepository = (*CachedRepository)(nil)

// NewCachedRepository wraps next.
func NewCachedRepository(next ports.LiteratureRepository) *CachedRepository {
	return &CachedRepository{
		next:           next,
		concentrations: make(map[string][]float64),
		removals:       make(map[string]catalog.RemovalPercent),
		references:     make(map[string]referenceHit),
	}
}

func cacheKey(a, b string) string { return a + "\x00" + b }

func (c *CachedRepository) StartingConcentrations(ctx context.Context, substanceID, matrixID string) ([]float64, error) {
	key := cacheKey(substanceID, matrixID)
	c.mu.RLock()
	v, ok := c.concentrations[key]
	c.mu.RUnlock()
	if ok {
		return append([]float64(nil), v...), nil
	}

	v, err := c.next.StartingConcentrations(ctx, substanceID, matrixID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.concentrations[key] = v
	c.mu.Unlock()
	return append([]float64(nil), v...), nil
}

func (c *CachedRepository) RemovalPercents(ctx context.Context, treatmentID, substanceID string) (catalog.RemovalPercent, error) {
	key := cacheKey(treatmentID, substanceID)
	c.mu.RLock()
	v, ok := c.removals[key]
	c.mu.RUnlock()
	if ok {
		return v.Clone(), nil
	}

	v, err := c.next.RemovalPercents(ctx, treatmentID, substanceID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.removals[key] = v
	c.mu.Unlock()
	return v.Clone(), nil
}

func (c *CachedRepository) Reference(ctx context.Context, matrixID, substanceID string) (*catalog.Reference, int, error) {
	key := cacheKey(matrixID, substanceID)
	c.mu.RLock()
	hit, ok := c.references[key]
	c.mu.RUnlock()
	if !ok {
		ref, n, err := c.next.Reference(ctx, matrixID, substanceID)
		if err != nil {
			return nil, 0, err
		}
		hit = referenceHit{ref: ref, matches: n}
		c.mu.Lock()
		c.references[key] = hit
		c.mu.Unlock()
	}
	if hit.ref == nil {
		return nil, hit.matches, nil
	}
	ref := *hit.ref
	return &ref, hit.matches, nil
}
