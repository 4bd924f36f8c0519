package sampling

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func newSource(seed uint64) rand.Source { return rand.NewPCG(seed, seed+1) }

func TestUniformDescending(t *testing.T) {
	out := UniformDescending(newSource(1), 2, 10, 500)
	assert.Len(t, out, 500)
	assert.True(t, sort.IsSorted(sort.Reverse(sort.Float64Slice(out))))
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 2.0)
		assert.LessOrEqual(t, v, 10.0)
	}
}

func TestUniformDescending_DegenerateRange(t *testing.T) {
	out := UniformDescending(newSource(1), 100, 100, 10)
	assert.Equal(t, Constant(100, 10), out)
}

func TestTruncatedNormal_Bounds(t *testing.T) {
	out := TruncatedNormal(newSource(2), 0.9, 0.02, 0, 1, 5000)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.InDelta(t, 0.9, stat.Mean(out, nil), 0.002)
}

func TestTruncatedNormal_ZeroSD(t *testing.T) {
	assert.Equal(t, Constant(0.3, 4), TruncatedNormal(newSource(3), 0.3, 0, 0, 1, 4))
}

func TestTruncatedNormal_RightTail(t *testing.T) {
	// interval lies entirely above the mean
	out := TruncatedNormal(newSource(4), 0, 1, 3, 4, 1000)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 3.0)
		assert.LessOrEqual(t, v, 4.0)
	}
}

func TestTruncatedNormalUpper(t *testing.T) {
	upper := []float64{1, 5, 0, 20}
	out := TruncatedNormalUpper(newSource(5), 2, 1, 0, upper)
	for i, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, upper[i])
	}
}

func TestTruncatedNormal_Deterministic(t *testing.T) {
	a := TruncatedNormal(newSource(9), 0.5, 0.2, 0, 1, 100)
	b := TruncatedNormal(newSource(9), 0.5, 0.2, 0, 1, 100)
	assert.Equal(t, a, b)
}
