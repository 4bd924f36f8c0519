package process

import (
	"math/rand/v2"
	"sort"
	"testing"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"
	"gotreat/internal/bayes"
	"gotreat/internal/sampling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimator(t *testing.T) *bayes.Estimator {
	t.Helper()
	est, err := bayes.NewEstimator(bayes.DefaultResolution, bayes.DefaultPriorPower)
	require.NoError(t, err)
	return est
}

func ascendingInput(n int) []float64 {
	in := sampling.UniformDescending(rand.NewPCG(3, 4), 10, 100, n)
	sort.Float64s(in)
	return in
}

func TestApplyGeneric_LengthAndBounds(t *testing.T) {
	in := ascendingInput(500)
	res, err := ApplyGeneric(rand.NewPCG(1, 1), in, catalog.RemovalPercent{60, 70, 80}, nil, estimator(t))
	require.NoError(t, err)

	assert.Equal(t, process.Generic, res.Type)
	require.Len(t, res.Output, len(in))
	require.Len(t, res.RemovalFactors, len(in))
	for i, out := range res.Output {
		assert.GreaterOrEqual(t, out, 0.0)
		assert.LessOrEqual(t, out, in[i])
	}
	assert.False(t, res.AverageOut)
	assert.True(t, sort.Float64sAreSorted(res.RemovalFactors))
}

func TestApplyGeneric_CaseStudyDominates(t *testing.T) {
	cs := make(catalog.RemovalPercent, 0, 21)
	for i := -10; i <= 10; i++ {
		cs = append(cs, 50+0.1*float64(i))
	}
	res, err := ApplyGeneric(rand.NewPCG(1, 1), ascendingInput(200), nil, cs, estimator(t))
	require.NoError(t, err)
	assert.Equal(t, process.CaseStudy, res.Dominant)
	assert.True(t, res.AverageOut)
}

func TestApplyGeneric_DegenerateSamples(t *testing.T) {
	_, err := ApplyGeneric(rand.NewPCG(1, 1), ascendingInput(10), catalog.RemovalPercent{0.1}, nil, estimator(t))
	assert.ErrorIs(t, err, core.ErrDegenerateLikelihood)
}

func TestApplyMixture_DeterministicWithoutSpread(t *testing.T) {
	in := []float64{10, 20, 40}
	m := catalog.Mixture{X2Mean: 0.5, C2Mean: 2}
	res, err := ApplyMixture(rand.NewPCG(1, 1), in, m)
	require.NoError(t, err)

	assert.Equal(t, process.Mixture, res.Type)
	assert.Equal(t, process.CaseStudy, res.Dominant)
	assert.True(t, res.AverageOut)
	assert.InDeltaSlice(t, []float64{6, 11, 21}, res.Output, 1e-12)
	assert.InDeltaSlice(t, []float64{40, 45, 47.5}, res.RemovalFactors, 1e-12)
}

func TestApplyMixture_RandomFractionStaysInRange(t *testing.T) {
	in := ascendingInput(1000)
	m := catalog.Mixture{X2Mean: 0.5, X2SD: 0.3, C2Mean: 1, C2SD: 0.5}
	res, err := ApplyMixture(rand.NewPCG(5, 6), in, m)
	require.NoError(t, err)
	for i, out := range res.Output {
		// out is a convex combination of in and a non-negative c2
		assert.GreaterOrEqual(t, out, 0.0)
		assert.LessOrEqual(t, out, in[i]+1+100*0.5)
	}
}

func TestApplyMixture_InvalidMixture(t *testing.T) {
	_, err := ApplyMixture(rand.NewPCG(1, 1), []float64{1}, catalog.Mixture{X2Mean: 2})
	assert.True(t, core.IsConfigurationError(err))
}

func TestApplySeparation_Deterministic(t *testing.T) {
	in := []float64{10, 20}
	m := catalog.Mixture{X2Mean: 0.5, C2Mean: 5}
	res, err := ApplySeparation(rand.NewPCG(1, 1), in, m)
	require.NoError(t, err)

	assert.Equal(t, process.Mixture, res.Type)
	assert.True(t, res.AverageOut)
	assert.InDeltaSlice(t, []float64{15, 35}, res.Output, 1e-12)
	assert.InDeltaSlice(t, []float64{-50, -75}, res.RemovalFactors, 1e-12)
}

func TestApplySeparation_SideStreamBoundedByInput(t *testing.T) {
	in := ascendingInput(1000)
	m := catalog.Mixture{X2Mean: 0.3, X2SD: 0.05, C2Mean: 50, C2SD: 30}
	res, err := ApplySeparation(rand.NewPCG(9, 9), in, m)
	require.NoError(t, err)
	for i, out := range res.Output {
		// c2 <= in implies out >= in
		assert.GreaterOrEqual(t, out, in[i]-1e-9)
	}
}

func TestApplySeparation_FractionAtOne(t *testing.T) {
	_, err := ApplySeparation(rand.NewPCG(1, 1), []float64{1}, catalog.Mixture{X2Mean: 1, C2Mean: 0.5})
	assert.ErrorIs(t, err, core.ErrFractionAtOne)
}

func TestApplySeparationSludge_ConcentratesIntoSludge(t *testing.T) {
	in := ascendingInput(500)
	res, err := ApplySeparationSludge(rand.NewPCG(2, 2), in, catalog.RemovalPercent{85, 90, 95}, nil, estimator(t), DefaultSludgeOptions())
	require.NoError(t, err)

	assert.Equal(t, process.SeparationSludge, res.Type)
	require.Len(t, res.Output, len(in))
	assert.False(t, res.AverageOut)
	for i, out := range res.Output {
		// effluent below input means the sludge is enriched
		assert.GreaterOrEqual(t, out, in[i])
		assert.Less(t, res.RemovalFactors[i], 0.0+1e-9)
	}
}

func TestApplySeparationSludge_FixedEfficiencyOfOne(t *testing.T) {
	_, err := ApplySeparationSludge(rand.NewPCG(1, 1), []float64{1}, nil, nil, estimator(t), SludgeOptions{XEffMean: 1})
	assert.ErrorIs(t, err, core.ErrFractionAtOne)
}

func TestRemovalFactors_ZeroInput(t *testing.T) {
	assert.Equal(t, []float64{0, 50}, removalFactors([]float64{0, 2}, []float64{0, 1}))
}
