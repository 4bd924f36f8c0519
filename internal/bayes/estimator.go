// Package bayes estimates removal-factor distributions by combining a Beta
// prior with literature and case-study likelihoods on a discrete grid.
package bayes

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultPriorPower places the prior fit points at 1% and 99% removal.
	DefaultPriorPower = 100
	// DefaultResolution is the number of grid intervals over [0, 1].
	DefaultResolution = 1000

	// conservativeAnchor is the pessimistic near-zero removal mixed into
	// every non-empty sample set.
	conservativeAnchor = 0.001
	// dominanceTolerance is in percent units.
	dominanceTolerance = 0.05
	// saturatedMax is the characteristic value of a likelihood without a
	// unique maximum.
	saturatedMax = 100
)

// Estimator holds the grid and prior for one resolution/prior-power pair.
// It is immutable after construction and safe for concurrent use.
type Estimator struct {
	resolution int
	priorPower float64
	grid       []float64
	percent    []float64
	prior      []float64
}

// NewEstimator fits the prior once for the given resolution and power.
func NewEstimator(resolution int, priorPower float64) (*Estimator, error) {
	if resolution < 3 {
		return nil, fmt.Errorf("%w: resolution must be at least 3, got %d", core.ErrInvalidSimulationArg, resolution)
	}
	if priorPower <= 2 {
		return nil, fmt.Errorf("%w: prior power must exceed 2, got %g", core.ErrInvalidSimulationArg, priorPower)
	}
	prior, err := PriorBeta(priorPower, resolution)
	if err != nil {
		return nil, err
	}
	grid := Grid(resolution)
	percent := make([]float64, len(grid))
	for i, x := range grid {
		percent[i] = x * 100
	}
	return &Estimator{
		resolution: resolution,
		priorPower: priorPower,
		grid:       grid,
		percent:    percent,
		prior:      prior,
	}, nil
}

// Resolution returns the grid resolution.
func (e *Estimator) Resolution() int { return e.resolution }

// PriorPower returns the prior power.
func (e *Estimator) PriorPower() float64 { return e.priorPower }

// Prior returns a copy of the normalised prior.
func (e *Estimator) Prior() []float64 { return append([]float64(nil), e.prior...) }

// Likelihood evaluates ToLikelihood on the estimator's grid.
func (e *Estimator) Likelihood(samples catalog.RemovalPercent) ([]float64, error) {
	return likelihoodOnGrid(samples, e.grid)
}

// ToLikelihood turns removal percentages into a normalised Gaussian likelihood
// over Grid(resolution). An empty sample set yields a flat likelihood of ones.
func ToLikelihood(samples catalog.RemovalPercent, resolution int) ([]float64, error) {
	return likelihoodOnGrid(samples, Grid(resolution))
}

func likelihoodOnGrid(samples catalog.RemovalPercent, grid []float64) ([]float64, error) {
	out := make([]float64, len(grid))
	if samples.IsEmpty() {
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}

	fractions := make([]float64, len(samples))
	for i, s := range samples {
		fractions[i] = s / 100
	}
	anchor := stat.Mean(append([]float64{conservativeAnchor}, fractions...), nil)
	data := append([]float64{anchor}, fractions...)
	mean, sd := stat.MeanStdDev(data, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, fmt.Errorf("%w (mean %.4f)", core.ErrDegenerateLikelihood, mean)
	}

	dist := distuv.Normal{Mu: mean, Sigma: sd}
	for i, x := range grid {
		out[i] = dist.Prob(x)
	}
	if floats.Sum(out) == 0 {
		return nil, fmt.Errorf("%w: density vanishes on the grid (mean %.4f, sd %.2g)", core.ErrDegenerateLikelihood, mean, sd)
	}
	return normalize(out), nil
}

// Posterior is a removal-factor distribution on the estimator grid together
// with the ingredients it was built from.
type Posterior struct {
	// Percent holds the grid in percent units.
	Percent       []float64
	Prior         []float64
	Literature    []float64
	CaseStudy     []float64
	Density       []float64
	Dominant      process.DominantDistribution
	LiteratureMax float64
	CaseStudyMax  float64
	PosteriorMax  float64

	maxIdx int
}

// Estimate fuses the prior with literature and case-study likelihoods.
func (e *Estimator) Estimate(lit, cs catalog.RemovalPercent) (*Posterior, error) {
	litLkl, err := e.Likelihood(lit)
	if err != nil {
		return nil, fmt.Errorf("literature likelihood: %w", err)
	}
	csLkl, err := e.Likelihood(cs)
	if err != nil {
		return nil, fmt.Errorf("case study likelihood: %w", err)
	}

	density := make([]float64, len(e.grid))
	floats.MulTo(density, litLkl, csLkl)
	floats.Mul(density, e.prior)
	if floats.Sum(density) == 0 {
		return nil, fmt.Errorf("%w: posterior vanishes on the grid", core.ErrDegenerateLikelihood)
	}
	density = normalize(density)

	maxIdx := floats.MaxIdx(density)
	p := &Posterior{
		Percent:       append([]float64(nil), e.percent...),
		Prior:         append([]float64(nil), e.prior...),
		Literature:    litLkl,
		CaseStudy:     csLkl,
		Density:       density,
		LiteratureMax: e.characteristicMax(litLkl),
		CaseStudyMax:  e.characteristicMax(csLkl),
		PosteriorMax:  e.percent[maxIdx],
		maxIdx:        maxIdx,
	}
	p.Dominant = e.classify(p)
	return p, nil
}

// characteristicMax returns the percent value at the unique maximum of l,
// or saturatedMax when the maximum is shared by several grid points.
func (e *Estimator) characteristicMax(l []float64) float64 {
	idx := floats.MaxIdx(l)
	peak := l[idx]
	ties := 0
	for _, v := range l {
		if v == peak {
			ties++
		}
	}
	if ties > 1 {
		return saturatedMax
	}
	return e.percent[idx]
}

// classify attributes the posterior mode to a data source. A mode on the
// outermost grid points (within 1/resolution of 0 or 100%) is attributed to
// the prior.
func (e *Estimator) classify(p *Posterior) process.DominantDistribution {
	switch {
	case math.Abs(p.CaseStudyMax-p.PosteriorMax) < dominanceTolerance:
		return process.CaseStudy
	case math.Abs(p.LiteratureMax-p.PosteriorMax) < dominanceTolerance:
		return process.Literature
	case p.maxIdx == 0 || p.maxIdx == len(e.grid)-1:
		return process.Prior
	default:
		return process.Combination
	}
}

// Sample draws n removal factors (percent) with replacement from the
// posterior. Unless the case study dominates, the draws are sorted ascending
// so that they pair monotonically with the concentration ensemble; the
// returned flag reports whether the order was left random.
func (p *Posterior) Sample(src rand.Source, n int) ([]float64, bool) {
	cat := distuv.NewCategorical(p.Density, src)
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Percent[int(cat.Rand())]
	}
	if p.Dominant == process.CaseStudy {
		return out, true
	}
	sort.Float64s(out)
	return out, false
}

func normalize(x []float64) []float64 {
	floats.Scale(1/floats.Sum(x), x)
	return x
}
