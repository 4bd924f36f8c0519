// Package process implements the concentration models applied by a single
// treatment step: the generic removal-factor model, dilution by mixing,
// separation of a side stream and sludge dewatering.
package process

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"
	"gotreat/internal/bayes"
	"gotreat/internal/sampling"
)

const (
	// DefaultXEffMean is the mean dewatering efficiency of sludge separation.
	DefaultXEffMean = 0.9
	// DefaultXEffSD is the standard deviation of the dewatering efficiency.
	DefaultXEffSD = 0.02

	// mixtureUpperSDs bounds the admixed concentration at mean + 100 sd.
	mixtureUpperSDs = 100
)

// maxFraction is the largest fraction below one. Random fractions landing on
// exactly one are pulled down to it before dividing by 1 - x.
var maxFraction = math.Nextafter(1, 0)

// SludgeOptions parameterises ApplySeparationSludge.
type SludgeOptions struct {
	XEffMean float64
	XEffSD   float64
}

// DefaultSludgeOptions returns the dewatering efficiency used when a
// scenario does not override it.
func DefaultSludgeOptions() SludgeOptions {
	return SludgeOptions{XEffMean: DefaultXEffMean, XEffSD: DefaultXEffSD}
}

// ApplyGeneric reduces input by removal factors drawn from the posterior of
// literature and case-study removals. The draws are sorted ascending unless
// the case study dominates, pairing the largest removals with the largest
// inputs only when input is ordered that way by the caller.
func ApplyGeneric(src rand.Source, input []float64, lit, cs catalog.RemovalPercent, est *bayes.Estimator) (process.Result, error) {
	posterior, err := est.Estimate(lit, cs)
	if err != nil {
		return process.Result{}, err
	}
	rmv, averageOut := posterior.Sample(src, len(input))

	out := make([]float64, len(input))
	for i, c := range input {
		out[i] = c * (1 - rmv[i]/100)
	}
	return process.Result{
		Type:           process.Generic,
		Output:         out,
		RemovalFactors: rmv,
		Dominant:       posterior.Dominant,
		AverageOut:     averageOut,
	}, nil
}

// ApplyMixture blends input with a second stream of concentration c2 at
// volume fraction x2: out = in*(1-x2) + c2*x2.
func ApplyMixture(src rand.Source, input []float64, m catalog.Mixture) (process.Result, error) {
	if err := m.Validate(); err != nil {
		return process.Result{}, err
	}
	n := len(input)
	x2 := sampling.TruncatedNormal(src, m.X2Mean, m.X2SD, 0, 1, n)
	c2 := sampling.TruncatedNormal(src, m.C2Mean, m.C2SD, 0, m.C2Mean+mixtureUpperSDs*m.C2SD, n)

	out := make([]float64, n)
	for i, c := range input {
		out[i] = c*(1-x2[i]) + c2[i]*x2[i]
	}
	return process.Result{
		Type:           process.Mixture,
		Output:         out,
		RemovalFactors: removalFactors(input, out),
		Dominant:       process.CaseStudy,
		AverageOut:     true,
	}, nil
}

// ApplySeparation withdraws a side stream of concentration c2 at volume
// fraction x2 and returns the remaining stream: out = (in - c2*x2)/(1-x2).
// The side-stream concentration never exceeds the sample's input.
func ApplySeparation(src rand.Source, input []float64, m catalog.Mixture) (process.Result, error) {
	if err := m.Validate(); err != nil {
		return process.Result{}, err
	}
	if m.X2SD == 0 && m.X2Mean >= 1 {
		return process.Result{}, fmt.Errorf("%w: separated fraction %g", core.ErrFractionAtOne, m.X2Mean)
	}
	n := len(input)
	x2 := sampling.TruncatedNormal(src, m.X2Mean, m.X2SD, 0, 1, n)
	c2 := sampling.TruncatedNormalUpper(src, m.C2Mean, m.C2SD, 0, input)

	out := make([]float64, n)
	for i, c := range input {
		x := math.Min(x2[i], maxFraction)
		out[i] = (c - c2[i]*x) / (1 - x)
	}
	return process.Result{
		Type:           process.Mixture,
		Output:         out,
		RemovalFactors: removalFactors(input, out),
		Dominant:       process.CaseStudy,
		AverageOut:     true,
	}, nil
}

// ApplySeparationSludge concentrates the substance into dewatered sludge.
// The effluent concentration comes from the generic model and the dewatering
// efficiency x_eff from a truncated normal, sorted ascending.
func ApplySeparationSludge(src rand.Source, input []float64, lit, cs catalog.RemovalPercent, est *bayes.Estimator, opts SludgeOptions) (process.Result, error) {
	if opts.XEffSD < 0 || opts.XEffMean < 0 || opts.XEffMean > 1 {
		return process.Result{}, fmt.Errorf("%w: dewatering efficiency mean %g sd %g", core.ErrInvalidSimulationArg, opts.XEffMean, opts.XEffSD)
	}
	if opts.XEffSD == 0 && opts.XEffMean >= 1 {
		return process.Result{}, fmt.Errorf("%w: dewatering efficiency %g", core.ErrFractionAtOne, opts.XEffMean)
	}
	n := len(input)
	xEff := sampling.TruncatedNormal(src, opts.XEffMean, opts.XEffSD, 0, 1, n)
	sort.Float64s(xEff)

	effluent, err := ApplyGeneric(src, input, lit, cs, est)
	if err != nil {
		return process.Result{}, err
	}

	out := make([]float64, n)
	for i, c := range input {
		x := math.Min(xEff[i], maxFraction)
		out[i] = (c - effluent.Output[i]*x) / (1 - x)
	}
	return process.Result{
		Type:           process.SeparationSludge,
		Output:         out,
		RemovalFactors: removalFactors(input, out),
		Dominant:       effluent.Dominant,
		AverageOut:     effluent.AverageOut,
	}, nil
}

// removalFactors returns (1 - out/in) * 100 per sample. A zero input has
// nothing to remove and reports a factor of zero.
func removalFactors(input, output []float64) []float64 {
	rmv := make([]float64, len(input))
	for i, c := range input {
		if c == 0 {
			continue
		}
		rmv[i] = (1 - output[i]/c) * 100
	}
	return rmv
}
