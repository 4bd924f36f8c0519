package bayes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Grid returns the resolution-1 candidate removal fractions i/resolution for
// i = 1..resolution-1. The end points 0 and 1 are excluded to keep densities
// finite.
func Grid(resolution int) []float64 {
	grid := make([]float64, resolution-1)
	for i := range grid {
		grid[i] = float64(i+1) / float64(resolution)
	}
	return grid
}

// FitBeta estimates Beta shape parameters by maximum likelihood with the
// support fixed to [0, 1]. The search runs over log-shapes starting from the
// method-of-moments estimate.
func FitBeta(data []float64) (alpha, beta float64, err error) {
	if len(data) < 2 {
		return 0, 0, fmt.Errorf("beta fit needs at least two observations, got %d", len(data))
	}
	var sumLog, sumLog1m float64
	for _, x := range data {
		if x <= 0 || x >= 1 {
			return 0, 0, fmt.Errorf("beta fit observation %g outside (0, 1)", x)
		}
		sumLog += math.Log(x)
		sumLog1m += math.Log1p(-x)
	}
	n := float64(len(data))

	negLogLikelihood := func(u []float64) float64 {
		a, b := math.Exp(u[0]), math.Exp(u[1])
		la, _ := math.Lgamma(a)
		lb, _ := math.Lgamma(b)
		lab, _ := math.Lgamma(a + b)
		return -((a-1)*sumLog + (b-1)*sumLog1m - n*(la+lb-lab))
	}
	grad := func(g, u []float64) {
		a, b := math.Exp(u[0]), math.Exp(u[1])
		psiAB := mathext.Digamma(a + b)
		g[0] = -a * (sumLog - n*(mathext.Digamma(a)-psiAB))
		g[1] = -b * (sumLog1m - n*(mathext.Digamma(b)-psiAB))
	}

	a0, b0 := momentsStart(data)
	res, err := optimize.Minimize(
		optimize.Problem{Func: negLogLikelihood, Grad: grad},
		[]float64{math.Log(a0), math.Log(b0)},
		nil,
		&optimize.BFGS{},
	)
	if err != nil && res == nil {
		return 0, 0, fmt.Errorf("beta fit did not converge: %w", err)
	}
	return math.Exp(res.X[0]), math.Exp(res.X[1]), nil
}

func momentsStart(data []float64) (float64, float64) {
	mean, variance := stat.PopMeanVariance(data, nil)
	if variance <= 0 {
		return 1, 1
	}
	common := mean*(1-mean)/variance - 1
	if common <= 0 {
		return 1, 1
	}
	return mean * common, (1 - mean) * common
}

// PriorBeta returns the normalised Beta prior over Grid(resolution), fitted
// to the two points 1/power and 1-1/power.
func PriorBeta(power float64, resolution int) ([]float64, error) {
	alpha, beta, err := FitBeta([]float64{1 / power, 1 - 1/power})
	if err != nil {
		return nil, err
	}
	dist := distuv.Beta{Alpha: alpha, Beta: beta}
	grid := Grid(resolution)
	prior := make([]float64, len(grid))
	for i, x := range grid {
		prior[i] = dist.Prob(x)
	}
	return normalize(prior), nil
}
