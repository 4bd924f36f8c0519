// Package sampling draws Monte-Carlo ensembles from the distributions used by
// the process models. Every function takes an explicit random source so runs
// are reproducible under a fixed seed.
package sampling

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Constant returns n copies of v.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// UniformDescending draws n values uniformly in [lo, hi] and sorts them in
// descending order.
func UniformDescending(src rand.Source, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if lo == hi {
		for i := range out {
			out[i] = lo
		}
		return out
	}
	u := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for i := range out {
		out[i] = u.Rand()
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

// TruncatedNormal draws n values from Normal(mean, sd) truncated to
// [lo, hi]. A zero sd yields a constant array of mean.
func TruncatedNormal(src rand.Source, mean, sd, lo, hi float64, n int) []float64 {
	if sd == 0 {
		return Constant(mean, n)
	}
	a, b := (lo-mean)/sd, (hi-mean)/sd
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*standardTruncated(src, a, b)
	}
	return out
}

// TruncatedNormalUpper is TruncatedNormal with a per-sample upper bound.
func TruncatedNormalUpper(src rand.Source, mean, sd, lo float64, hi []float64) []float64 {
	if sd == 0 {
		return Constant(mean, len(hi))
	}
	a := (lo - mean) / sd
	out := make([]float64, len(hi))
	for i, h := range hi {
		out[i] = mean + sd*standardTruncated(src, a, (h-mean)/sd)
	}
	return out
}

// standardTruncated draws from the unit normal truncated to [a, b] by
// inverting the CDF. Intervals in the right tail are mirrored into the left
// tail where the CDF keeps its precision.
func standardTruncated(src rand.Source, a, b float64) float64 {
	if b <= a {
		return a
	}
	if a > 0 {
		return -standardTruncated(src, -b, -a)
	}
	pa, pb := distuv.UnitNormal.CDF(a), distuv.UnitNormal.CDF(b)
	if pb <= pa {
		return a
	}
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}.Rand()
	x := distuv.UnitNormal.Quantile(pa + u*(pb-pa))
	return math.Min(math.Max(x, a), b)
}
