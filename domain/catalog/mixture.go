package catalog

import (
	"fmt"

	"gotreat/domain/core"

	"gonum.org/v1/gonum/stat"
)

// z95 is the half-width of a 95% normal interval in standard deviations.
const z95 = 1.96

// Mixture parametrises dilution and evaporative separation steps. X2 is the
// mixing (or separated) fraction, C2 the concentration of the second stream
// in ng/L.
type Mixture struct {
	X2Mean   float64 `json:"x2_mean" yaml:"x2_mean"`
	X2SD     float64 `json:"x2_sd" yaml:"x2_sd"`
	C2Mean   float64 `json:"c2_mean" yaml:"c2_mean"`
	C2SD     float64 `json:"c2_sd" yaml:"c2_sd"`
	LogDist  bool    `json:"log_dist,omitempty" yaml:"log_dist,omitempty"`
	Comments string  `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// MixtureFromMinMax treats the given ranges as 95% intervals of normal
// distributions.
func MixtureFromMinMax(x2Min, x2Max, c2Min, c2Max float64) Mixture {
	return Mixture{
		X2Mean: stat.Mean([]float64{x2Min, x2Max}, nil),
		X2SD:   (x2Max - x2Min) / (2 * z95),
		C2Mean: stat.Mean([]float64{c2Min, c2Max}, nil),
		C2SD:   (c2Max - c2Min) / (2 * z95),
		Comments: fmt.Sprintf("x entered as range between %g and %g; c entered as range between %g and %g",
			x2Min, x2Max, c2Min, c2Max),
	}
}

// Validate checks that standard deviations are non-negative and the mean
// mixing fraction lies in [0, 1].
func (m Mixture) Validate() error {
	if m.X2SD < 0 || m.C2SD < 0 {
		return fmt.Errorf("%w: mixture standard deviations must be non-negative (x2_sd=%g, c2_sd=%g)", core.ErrInvalidSimulationArg, m.X2SD, m.C2SD)
	}
	if m.X2Mean < 0 || m.X2Mean > 1 {
		return fmt.Errorf("%w: mixture fraction x2_mean=%g outside [0, 1]", core.ErrInvalidSimulationArg, m.X2Mean)
	}
	if m.C2Mean < 0 {
		return fmt.Errorf("%w: mixture concentration c2_mean=%g is negative", core.ErrInvalidSimulationArg, m.C2Mean)
	}
	return nil
}
