package catalog

import "gonum.org/v1/gonum/floats"

// Reference is a toxicological threshold concentration used for risk quotients.
type Reference struct {
	ID       string  `json:"id" yaml:"id" db:"reference_id"`
	ValueNgL float64 `json:"value_ng_l" yaml:"value_ng_l" db:"reference_value_ng_l"`
	Year     int     `json:"year" yaml:"year" db:"year"`
	Comments string  `json:"comments,omitempty" yaml:"comments,omitempty" db:"comments"`
}

// PlaceholderReference stands in when no reference value is known for the
// output matrix. Risk quotients computed against it are not meaningful.
func PlaceholderReference() Reference {
	return Reference{ID: "dummy", ValueNgL: 1, Year: 2024, Comments: "Not a true reference"}
}

// IsPlaceholder reports whether r was synthesized by PlaceholderReference.
func (r Reference) IsPlaceholder() bool { return r.ID == "dummy" }

// StartingConcentration holds observed concentrations (ng/L) of a substance
// in a matrix. Only the range of the values is used for sampling.
type StartingConcentration struct {
	Values      []float64 `json:"values" yaml:"values"`
	SubstanceID string    `json:"substance_id" yaml:"substance"`
	MatrixID    string    `json:"matrix_id" yaml:"matrix"`
}

// Len returns the number of observations.
func (s StartingConcentration) Len() int { return len(s.Values) }

// Range returns the min and max observation. It must not be called on an
// empty StartingConcentration.
func (s StartingConcentration) Range() (float64, float64) {
	return floats.Min(s.Values), floats.Max(s.Values)
}

// RemovalPercent is a set of observed removal percentages (0-100). An empty
// set means no data, not zero removal.
type RemovalPercent []float64

// Len returns the number of observations.
func (r RemovalPercent) Len() int { return len(r) }

// IsEmpty reports whether no observations are available.
func (r RemovalPercent) IsEmpty() bool { return len(r) == 0 }

// Clone returns an independent copy.
func (r RemovalPercent) Clone() RemovalPercent {
	if r == nil {
		return nil
	}
	out := make(RemovalPercent, len(r))
	copy(out, r)
	return out
}
