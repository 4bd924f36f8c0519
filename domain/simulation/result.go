// Package simulation holds scenarios and the results of running them
// through the treatment-train simulator.
package simulation

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"

	"github.com/montanaflynn/stats"
)

// DescribePercentiles are the percentiles reported for concentration and
// removal summaries.
var DescribePercentiles = []float64{0.5, 0.75, 0.9, 0.95, 0.975, 0.99}

// Result is the outcome of simulating one scenario. It is built once by the
// simulator and never modified; the table views return fresh copies.
type Result struct {
	Manifest     Manifest               `json:"manifest"`
	Scenario     string                 `json:"scenario"`
	Train        catalog.TreatmentTrain `json:"treatment_train"`
	Substance    catalog.Substance      `json:"substance"`
	InputMatrix  catalog.Matrix         `json:"input_matrix"`
	Runs         int                    `json:"n_runs"`
	Resolution   int                    `json:"removal_factor_resolution"`
	StartC       []float64              `json:"starting_concentration"`
	Steps        []process.Result       `json:"steps"`
	Reference    catalog.Reference      `json:"reference"`
	OutputMatrix catalog.Matrix         `json:"output_matrix"`
}

// FinalConcentration returns a copy of the last step's output, or of the
// starting concentration for an empty train.
func (r *Result) FinalConcentration() []float64 {
	if len(r.Steps) == 0 {
		return append([]float64(nil), r.StartC...)
	}
	return append([]float64(nil), r.Steps[len(r.Steps)-1].Output...)
}

// Column is a named ensemble.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// OutputConcentrationTable has an "input" column with the starting
// concentration followed by one column per treatment id.
func (r *Result) OutputConcentrationTable() []Column {
	cols := make([]Column, 0, len(r.Steps)+1)
	cols = append(cols, Column{Name: "input", Values: append([]float64(nil), r.StartC...)})
	for i, step := range r.Steps {
		cols = append(cols, Column{Name: r.Train.Steps[i].ID, Values: append([]float64(nil), step.Output...)})
	}
	return cols
}

// RemovalFactorTable has one column of removal factors per treatment id.
func (r *Result) RemovalFactorTable() []Column {
	cols := make([]Column, 0, len(r.Steps))
	for i, step := range r.Steps {
		cols = append(cols, Column{Name: r.Train.Steps[i].ID, Values: append([]float64(nil), step.RemovalFactors...)})
	}
	return cols
}

// TreatmentRow describes one step for the info sheet.
type TreatmentRow struct {
	TreatmentID             string                       `json:"treatment_id"`
	AverageOut              bool                         `json:"average_out"`
	InputMatrix             string                       `json:"input_matrix"`
	OutputMatrix            string                       `json:"output_matrix"`
	DominantData            process.DominantDistribution `json:"dominant_data"`
	ProcessType             process.ProcessType          `json:"process_type"`
	Substance               string                       `json:"substance"`
	Runs                    int                          `json:"n_runs"`
	RemovalFactorResolution int                          `json:"removal_factor_resolution"`
}

// TreatmentTable returns one row per step with matrix names.
func (r *Result) TreatmentTable() []TreatmentRow {
	flow := r.Train.MatrixFlow(r.InputMatrix)
	rows := make([]TreatmentRow, len(r.Steps))
	for i, step := range r.Steps {
		rows[i] = TreatmentRow{
			TreatmentID:             r.Train.Steps[i].ID,
			AverageOut:              step.AverageOut,
			InputMatrix:             flow[i].Input.Name,
			OutputMatrix:            flow[i].Output.Name,
			DominantData:            step.Dominant,
			ProcessType:             step.Type,
			Substance:               r.Substance.Name,
			Runs:                    r.Runs,
			RemovalFactorResolution: r.Resolution,
		}
	}
	return rows
}

// PercentileValue is a single percentile of a summary.
type PercentileValue struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

// Summary mirrors a describe() row: count, mean, sample std, min,
// percentiles and max.
type Summary struct {
	Name        string            `json:"name"`
	Count       int               `json:"count"`
	Mean        float64           `json:"mean"`
	Std         float64           `json:"std"`
	Min         float64           `json:"min"`
	Percentiles []PercentileValue `json:"percentiles"`
	Max         float64           `json:"max"`
}

// MarshalJSON writes the undefined std of a single-run column as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		Std *float64 `json:"std"`
	}{alias: alias(s)}
	if !math.IsNaN(s.Std) {
		out.Std = &s.Std
	}
	return json.Marshal(out)
}

// Describe summarises every column. Percentiles are fractions in (0, 1].
func Describe(cols []Column, percentiles []float64) ([]Summary, error) {
	out := make([]Summary, 0, len(cols))
	for _, c := range cols {
		s, err := describeColumn(c, percentiles)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", c.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func describeColumn(c Column, percentiles []float64) (Summary, error) {
	data := stats.Float64Data(c.Values)
	s := Summary{Name: c.Name, Count: data.Len()}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	s.Std = math.NaN()
	if data.Len() > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}
	sorted := slices.Clone(c.Values)
	slices.Sort(sorted)
	for _, p := range percentiles {
		v, err := interpolatedPercentile(sorted, p)
		if err != nil {
			return s, err
		}
		s.Percentiles = append(s.Percentiles, PercentileValue{Percentile: p, Value: v})
	}
	return s, nil
}

// interpolatedPercentile interpolates linearly between the order statistics
// of sorted at rank p*(n-1), so the median of an even count is the mean of
// the two middle values.
func interpolatedPercentile(sorted []float64, p float64) (float64, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN(), fmt.Errorf("percentile %g outside [0, 1]", p)
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo]), nil
}

// DescribeOutput summarises the output concentration table.
func (r *Result) DescribeOutput() ([]Summary, error) {
	return Describe(r.OutputConcentrationTable(), DescribePercentiles)
}

// DescribeRemoval summarises the removal factor table.
func (r *Result) DescribeRemoval() ([]Summary, error) {
	return Describe(r.RemovalFactorTable(), DescribePercentiles)
}

// RiskQuotients divides the final concentration by the reference value.
// A quotient above one exceeds the reference.
func (r *Result) RiskQuotients() ([]float64, error) {
	if r.Reference.ValueNgL <= 0 {
		return nil, fmt.Errorf("%w: reference %q has non-positive value %g",
			core.ErrInvalidSimulationArg, r.Reference.ID, r.Reference.ValueNgL)
	}
	final := r.FinalConcentration()
	for i := range final {
		final[i] /= r.Reference.ValueNgL
	}
	return final, nil
}

// ExceedanceProbability is the share of runs whose risk quotient is above
// one.
func (r *Result) ExceedanceProbability() (float64, error) {
	rq, err := r.RiskQuotients()
	if err != nil {
		return 0, err
	}
	if len(rq) == 0 {
		return 0, nil
	}
	n := 0
	for _, q := range rq {
		if q > 1 {
			n++
		}
	}
	return float64(n) / float64(len(rq)), nil
}
