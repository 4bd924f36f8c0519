// Package profiling characterises the shape of Monte-Carlo ensembles.
package profiling

import (
	"fmt"
	"math"

	"gotreat/domain/simulation"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Shape describes how an ensemble is distributed beyond its percentiles.
type Shape struct {
	Name string `json:"name"`
	// CV is the coefficient of variation (sample sd / |mean|), zero for a
	// zero mean.
	CV       float64 `json:"cv"`
	Skewness float64 `json:"skewness"`
	// Kurtosis is the excess kurtosis; zero for a normal distribution.
	Kurtosis float64 `json:"kurtosis"`
	IQR      float64 `json:"iqr"`
	// Outliers counts values outside 1.5 IQR of the quartiles.
	Outliers int `json:"outliers"`
	// Constant is set when every value is equal; moments are then zero.
	Constant bool `json:"constant"`
}

// Analyze computes the shape of one column. It needs at least four values.
func Analyze(c simulation.Column) (Shape, error) {
	data := c.Values
	if len(data) < 4 {
		return Shape{}, fmt.Errorf("shape of %s needs at least 4 values, got %d", c.Name, len(data))
	}
	s := Shape{Name: c.Name}

	min, err := stats.Min(data)
	if err != nil {
		return Shape{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return Shape{}, err
	}
	if min == max {
		s.Constant = true
		return s, nil
	}

	mean, sd := stat.MeanStdDev(data, nil)
	if mean != 0 {
		s.CV = sd / math.Abs(mean)
	}
	s.Skewness = stat.Skew(data, nil)
	s.Kurtosis = stat.ExKurtosis(data, nil)

	q, err := stats.Quartile(data)
	if err != nil {
		return Shape{}, err
	}
	s.IQR = q.Q3 - q.Q1
	lo, hi := q.Q1-1.5*s.IQR, q.Q3+1.5*s.IQR
	for _, x := range data {
		if x < lo || x > hi {
			s.Outliers++
		}
	}
	return s, nil
}

// AnalyzeAll computes the shape of every column.
func AnalyzeAll(cols []simulation.Column) ([]Shape, error) {
	out := make([]Shape, 0, len(cols))
	for _, c := range cols {
		s, err := Analyze(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
