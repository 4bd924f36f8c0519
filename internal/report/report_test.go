package report

import (
	"strings"
	"testing"

	"gotreat/domain/catalog"
	"gotreat/domain/process"
	"gotreat/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(t *testing.T, ref catalog.Reference) *simulation.Result {
	t.Helper()
	sub, err := catalog.SubstanceByID("pfoa")
	require.NoError(t, err)
	train, err := catalog.TrainFromIDs("wwt1", "wwtt")
	require.NoError(t, err)
	return &simulation.Result{
		Manifest:     simulation.Manifest{RunID: "run-1", CaseStudy: "site"},
		Scenario:     "unit",
		Train:        train,
		Substance:    sub,
		InputMatrix:  catalog.RWW,
		OutputMatrix: catalog.TWW,
		Runs:         4,
		Resolution:   1000,
		StartC:       []float64{40, 30, 20, 10},
		Steps: []process.Result{
			{Type: process.Generic, Output: []float64{20, 15, 10, 5}, RemovalFactors: []float64{50, 50, 50, 50}, Dominant: process.Literature},
			{Type: process.Generic, Output: []float64{4, 3, 2, 1}, RemovalFactors: []float64{80, 80, 80, 80}, Dominant: process.CaseStudy, AverageOut: true},
		},
		Reference: ref,
	}
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown(result(t, catalog.Reference{ID: "limit", ValueNgL: 2, Year: 2023}))
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "wwt1 → wwtt")
	assert.Contains(t, text, "Case study: site")
	assert.Contains(t, text, "| 2 | wwtt |")
	assert.Contains(t, text, "| input | 4 |")
	assert.Contains(t, text, "97.5%")
	assert.Contains(t, text, "limit, 2023")
	assert.Contains(t, text, "### Distribution shape")
	assert.Contains(t, text, "| wwtt | ")
	// quotients 2, 1.5, 1, 0.5
	assert.Contains(t, text, "exceeding the reference: 50.0%")
	assert.NotContains(t, text, "placeholder")
}

func TestMarkdown_Placeholder(t *testing.T) {
	md, err := Markdown(result(t, catalog.PlaceholderReference()))
	require.NoError(t, err)
	assert.Contains(t, string(md), "placeholder")
}

func TestHTML(t *testing.T) {
	page, err := HTML(result(t, catalog.Reference{ID: "limit", ValueNgL: 2}))
	require.NoError(t, err)
	text := string(page)

	assert.True(t, strings.Contains(text, "<html"))
	assert.Contains(t, text, "<title>unit: ")
	assert.Contains(t, text, "<table>")
	assert.Contains(t, text, "<td>wwt1</td>")
}
