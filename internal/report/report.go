// Package report renders simulation results as Markdown and HTML summaries.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gotreat/domain/simulation"
	"gotreat/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown returns a summary of the result: run metadata, the treatment
// table, concentration and removal statistics and the risk quotients.
func Markdown(r *simulation.Result) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s in %s\n\n", r.Substance.Name, r.Scenario)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.Manifest.RunID)
	fmt.Fprintf(&b, "- Treatment train: %s\n", strings.Join(r.Train.IDs(), " → "))
	fmt.Fprintf(&b, "- Matrices: %s → %s\n", r.InputMatrix.Name, r.OutputMatrix.Name)
	fmt.Fprintf(&b, "- Runs: %d, removal factor resolution: %d\n", r.Runs, r.Resolution)
	if r.Manifest.CaseStudy != "" {
		fmt.Fprintf(&b, "- Case study: %s\n", r.Manifest.CaseStudy)
	}
	b.WriteString("\n## Treatments\n\n")
	b.WriteString("| Step | Treatment | Input | Output | Process | Dominant data | Average out |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for i, row := range r.TreatmentTable() {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %t |\n",
			i+1, row.TreatmentID, row.InputMatrix, row.OutputMatrix, row.ProcessType, row.DominantData, row.AverageOut)
	}

	output, err := r.DescribeOutput()
	if err != nil {
		return nil, err
	}
	b.WriteString("\n## Concentration (ng/L)\n\n")
	writeSummaries(&b, output)

	if r.Runs >= 4 {
		shapes, err := profiling.AnalyzeAll(r.OutputConcentrationTable())
		if err != nil {
			return nil, err
		}
		b.WriteString("\n### Distribution shape\n\n")
		b.WriteString("| | cv | skewness | excess kurtosis | iqr | outliers |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, sh := range shapes {
			if sh.Constant {
				fmt.Fprintf(&b, "| %s | constant | | | | |\n", sh.Name)
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n",
				sh.Name, number(sh.CV), number(sh.Skewness), number(sh.Kurtosis), number(sh.IQR), sh.Outliers)
		}
	}

	removal, err := r.DescribeRemoval()
	if err != nil {
		return nil, err
	}
	b.WriteString("\n## Removal (%)\n\n")
	writeSummaries(&b, removal)

	b.WriteString("\n## Risk\n\n")
	ref := r.Reference
	fmt.Fprintf(&b, "Reference: %g ng/L (%s", ref.ValueNgL, ref.ID)
	if ref.Year > 0 {
		fmt.Fprintf(&b, ", %d", ref.Year)
	}
	b.WriteString(")\n\n")
	if ref.IsPlaceholder() {
		b.WriteString("> No reference value is known for this substance and matrix; the quotients below are against a placeholder.\n\n")
	}
	if ref.ValueNgL > 0 {
		rq, err := r.RiskQuotients()
		if err != nil {
			return nil, err
		}
		rqSummary, err := simulation.Describe([]simulation.Column{{Name: "risk quotient", Values: rq}}, simulation.DescribePercentiles)
		if err != nil {
			return nil, err
		}
		writeSummaries(&b, rqSummary)
		p, err := r.ExceedanceProbability()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "\nProbability of exceeding the reference: %.1f%%\n", p*100)
	}
	return []byte(b.String()), nil
}

// HTML renders the Markdown summary as a complete HTML page.
func HTML(r *simulation.Result) ([]byte, error) {
	md, err := Markdown(r)
	if err != nil {
		return nil, err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: fmt.Sprintf("%s: %s", r.Scenario, r.Substance.Name),
	})
	return markdown.ToHTML(md, p, renderer), nil
}

func writeSummaries(b *strings.Builder, rows []simulation.Summary) {
	if len(rows) == 0 {
		return
	}
	header := []string{"", "count", "mean", "std", "min"}
	for _, pv := range rows[0].Percentiles {
		header = append(header, percentLabel(pv.Percentile))
	}
	header = append(header, "max")
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(header)) + "|\n")

	for _, s := range rows {
		cells := []string{s.Name, strconv.Itoa(s.Count), number(s.Mean), number(s.Std), number(s.Min)}
		for _, pv := range s.Percentiles {
			cells = append(cells, number(pv.Value))
		}
		cells = append(cells, number(s.Max))
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func percentLabel(p float64) string {
	return strconv.FormatFloat(p*100, 'f', -1, 64) + "%"
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
