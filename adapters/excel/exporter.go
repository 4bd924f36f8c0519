package excel

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"gotreat/domain/simulation"
	"gotreat/internal"

	"github.com/xuri/excelize/v2"
)

const (
	sheetInfo    = "info"
	sheetOutputC = "output_c"
	sheetRemoval = "removal"
)

// Exporter writes simulation results as XLSX workbooks with an info sheet
// and describe() summaries of the output concentration and removal tables.
type Exporter struct {
	percentiles []float64
	logger      *internal.Logger
}

// NewExporter creates an exporter using the default summary percentiles.
func NewExporter() *Exporter {
	return &Exporter{
		percentiles: simulation.DescribePercentiles,
		logger:      internal.DefaultLogger.With("excel"),
	}
}

// Extension implements ports.ResultExporter.
func (e *Exporter) Extension() string { return ".xlsx" }

// Export writes the workbook to path.
func (e *Exporter) Export(ctx context.Context, result *simulation.Result, path string) error {
	f, err := e.build(ctx, result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	e.logger.Info("exported %s to %s", result.Scenario, path)
	return nil
}

// WriteTo streams the workbook to w.
func (e *Exporter) WriteTo(ctx context.Context, result *simulation.Result, w io.Writer) error {
	f, err := e.build(ctx, result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func (e *Exporter) build(ctx context.Context, result *simulation.Result) (*excelize.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetInfo); err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeInfo(f, result); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", sheetInfo, err)
	}

	outputs, err := simulation.Describe(result.OutputConcentrationTable(), e.percentiles)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeSummary(f, sheetOutputC, outputs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", sheetOutputC, err)
	}

	removals, err := simulation.Describe(result.RemovalFactorTable(), e.percentiles)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeSummary(f, sheetRemoval, removals); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", sheetRemoval, err)
	}
	return f, nil
}

func (e *Exporter) writeInfo(f *excelize.File, result *simulation.Result) error {
	header := []interface{}{
		"treatment_id", "average_out", "input_matrix", "output_matrix", "dominant_data",
		"process_type", "substance", "n_runs", "removal_factor_resolution",
	}
	if err := f.SetSheetRow(sheetInfo, "A1", &header); err != nil {
		return err
	}
	for i, row := range result.TreatmentTable() {
		values := []interface{}{
			row.TreatmentID, row.AverageOut, row.InputMatrix, row.OutputMatrix, string(row.DominantData),
			string(row.ProcessType), row.Substance, row.Runs, row.RemovalFactorResolution,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetInfo, cell, &values); err != nil {
			return err
		}
	}
	return e.boldHeader(f, sheetInfo, len(header))
}

func (e *Exporter) writeSummary(f *excelize.File, sheet string, rows []simulation.Summary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"name", "count", "mean", "std", "min"}
	for _, p := range e.percentiles {
		header = append(header, strconv.FormatFloat(p*100, 'f', -1, 64)+"%")
	}
	header = append(header, "max")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range rows {
		values := []interface{}{s.Name, s.Count, number(s.Mean), number(s.Std), number(s.Min)}
		for _, p := range s.Percentiles {
			values = append(values, number(p.Value))
		}
		values = append(values, number(s.Max))
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return e.boldHeader(f, sheet, len(header))
}

// number leaves NaN cells empty.
func number(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func (e *Exporter) boldHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
