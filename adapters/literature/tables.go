// Package literature serves the static literature tables (starting
// concentrations, removal percentages and reference values) from CSV or
// XLSX files, with an embedded default data set.
package literature

import (
	"fmt"
	"io/fs"
	"strconv"

	"gotreat/adapters/excel"
)

// Table file base names. Each may be provided as .csv (';' separated) or .xlsx.
const (
	StartingConcentrationTable = "starting_concentration"
	RemovalTable               = "process_removal_lit"
	ReferenceTable             = "reference_lit"
)

// ConcentrationRow is one observation of a substance in a matrix. Any of
// the three values may be missing.
type ConcentrationRow struct {
	SubstanceID string   `db:"substance_id"`
	MatrixID    string   `db:"matrix_id"`
	Min         *float64 `db:"min_value_ng_l"`
	Point       *float64 `db:"point_value_ng_l"`
	Max         *float64 `db:"max_value_ng_l"`
	Source      string   `db:"source"`
}

// RemovalRow is one observed removal percentage.
type RemovalRow struct {
	SubstanceID    string  `db:"substance_id"`
	TreatmentID    string  `db:"treatment_id"`
	RemovalPercent float64 `db:"removal_percent"`
	Source         string  `db:"source"`
}

// ReferenceRow is one reference value of a substance in a matrix.
type ReferenceRow struct {
	SubstanceID string  `db:"substance_id"`
	MatrixID    string  `db:"matrix_id"`
	ValueNgL    float64 `db:"reference_value_ng_l"`
	ReferenceID string  `db:"reference_id"`
	Year        *int    `db:"year"`
	Comments    string  `db:"comments"`
}

// Tables holds the parsed literature tables.
type Tables struct {
	Concentrations []ConcentrationRow
	Removals       []RemovalRow
	References     []ReferenceRow
}

// LoadFS reads the three tables from fsys. For each table a .csv file is
// preferred over an .xlsx file of the same base name.
func LoadFS(fsys fs.FS) (*Tables, error) {
	reader := excel.NewDataReader(fsys)

	conc, err := readTable(fsys, reader, StartingConcentrationTable,
		"substance_id", "matrix_id", "min_value_ng_l", "point_value_ng_l", "max_value_ng_l")
	if err != nil {
		return nil, err
	}
	rmv, err := readTable(fsys, reader, RemovalTable, "substance_id", "treatment_id", "removal_percent")
	if err != nil {
		return nil, err
	}
	refs, err := readTable(fsys, reader, ReferenceTable,
		"substance_id", "matrix_id", "reference_value_ng_l", "reference_id", "year", "comments")
	if err != nil {
		return nil, err
	}

	t := &Tables{}
	for i, row := range conc.Rows {
		r := ConcentrationRow{SubstanceID: row["substance_id"], MatrixID: row["matrix_id"], Source: row["source"]}
		if r.Min, err = optionalFloat(row["min_value_ng_l"]); err != nil {
			return nil, rowError(StartingConcentrationTable, i, err)
		}
		if r.Point, err = optionalFloat(row["point_value_ng_l"]); err != nil {
			return nil, rowError(StartingConcentrationTable, i, err)
		}
		if r.Max, err = optionalFloat(row["max_value_ng_l"]); err != nil {
			return nil, rowError(StartingConcentrationTable, i, err)
		}
		t.Concentrations = append(t.Concentrations, r)
	}
	for i, row := range rmv.Rows {
		v, err := optionalFloat(row["removal_percent"])
		if err != nil {
			return nil, rowError(RemovalTable, i, err)
		}
		if v == nil {
			continue
		}
		t.Removals = append(t.Removals, RemovalRow{
			SubstanceID:    row["substance_id"],
			TreatmentID:    row["treatment_id"],
			RemovalPercent: *v,
			Source:         row["source"],
		})
	}
	for i, row := range refs.Rows {
		v, err := strconv.ParseFloat(row["reference_value_ng_l"], 64)
		if err != nil {
			return nil, rowError(ReferenceTable, i, err)
		}
		r := ReferenceRow{
			SubstanceID: row["substance_id"],
			MatrixID:    row["matrix_id"],
			ValueNgL:    v,
			ReferenceID: row["reference_id"],
			Comments:    row["comments"],
		}
		if y := row["year"]; y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				return nil, rowError(ReferenceTable, i, err)
			}
			r.Year = &year
		}
		t.References = append(t.References, r)
	}
	return t, nil
}

func readTable(fsys fs.FS, reader *excel.DataReader, base string, columns ...string) (*excel.TableData, error) {
	name := base + ".csv"
	if _, err := fs.Stat(fsys, name); err != nil {
		name = base + ".xlsx"
	}
	data, err := reader.ReadTable(name)
	if err != nil {
		return nil, fmt.Errorf("literature table %s: %w", base, err)
	}
	if !data.HasColumns(columns...) {
		return nil, fmt.Errorf("literature table %s: expected columns %v, got %v", base, columns, data.Headers)
	}
	return data, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func rowError(table string, i int, err error) error {
	// +2: header row and 1-based numbering
	return fmt.Errorf("literature table %s row %d: %w", table, i+2, err)
}
