package excel

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"gotreat/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads tabular reference data from CSV or XLSX files within a
// file system. CSV files use ';' as separator.
type DataReader struct {
	fsys   fs.FS
	comma  rune
	logger *internal.Logger
}

// NewDataReader creates a reader over fsys.
func NewDataReader(fsys fs.FS) *DataReader {
	return &DataReader{fsys: fsys, comma: ';', logger: internal.DefaultLogger.With("DataReader")}
}

// ReadTable reads name, choosing the format by extension. XLSX files are
// read from their first sheet.
func (r *DataReader) ReadTable(name string) (*TableData, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return r.readCSVData(name)
	case ".xlsx":
		return r.readExcelData(name)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

// readExcelData reads the first sheet of an XLSX file
func (r *DataReader) readExcelData(name string) (*TableData, error) {
	startTime := time.Now()
	file, err := r.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file %s has no sheets", name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", name, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file %s must have a header row", name)
	}
	return r.processRows(rows), nil
}

// readCSVData reads a ';' separated CSV file
func (r *DataReader) readCSVData(name string) (*TableData, error) {
	file, err := r.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.comma
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", name, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file %s must have a header row", name)
	}
	return r.processRows(rows), nil
}

// processRows converts raw string rows into TableData
func (r *DataReader) processRows(rows [][]string) *TableData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData, len(headers))
		empty := true
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
				if rowData[headers[j]] != "" {
					empty = false
				}
			}
		}
		if !empty {
			dataRows = append(dataRows, rowData)
		}
	}

	return &TableData{Headers: headers, Rows: dataRows}
}
