// Package fileio reads and writes dataset files (CSV and Excel) and
// enforces the upload-directory path rules.
package fileio

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"biaslens/domain/table"
	apperrors "biaslens/internal/errors"
)

// ReadDataset reads a CSV or Excel file into a Table. The first row is the
// header; cells are typed on ingest (numbers, strings, missing).
func ReadDataset(path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("file not found: %s", path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xls":
		return readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q: only .csv, .xls, .xlsx are supported", filepath.Ext(path))
	}
}

func readCSV(path string) (*table.Table, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = sniffDelimiter(path)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty: %s", path)
	}

	tbl := table.New(records[0])
	for _, record := range records[1:] {
		row := make([]table.Value, len(record))
		for i, cell := range record {
			row[i] = table.FromCell(cell)
		}
		tbl.AppendRow(row)
	}

	log.Printf("[FileIO] Read %d rows x %d columns from %s in %.2fms",
		tbl.RowCount(), len(tbl.Columns), filepath.Base(path), float64(time.Since(start).Nanoseconds())/1e6)
	return tbl, nil
}

// sniffDelimiter inspects the header line and picks the most frequent of the
// common delimiters, defaulting to comma.
func sniffDelimiter(path string) rune {
	data, err := os.ReadFile(path)
	if err != nil {
		return ','
	}
	header := string(data)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, cand := range []rune{';', '\t', '|'} {
		if c := strings.Count(header, string(cand)); c > bestCount {
			best, bestCount = cand, c
		}
	}
	return best
}

func readExcel(path string) (*table.Table, error) {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets: %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Excel sheet %q is empty", sheets[0])
	}

	tbl := table.New(rows[0])
	for _, record := range rows[1:] {
		row := make([]table.Value, len(record))
		for i, cell := range record {
			row[i] = table.FromCell(cell)
		}
		tbl.AppendRow(row)
	}

	log.Printf("[FileIO] Read %d rows x %d columns from %s (sheet %q) in %.2fms",
		tbl.RowCount(), len(tbl.Columns), filepath.Base(path), sheets[0], float64(time.Since(start).Nanoseconds())/1e6)
	return tbl, nil
}

// SaveDataset writes a table as CSV, creating the parent directory when
// needed.
func SaveDataset(tbl *table.Table, path string, ensureDir bool) error {
	if ensureDir {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(tbl.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, v := range row {
			record[i] = v.Display()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
