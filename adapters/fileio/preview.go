package fileio

import (
	"biaslens/domain/table"
)

// PreviewData is the JSON-friendly head of a dataset plus whole-table
// missing-value counts.
type PreviewData struct {
	Columns       []string         `json:"columns"`
	Preview       []map[string]any `json:"preview"`
	MissingValues map[string]int   `json:"missing_values"`
}

// Preview returns the first n rows as records, with missing cells rendered
// as null, and missing counts computed over the full table.
func Preview(tbl *table.Table, n int) PreviewData {
	head := tbl.Head(n)
	records := make([]map[string]any, 0, head.RowCount())
	for _, row := range head.Rows {
		record := make(map[string]any, len(head.Columns))
		for i, v := range row {
			if v.IsMissing() {
				record[head.Columns[i]] = nil
			} else if f, ok := v.AsNumber(); ok && v.Kind() == table.KindNumber {
				record[head.Columns[i]] = f
			} else {
				record[head.Columns[i]] = v.Display()
			}
		}
		records = append(records, record)
	}
	return PreviewData{
		Columns:       append([]string(nil), tbl.Columns...),
		Preview:       records,
		MissingValues: tbl.MissingCounts(),
	}
}
