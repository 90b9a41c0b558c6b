package app

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"biaslens/domain/table"
	"biaslens/internal"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
)

// PreprocessService cleans datasets: per-column missing-value handling
// followed by duplicate-row removal.
type PreprocessService struct {
	log *internal.Logger
}

// NewPreprocessService creates a preprocess service.
func NewPreprocessService(log *internal.Logger) *PreprocessService {
	return &PreprocessService{log: log}
}

// Fill strategies.
const (
	FillKeep   = "keep"
	FillRemove = "remove"
	FillMean   = "mean"
	FillMedian = "median"
	FillMode   = "mode"
)

// PreprocessSummary reports what cleaning did.
type PreprocessSummary struct {
	SelectedColumns   []string          `json:"selected_columns_cleaned"`
	FillActions       map[string]string `json:"fill_actions"`
	MissingValues     map[string]int    `json:"missing_values"`
	RowsBefore        int               `json:"rows_before"`
	RowsWithNARemoved int               `json:"rows_with_na_removed"`
	DuplicatesRemoved int               `json:"duplicates_removed"`
	RowsAfter         int               `json:"rows_after"`
	DatasetShape      [2]int            `json:"dataset_shape"`
}

// Preprocess applies fill strategies column by column, sequentially - each
// column's statistics (mean, median, mode) are computed on the table state
// left by the previous columns - then drops duplicate rows judged over the
// selected columns. The input table is not mutated.
func (s *PreprocessService) Preprocess(tbl *table.Table, selectedColumns []string, fillStrategies map[string]string) (*table.Table, PreprocessSummary, error) {
	columns := selectedColumns
	if len(columns) == 0 {
		columns = append([]string(nil), tbl.Columns...)
	}
	var missing []string
	for _, c := range columns {
		if !tbl.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, PreprocessSummary{}, errors.ValidationError("some selected columns not found in dataset: %v", missing)
	}

	summary := PreprocessSummary{
		SelectedColumns: columns,
		FillActions:     make(map[string]string, len(columns)),
		MissingValues:   make(map[string]int),
		RowsBefore:      tbl.RowCount(),
	}
	allMissing := tbl.MissingCounts()
	for _, c := range columns {
		if allMissing[c] > 0 {
			summary.MissingValues[c] = allMissing[c]
		}
	}

	work := tbl.Clone()
	for _, column := range columns {
		strategy := fillStrategies[column]
		if strategy == "" {
			strategy = FillKeep
		}
		action, removed, err := s.applyStrategy(work, column, strategy)
		if err != nil {
			return nil, PreprocessSummary{}, err
		}
		summary.FillActions[column] = action
		summary.RowsWithNARemoved += removed
	}

	beforeDedup := work.RowCount()
	work, err := work.DropDuplicates(columns)
	if err != nil {
		return nil, PreprocessSummary{}, errors.Wrap(err, "failed to drop duplicates")
	}
	summary.DuplicatesRemoved = beforeDedup - work.RowCount()
	summary.RowsAfter = work.RowCount()
	summary.DatasetShape = [2]int{work.RowCount(), len(work.Columns)}

	return work, summary, nil
}

// applyStrategy mutates work in place (it is the service's own clone).
func (s *PreprocessService) applyStrategy(work *table.Table, column, strategy string) (action string, rowsRemoved int, err error) {
	idx, _ := work.ColumnIndex(column)
	values, _ := work.Column(column)
	missingCount := 0
	for _, v := range values {
		if v.IsMissing() {
			missingCount++
		}
	}

	switch strategy {
	case FillKeep:
		return fmt.Sprintf("Kept %d missing values unchanged", missingCount), 0, nil

	case FillRemove:
		kept := work.Rows[:0]
		for _, row := range work.Rows {
			if !row[idx].IsMissing() {
				kept = append(kept, row)
			}
		}
		removed := len(work.Rows) - len(kept)
		work.Rows = kept
		return fmt.Sprintf("Removed %d rows with missing values", removed), removed, nil

	case FillMean, FillMedian:
		numeric := analysis.NumericValues(values)
		if !analysis.IsNumericColumn(values) || len(numeric) == 0 {
			// Non-numeric columns fall back to mode.
			return s.fillMode(work, idx, values, missingCount)
		}
		var fill float64
		if strategy == FillMean {
			fill, err = stats.Mean(numeric)
		} else {
			fill, err = stats.Median(numeric)
		}
		if err != nil {
			return "", 0, errors.Wrapf(err, "failed to compute %s for column %q", strategy, column)
		}
		for i := range work.Rows {
			if work.Rows[i][idx].IsMissing() {
				work.Rows[i][idx] = table.Number(fill)
			}
		}
		return fmt.Sprintf("Filled %d values with %s (%.2f)", missingCount, strategy, fill), 0, nil

	case FillMode:
		return s.fillMode(work, idx, values, missingCount)

	default:
		return "", 0, errors.ValidationError("unknown fill strategy %q for column %q", strategy, column)
	}
}

func (s *PreprocessService) fillMode(work *table.Table, idx int, values []table.Value, missingCount int) (string, int, error) {
	mode, ok := modeValue(values)
	if !ok {
		return "No valid mode found, values unchanged", 0, nil
	}
	for i := range work.Rows {
		if work.Rows[i][idx].IsMissing() {
			work.Rows[i][idx] = table.FromCell(mode)
		}
	}
	return fmt.Sprintf("Filled %d values with mode (%s)", missingCount, mode), 0, nil
}

// modeValue returns the most frequent non-missing display value, smallest
// first on ties.
func modeValue(values []table.Value) (string, bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if !v.IsMissing() {
			counts[v.Display()]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best, bestCount := "", -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, true
}
