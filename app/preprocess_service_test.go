package app

import (
	"strings"
	"testing"

	"biaslens/domain/table"
	"biaslens/internal/errors"
)

func messyTable() *table.Table {
	tbl := table.New([]string{"score", "grade"})
	rows := [][]table.Value{
		{table.Number(10), table.String("a")},
		{table.Missing(), table.String("b")},
		{table.Number(20), table.Missing()},
		{table.Number(30), table.String("a")},
		{table.Number(30), table.String("a")},
	}
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	return tbl
}

func TestPreprocessFillMean(t *testing.T) {
	svc := NewPreprocessService(testLogger())
	tbl := messyTable()

	out, summary, err := svc.Preprocess(tbl, []string{"score", "grade"}, map[string]string{
		"score": FillMean,
		"grade": FillMode,
	})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}

	// Mean of {10, 20, 30, 30} is 22.5.
	scores, _ := out.Column("score")
	if f, ok := scores[1].AsNumber(); !ok || f != 22.5 {
		t.Errorf("filled score = %v, want 22.5", scores[1])
	}
	// Mode of {a, b, a, a} is a.
	grades, _ := out.Column("grade")
	if grades[2].Display() != "a" {
		t.Errorf("filled grade = %q, want a", grades[2].Display())
	}

	if summary.RowsBefore != 5 {
		t.Errorf("rows_before = %d, want 5", summary.RowsBefore)
	}
	if summary.DuplicatesRemoved != 1 {
		t.Errorf("duplicates_removed = %d, want 1", summary.DuplicatesRemoved)
	}
	if summary.RowsAfter != 4 {
		t.Errorf("rows_after = %d, want 4", summary.RowsAfter)
	}
	if summary.DatasetShape != [2]int{4, 2} {
		t.Errorf("dataset_shape = %v, want [4 2]", summary.DatasetShape)
	}
	if summary.MissingValues["score"] != 1 || summary.MissingValues["grade"] != 1 {
		t.Errorf("missing_values = %v, want 1 each", summary.MissingValues)
	}
	if !strings.Contains(summary.FillActions["score"], "mean (22.50)") {
		t.Errorf("score action = %q, want the mean spelled out", summary.FillActions["score"])
	}
	if tbl.RowCount() != 5 {
		t.Error("input table mutated")
	}
}

func TestPreprocessRemoveRows(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	out, summary, err := svc.Preprocess(messyTable(), []string{"score", "grade"}, map[string]string{
		"score": FillRemove,
		"grade": FillRemove,
	})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if summary.RowsWithNARemoved != 2 {
		t.Errorf("rows_with_na_removed = %d, want 2", summary.RowsWithNARemoved)
	}
	// Three complete rows survive; the duplicate 30/a pair collapses.
	if out.RowCount() != 2 {
		t.Errorf("rows = %d, want 2", out.RowCount())
	}
}

func TestPreprocessKeepIsDefault(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	out, summary, err := svc.Preprocess(messyTable(), []string{"score", "grade"}, nil)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	scores, _ := out.Column("score")
	if !scores[1].IsMissing() {
		t.Error("keep must leave missing cells missing")
	}
	if !strings.Contains(summary.FillActions["score"], "Kept 1 missing") {
		t.Errorf("score action = %q", summary.FillActions["score"])
	}
}

func TestPreprocessMedianFallsBackToModeForText(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	out, summary, err := svc.Preprocess(messyTable(), []string{"score", "grade"}, map[string]string{
		"grade": FillMedian,
	})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	grades, _ := out.Column("grade")
	if grades[2].Display() != "a" {
		t.Errorf("filled grade = %q, want the mode", grades[2].Display())
	}
	if !strings.Contains(summary.FillActions["grade"], "mode") {
		t.Errorf("grade action = %q, want a mode fill", summary.FillActions["grade"])
	}
}

func TestPreprocessDefaultsToAllColumns(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	_, summary, err := svc.Preprocess(messyTable(), nil, nil)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if len(summary.SelectedColumns) != 2 {
		t.Errorf("selected columns = %v, want both", summary.SelectedColumns)
	}
}

func TestPreprocessUnknownColumn(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	_, _, err := svc.Preprocess(messyTable(), []string{"score", "rank"}, nil)
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPreprocessUnknownStrategy(t *testing.T) {
	svc := NewPreprocessService(testLogger())

	_, _, err := svc.Preprocess(messyTable(), []string{"score"}, map[string]string{"score": "interpolate"})
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestModeValueTieBreaksSmallest(t *testing.T) {
	values := []table.Value{
		table.String("b"), table.String("b"),
		table.String("a"), table.String("a"),
	}
	mode, ok := modeValue(values)
	if !ok || mode != "a" {
		t.Errorf("mode = %q (%v), want a", mode, ok)
	}

	if _, ok := modeValue([]table.Value{table.Missing()}); ok {
		t.Error("an all-missing column has no mode")
	}
}
