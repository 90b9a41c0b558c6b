package app

import (
	"context"
	"math"
	"testing"

	"biaslens/adapters/memory"
	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// skewedTable builds a table with one right-skewed column, one symmetric
// column, and one text column.
func skewedTable() *table.Table {
	tbl := table.New([]string{"income", "age", "city"})
	incomes := []float64{1, 1, 2, 2, 3, 3, 4, 5, 40, 90}
	ages := []float64{20, 25, 30, 35, 40, 45, 50, 55, 60, 65}
	cities := []string{"oslo", "bergen", "oslo", "oslo", "bergen", "oslo", "bergen", "oslo", "bergen", "oslo"}
	for i := range incomes {
		tbl.AppendRow([]table.Value{
			table.Number(incomes[i]),
			table.Number(ages[i]),
			table.String(cities[i]),
		})
	}
	return tbl
}

func TestDetectSkewness(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())
	tbl := skewedTable()

	det, err := svc.DetectSkewness(context.Background(), tbl, "data.csv", "income")
	if err != nil {
		t.Fatalf("DetectSkewness: %v", err)
	}
	if det.Skewness == nil || *det.Skewness <= 1 {
		t.Errorf("skewness = %v, want a strongly positive value", det.Skewness)
	}
	if det.NNonNull != 10 {
		t.Errorf("n_nonnull = %d, want 10", det.NNonNull)
	}
	if det.Message != "ok" {
		t.Errorf("message = %q, want ok", det.Message)
	}
	if det.Interpretation.Severity == "none" {
		t.Errorf("interpretation = %+v, want a graded severity", det.Interpretation)
	}
}

func TestDetectSkewnessMissingColumn(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())

	_, err := svc.DetectSkewness(context.Background(), skewedTable(), "data.csv", "salary")
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDetectSkewnessTextColumn(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())

	det, err := svc.DetectSkewness(context.Background(), skewedTable(), "data.csv", "city")
	if err != nil {
		t.Fatalf("DetectSkewness: %v", err)
	}
	if det.Skewness != nil {
		t.Errorf("skewness = %v, want null for a text column", *det.Skewness)
	}
	if det.Interpretation.Label != "N/A" {
		t.Errorf("interpretation = %+v, want N/A", det.Interpretation)
	}
}

func TestDetectSkewnessSingleValue(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())
	tbl := table.New([]string{"x"})
	tbl.AppendRow([]table.Value{table.Number(1)})

	_, err := svc.DetectSkewness(context.Background(), tbl, "data.csv", "x")
	if !errors.HasCode(err, errors.CodeInsufficientData) {
		t.Errorf("expected insufficient data, got %v", err)
	}
}

func TestCorrectMultipleColumns(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())
	tbl := skewedTable()

	out, results := svc.CorrectMultipleColumns(context.Background(), tbl, "data.csv", []string{"income", "age"})

	income := results["income"]
	if income.Error != "" {
		t.Fatalf("income correction failed: %s", income.Error)
	}
	if income.OriginalSkewness == nil || income.NewSkewness == nil {
		t.Fatal("income correction must report both skewness values")
	}
	if math.Abs(*income.NewSkewness) >= math.Abs(*income.OriginalSkewness) {
		t.Errorf("skew did not shrink: %v -> %v", *income.OriginalSkewness, *income.NewSkewness)
	}
	if income.Method == "" || income.Method == policy.SkewNone.Label() {
		t.Errorf("income method = %q, want a transform", income.Method)
	}

	// The symmetric column is detected as needing no transform and its
	// values pass through untouched.
	age := results["age"]
	if age.Error != "" {
		t.Fatalf("age correction failed: %s", age.Error)
	}
	if age.Method != policy.SkewNone.Label() {
		t.Errorf("age method = %q, want no transform", age.Method)
	}
	ageOut, err := out.Column("age")
	if err != nil {
		t.Fatalf("age column: %v", err)
	}
	ageIn, _ := tbl.Column("age")
	for i := range ageIn {
		if !ageOut[i].Equal(ageIn[i]) {
			t.Fatal("a symmetric column must not be modified")
		}
	}
}

func TestCorrectMultipleColumnsIndependence(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())
	tbl := skewedTable()

	batch, batchResults := svc.CorrectMultipleColumns(context.Background(), tbl, "data.csv", []string{"income", "age"})
	alone, aloneResults := svc.CorrectMultipleColumns(context.Background(), tbl, "data.csv", []string{"income"})

	// Each column is corrected against the pre-transformation input, so
	// running income alone or alongside age gives identical results.
	if *batchResults["income"].NewSkewness != *aloneResults["income"].NewSkewness {
		t.Error("sibling columns leaked into the income correction")
	}
	batchIncome, _ := batch.Column("income")
	aloneIncome, _ := alone.Column("income")
	for i := range batchIncome {
		if !batchIncome[i].Equal(aloneIncome[i]) {
			t.Fatal("batch and solo corrections of the same column differ")
		}
	}
}

func TestCorrectMultipleColumnsCollectsErrors(t *testing.T) {
	svc := NewSkewService(testLogger(), memory.NewHistoryRepository())
	tbl := skewedTable()

	out, results := svc.CorrectMultipleColumns(context.Background(), tbl, "data.csv", []string{"income", "salary", "city"})

	if results["salary"].Error != "Column not found" {
		t.Errorf("salary error = %q, want Column not found", results["salary"].Error)
	}
	if results["city"].Error != "Unable to compute skewness" {
		t.Errorf("city error = %q, want Unable to compute skewness", results["city"].Error)
	}
	if results["income"].Error != "" {
		t.Errorf("income must still succeed, got error %q", results["income"].Error)
	}
	if out.RowCount() != tbl.RowCount() {
		t.Errorf("rows = %d, want %d", out.RowCount(), tbl.RowCount())
	}
}
