package app

import (
	"context"
	"testing"

	"biaslens/adapters/memory"
	"biaslens/domain/table"
	"biaslens/internal"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
	"biaslens/ports"
)

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

// targetTable builds a one-feature table with classCounts rows per label.
func targetTable(classCounts map[string]int) *table.Table {
	tbl := table.New([]string{"f1", "target"})
	i := 0
	for _, class := range []string{"maj", "min", "mid"} {
		for n := 0; n < classCounts[class]; n++ {
			tbl.AppendRow([]table.Value{table.Number(float64(i)), table.String(class)})
			i++
		}
	}
	return tbl
}

func classTally(t *testing.T, tbl *table.Table, column string) map[string]int {
	t.Helper()
	values, err := tbl.Column(column)
	if err != nil {
		t.Fatalf("column %q: %v", column, err)
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[analysis.ClassLabel(v)]++
	}
	return counts
}

func TestCorrectImbalanceOversampleBalances(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 10, "min": 3})

	out, meta, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "oversample",
	})
	if err != nil {
		t.Fatalf("CorrectImbalance: %v", err)
	}
	counts := classTally(t, out, "target")
	if counts["maj"] != 10 || counts["min"] != 10 {
		t.Errorf("counts = %v, want both 10", counts)
	}
	if meta.SamplingStrategy != "auto" {
		t.Errorf("strategy = %q, want auto", meta.SamplingStrategy)
	}
	if tbl.RowCount() != 13 {
		t.Errorf("input table mutated: rows = %d", tbl.RowCount())
	}
}

func TestCorrectImbalanceReweightLeavesDataUnchanged(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 6, "min": 2})

	out, meta, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "reweight",
	})
	if err != nil {
		t.Fatalf("CorrectImbalance: %v", err)
	}
	if !out.Equal(tbl) {
		t.Error("reweight must return the dataset unchanged")
	}
	wantMaj := 8.0 / (2 * 6)
	wantMin := 8.0 / (2 * 2)
	if meta.ClassWeights["maj"] != wantMaj || meta.ClassWeights["min"] != wantMin {
		t.Errorf("class weights = %v, want maj=%v min=%v", meta.ClassWeights, wantMaj, wantMin)
	}
}

func TestCorrectImbalanceBinaryThreshold(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 10, "min": 2})

	threshold := 0.5
	out, meta, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "oversample",
		Threshold:    &threshold,
	})
	if err != nil {
		t.Fatalf("CorrectImbalance: %v", err)
	}
	if meta.SamplingStrategy != "0.5" {
		t.Errorf("strategy = %q, want 0.5", meta.SamplingStrategy)
	}
	counts := classTally(t, out, "target")
	if counts["min"] != 5 {
		t.Errorf("minority count = %d, want 5 at ratio 0.5", counts["min"])
	}
}

func TestCorrectImbalanceReweightThresholdFallsBackToAuto(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 6, "min": 2})

	threshold := 0.5
	// Reweighting has no sampling target, so the threshold is dropped
	// with a warning instead of failing the request.
	_, meta, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "reweight",
		Threshold:    &threshold,
	})
	if err != nil {
		t.Fatalf("CorrectImbalance: %v", err)
	}
	if meta.SamplingStrategy != "auto" {
		t.Errorf("strategy = %q, want auto", meta.SamplingStrategy)
	}
}

func TestCorrectImbalanceInvalidMethod(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 6, "min": 2})

	_, _, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "shuffle",
	})
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCorrectImbalanceMissingTarget(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := targetTable(map[string]int{"maj": 6, "min": 2})

	_, _, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "label",
		Method:       "oversample",
	})
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidateTargetColumnRejectsContinuous(t *testing.T) {
	svc := NewBiasService(testLogger(), memory.NewHistoryRepository())
	tbl := table.New([]string{"target"})
	for i := 0; i < 30; i++ {
		tbl.AppendRow([]table.Value{table.Number(float64(i))})
	}

	err := svc.ValidateTargetColumn(tbl, "target")
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error for a continuous target, got %v", err)
	}
}

func TestDetectImbalanceRecordsRun(t *testing.T) {
	history := memory.NewHistoryRepository()
	svc := NewBiasService(testLogger(), history)
	tbl := targetTable(map[string]int{"maj": 9, "min": 1})

	result := svc.DetectImbalance(context.Background(), tbl, "data.csv", []string{"target"})
	if _, ok := result["target"]; !ok {
		t.Fatalf("no result for target column: %v", result)
	}

	records, err := history.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Kind != ports.RunBiasDetect {
		t.Errorf("records = %+v, want one bias detect run", records)
	}
	if records[0].ID == "" || records[0].CreatedAt.IsZero() {
		t.Error("run record must carry an ID and timestamp")
	}
}

func TestBiasServiceNilHistory(t *testing.T) {
	svc := NewBiasService(testLogger(), nil)
	tbl := targetTable(map[string]int{"maj": 4, "min": 2})

	if _, _, err := svc.CorrectImbalance(context.Background(), tbl, "data.csv", CorrectionRequest{
		TargetColumn: "target",
		Method:       "undersample",
	}); err != nil {
		t.Fatalf("CorrectImbalance without history: %v", err)
	}
}
