package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"biaslens/adapters/transform"
	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
	"biaslens/ports"
)

// SkewService runs skewness detection and correction.
type SkewService struct {
	log     *internal.Logger
	history ports.HistoryRepository
}

// NewSkewService creates a skew service.
func NewSkewService(log *internal.Logger, history ports.HistoryRepository) *SkewService {
	return &SkewService{log: log, history: history}
}

// SkewDetection is the detection result for one column.
type SkewDetection struct {
	Column         string                      `json:"column"`
	Skewness       *float64                    `json:"skewness"`
	NNonNull       int                         `json:"n_nonnull"`
	Interpretation analysis.SkewInterpretation `json:"interpretation"`
	Message        string                      `json:"message"`
}

// ColumnCorrection reports one column's skew correction, or the captured
// error when that column failed.
type ColumnCorrection struct {
	OriginalSkewness *float64 `json:"original_skewness"`
	NewSkewness      *float64 `json:"new_skewness"`
	Method           string   `json:"method"`
	Error            string   `json:"error,omitempty"`
}

// DetectSkewness computes the skewness of a single column. A missing column
// is a validation error; too few usable values is InsufficientData; an
// all-non-numeric column reports a null skewness without error.
func (s *SkewService) DetectSkewness(ctx context.Context, tbl *table.Table, filePath, column string) (SkewDetection, error) {
	values, err := tbl.Column(column)
	if err != nil {
		return SkewDetection{}, errors.ValidationError("column %q not found in dataset", column)
	}
	nonNull := 0
	for _, v := range values {
		if !v.IsMissing() {
			nonNull++
		}
	}

	skew, err := analysis.Skewness(values)
	if err != nil {
		return SkewDetection{}, err
	}

	detection := SkewDetection{
		Column:         column,
		Skewness:       skew,
		NNonNull:       nonNull,
		Interpretation: analysis.InterpretSkewness(skew),
		Message:        "ok",
	}
	s.record(ctx, ports.RunRecord{
		Kind:     ports.RunSkewDetect,
		FilePath: filePath,
		Column:   column,
		Detail:   marshalDetail(detection),
	})
	return detection, nil
}

// correctColumn transforms one column against the given table state. All
// failures come back inside the ColumnCorrection, never as an error: batch
// callers record the entry and continue with their other columns.
func (s *SkewService) correctColumn(tbl *table.Table, column string) ([]table.Value, ColumnCorrection) {
	values, err := tbl.Column(column)
	if err != nil {
		return nil, ColumnCorrection{Error: "Column not found"}
	}

	original, err := analysis.Skewness(values)
	if err != nil {
		return nil, ColumnCorrection{Error: err.Error()}
	}
	if original == nil {
		return nil, ColumnCorrection{Error: "Unable to compute skewness"}
	}

	method := policy.MethodForSkew(*original)
	if method == policy.SkewNone {
		// Already symmetric; the column is left untouched.
		return nil, ColumnCorrection{
			OriginalSkewness: original,
			NewSkewness:      original,
			Method:           method.Label(),
		}
	}

	corrected, err := transform.Apply(method, values)
	if err != nil {
		return nil, ColumnCorrection{Error: err.Error()}
	}

	newSkew, err := analysis.Skewness(corrected)
	if err != nil {
		// The transform can empty out a column (every result
		// out-of-domain); report it as a per-column failure.
		return nil, ColumnCorrection{Error: err.Error()}
	}

	return corrected, ColumnCorrection{
		OriginalSkewness: original,
		NewSkewness:      newSkew,
		Method:           method.Label(),
	}
}

// CorrectMultipleColumns corrects every requested column independently,
// accumulating the transforms into one output table. Each column's original
// skewness and source values come from the pre-transformation input table,
// so sibling corrections in the same batch cannot contaminate each other. A
// failing column records its error entry and never aborts the rest.
func (s *SkewService) CorrectMultipleColumns(ctx context.Context, tbl *table.Table, filePath string, columns []string) (*table.Table, map[string]ColumnCorrection) {
	out := tbl.Clone()
	results := make(map[string]ColumnCorrection, len(columns))

	for _, column := range columns {
		corrected, result := s.correctColumn(tbl, column)
		results[column] = result
		if result.Error != "" || corrected == nil {
			continue
		}
		withCol, err := out.WithColumn(column, corrected)
		if err != nil {
			results[column] = ColumnCorrection{Error: err.Error()}
			continue
		}
		out = withCol
	}

	s.record(ctx, ports.RunRecord{
		Kind:     ports.RunSkewFix,
		FilePath: filePath,
		Detail:   marshalDetail(results),
	})
	return out, results
}

func (s *SkewService) record(ctx context.Context, rec ports.RunRecord) {
	if s.history == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if err := s.history.Record(ctx, rec); err != nil {
		s.log.Warn("failed to record %s run: %v", rec.Kind, err)
	}
}
