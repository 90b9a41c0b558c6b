// Package app orchestrates the detection and correction engines over
// datasets: validation, policy lookups, sampler/transform dispatch, and run
// history.
package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"biaslens/adapters/sampling"
	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
	"biaslens/ports"
)

// BiasService runs imbalance detection and correction.
type BiasService struct {
	log     *internal.Logger
	history ports.HistoryRepository
}

// NewBiasService creates a bias service.
func NewBiasService(log *internal.Logger, history ports.HistoryRepository) *BiasService {
	return &BiasService{log: log, history: history}
}

// CorrectionRequest describes one imbalance correction.
type CorrectionRequest struct {
	TargetColumn        string
	Method              string
	Threshold           *float64
	CategoricalFeatures []string
}

// CorrectionMetadata reports how a correction was performed.
type CorrectionMetadata struct {
	Method           policy.CorrectionMethod `json:"method"`
	SamplingStrategy string                  `json:"sampling_strategy"`
	ClassWeights     map[string]float64      `json:"class_weights,omitempty"`
}

// DetectImbalance computes distributions and severities for the given
// categorical columns.
func (s *BiasService) DetectImbalance(ctx context.Context, tbl *table.Table, filePath string, categoricalColumns []string) map[string]analysis.DistributionResult {
	result := analysis.DetectImbalance(tbl, categoricalColumns)
	s.record(ctx, ports.RunRecord{
		Kind:     ports.RunBiasDetect,
		FilePath: filePath,
		Detail:   marshalDetail(result),
	})
	return result
}

// ValidateTargetColumn checks the target exists and is categorical by
// policy: non-numeric values, or distinct cardinality at most 20.
func (s *BiasService) ValidateTargetColumn(tbl *table.Table, targetColumn string) error {
	values, err := tbl.Column(targetColumn)
	if err != nil {
		return errors.ValidationError("target column %q not found in dataset", targetColumn)
	}
	if !analysis.IsCategoricalTarget(values) {
		return errors.ValidationError("target column %q is not categorical", targetColumn)
	}
	return nil
}

// CorrectImbalance validates the request, derives the sampling strategy, and
// dispatches to the matching sampler. The input table is never mutated; the
// corrected table is a new value.
func (s *BiasService) CorrectImbalance(ctx context.Context, tbl *table.Table, filePath string, req CorrectionRequest) (*table.Table, CorrectionMetadata, error) {
	method, err := policy.ParseCorrectionMethod(req.Method)
	if err != nil {
		return nil, CorrectionMetadata{}, errors.ValidationError("%v", err)
	}
	if err := s.ValidateTargetColumn(tbl, req.TargetColumn); err != nil {
		return nil, CorrectionMetadata{}, err
	}

	targetValues, err := tbl.Column(req.TargetColumn)
	if err != nil {
		return nil, CorrectionMetadata{}, errors.ValidationError("target column %q not found in dataset", req.TargetColumn)
	}
	counts := make(map[string]int)
	for _, v := range targetValues {
		counts[analysis.ClassLabel(v)]++
	}

	strategy, note := policy.DeriveSamplingStrategy(counts, method, req.Threshold)
	if note != "" {
		// Specified behavior: derivation failures downgrade to auto rather
		// than surfacing an error.
		s.log.Warn("correct_imbalance %s: %s", req.TargetColumn, note)
	}

	meta := CorrectionMetadata{Method: method, SamplingStrategy: strategy.String()}

	var corrected *table.Table
	switch method {
	case policy.MethodReweight:
		// Reweighting leaves the dataset unchanged and reports per-class
		// weights instead.
		corrected = tbl.Clone()
		meta.ClassWeights = sampling.ClassWeights(targetValues)
	case policy.MethodOversample:
		corrected, err = sampling.Oversample(tbl, req.TargetColumn, strategy)
	case policy.MethodUndersample:
		corrected, err = sampling.Undersample(tbl, req.TargetColumn, strategy)
	case policy.MethodSmote:
		if len(req.CategoricalFeatures) > 0 {
			corrected, err = sampling.SmoteNC(tbl, req.TargetColumn, strategy, req.CategoricalFeatures)
		} else {
			corrected, err = sampling.Smote(tbl, req.TargetColumn, strategy)
		}
	}
	if err != nil {
		return nil, CorrectionMetadata{}, err
	}

	s.record(ctx, ports.RunRecord{
		Kind:     ports.RunBiasFix,
		FilePath: filePath,
		Column:   req.TargetColumn,
		Method:   string(method),
		Detail:   marshalDetail(meta),
	})
	return corrected, meta, nil
}

func (s *BiasService) record(ctx context.Context, rec ports.RunRecord) {
	if s.history == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if err := s.history.Record(ctx, rec); err != nil {
		s.log.Warn("failed to record %s run: %v", rec.Kind, err)
	}
}

func marshalDetail(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
