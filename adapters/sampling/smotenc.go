package sampling

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
)

// SmoteNC is the mixed-type SMOTE variant. The caller names which feature
// columns are categorical: those are label-encoded to integer codes, the
// remaining columns are mean-imputed numerics, and the neighbor metric adds
// a fixed penalty for differing categories instead of a coordinate
// difference. Synthetic categorical values come from a majority vote over
// the reference sample's neighbors and are decoded back to categories in the
// output.
//
// An empty categoricalFeatures list must be routed to Smote by the caller; a
// non-empty list that matches no feature column is a validation error.
func SmoteNC(tbl *table.Table, targetColumn string, strategy policy.SamplingStrategy, categoricalFeatures []string) (*table.Table, error) {
	idx, err := buildClassIndex(tbl, targetColumn)
	if err != nil {
		return nil, err
	}
	features, err := featureColumns(tbl, targetColumn)
	if err != nil {
		return nil, err
	}

	catSet := make(map[string]bool)
	for _, c := range categoricalFeatures {
		for _, f := range features {
			if c == f {
				catSet[c] = true
			}
		}
	}
	if len(catSet) == 0 {
		return nil, errors.ValidationError(
			"none of the supplied categorical feature columns exist in the feature set: [%s]",
			strings.Join(categoricalFeatures, ", "))
	}

	// Columns not named categorical still have to carry numbers.
	var continuous []string
	for _, f := range features {
		if !catSet[f] {
			continuous = append(continuous, f)
		}
	}
	if bad := nonNumericFeatures(tbl, continuous); len(bad) > 0 {
		return nil, errors.FeatureTypeError(
			"SMOTE-NC requires features outside the categorical list to be numeric. Non-numeric columns: [%s]",
			strings.Join(bad, ", "))
	}

	matrix, catDims, decoders := buildMixedMatrix(tbl, features, catSet)

	targets, err := overTargets(idx, strategy)
	if err != nil {
		return nil, err
	}

	metric := &nnMetric{
		catDims:    catDims,
		catPenalty: categoryPenalty(matrix, catDims),
	}
	rng := rand.New(rand.NewSource(policy.RandomSeed))
	synthetic, synthClasses, err := synthesize(matrix, idx, targets, rng, metric)
	if err != nil {
		return nil, err
	}

	return assembleSmoteOutput(tbl, targetColumn, features, matrix, synthetic, synthClasses, decoders)
}

// buildMixedMatrix encodes the feature columns: categorical columns become
// integer label codes (missing cells get their own code), numeric columns
// are mean-imputed. decoders maps each categorical dimension back to its
// category values.
func buildMixedMatrix(tbl *table.Table, features []string, catSet map[string]bool) ([][]float64, map[int]bool, map[int]func(float64) table.Value) {
	n := tbl.RowCount()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, len(features))
	}
	catDims := make(map[int]bool)
	decoders := make(map[int]func(float64) table.Value)

	for j, col := range features {
		values, _ := tbl.Column(col)
		if !catSet[col] {
			present := analysis.NumericValues(values)
			mean := 0.0
			if len(present) > 0 {
				mean, _ = stats.Mean(present)
			}
			for i, v := range values {
				if f, ok := v.AsNumber(); ok {
					matrix[i][j] = f
				} else {
					matrix[i][j] = mean
				}
			}
			continue
		}

		catDims[j] = true
		categories := encodeCategories(values)
		codes := make(map[string]int, len(categories))
		for code, cat := range categories {
			codes[cat] = code
		}
		for i, v := range values {
			matrix[i][j] = float64(codes[analysis.ClassLabel(v)])
		}
		cats := categories // capture per dimension
		decoders[j] = func(f float64) table.Value {
			code := int(f)
			if code < 0 || code >= len(cats) {
				return table.Missing()
			}
			if cats[code] == analysis.MissingClassLabel {
				return table.Missing()
			}
			return table.String(cats[code])
		}
	}
	return matrix, catDims, decoders
}

// encodeCategories returns the sorted distinct category labels of a column,
// missing included as its sentinel label; the slice index is the label code.
func encodeCategories(values []table.Value) []string {
	seen := make(map[string]bool)
	for _, v := range values {
		seen[analysis.ClassLabel(v)] = true
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// categoryPenalty returns the squared-distance contribution of a differing
// category: half the squared median of the continuous columns' standard
// deviations, the one-hot equivalent used by reference SMOTE-NC. Falls back
// to 1 when there are no continuous columns.
func categoryPenalty(matrix [][]float64, catDims map[int]bool) float64 {
	if len(matrix) == 0 {
		return 1
	}
	var stds []float64
	for j := range matrix[0] {
		if catDims[j] {
			continue
		}
		col := make([]float64, len(matrix))
		for i := range matrix {
			col[i] = matrix[i][j]
		}
		sd, err := stats.StandardDeviationPopulation(col)
		if err == nil {
			stds = append(stds, sd)
		}
	}
	if len(stds) == 0 {
		return 1
	}
	med, err := stats.Median(stds)
	if err != nil || med == 0 {
		return 1
	}
	return med * med / 2
}
