package analysis

import (
	"sort"

	"biaslens/domain/policy"
	"biaslens/domain/table"
)

// Column classification labels.
const (
	ClassCategorical     = "categorical"
	ClassHighCardinality = "high-cardinality categorical"
	ClassContinuous      = "continuous"
	ClassIdentifierName  = "identifier / name-like"
	ClassIdentifierCode  = "identifier / code-like"
	ClassOther           = "other"
)

// Thresholds parameterize column classification.
type Thresholds struct {
	CatUniqueThresh   int     `json:"cat_unique_thresh"`
	CatFractionThresh float64 `json:"cat_fraction_thresh"`
	IDFractionThresh  float64 `json:"id_fraction_thresh"`
}

// AutoThresholds picks classification thresholds adapted to the dataset:
// the categorical unique-count cutoff is twice the median per-column
// uniqueness, at least 2, capped at 10% of the row count.
func AutoThresholds(tbl *table.Table) Thresholds {
	const (
		minUniqueBase      = 2
		maxCatUniqueFactor = 0.1
		defaultCatFraction = 0.05
		defaultIDFraction  = 0.9
	)

	rows := tbl.RowCount()
	if rows == 0 {
		return Thresholds{
			CatUniqueThresh:   minUniqueBase,
			CatFractionThresh: defaultCatFraction,
			IDFractionThresh:  defaultIDFraction,
		}
	}

	uniques := make([]float64, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		values, _ := tbl.Column(col)
		distinct, _ := table.DistinctNonMissing(values)
		uniques = append(uniques, float64(len(distinct)))
	}
	medianUnique := median(uniques)

	upper := float64(minUniqueBase)
	if rowCap := float64(rows) * maxCatUniqueFactor; rowCap > upper {
		upper = rowCap
	}
	thresh := medianUnique * 2
	if thresh < minUniqueBase {
		thresh = minUniqueBase
	}
	if thresh > upper {
		thresh = upper
	}

	return Thresholds{
		CatUniqueThresh:   int(thresh),
		CatFractionThresh: defaultCatFraction,
		IDFractionThresh:  defaultIDFraction,
	}
}

// ClassifyColumn labels a column as categorical, continuous, or
// identifier-like based on its uniqueness profile.
func ClassifyColumn(values []table.Value, th Thresholds) string {
	total := len(values)
	if total == 0 {
		return ClassOther
	}

	distinct, nonMissing := table.DistinctNonMissing(values)
	uniqueCount := len(distinct)
	uniqueFraction := float64(uniqueCount) / float64(total)

	if hasStringValues(values) {
		switch {
		case uniqueFraction >= th.IDFractionThresh:
			return ClassIdentifierName
		case uniqueCount <= th.CatUniqueThresh || uniqueFraction < th.CatFractionThresh:
			return ClassCategorical
		default:
			return ClassHighCardinality
		}
	}

	if nonMissing == 0 {
		return ClassOther
	}
	switch {
	case uniqueFraction >= th.IDFractionThresh:
		return ClassIdentifierCode
	case uniqueCount <= th.CatUniqueThresh || uniqueFraction < th.CatFractionThresh:
		return ClassCategorical
	default:
		return ClassContinuous
	}
}

// IsCategoricalTarget applies the correction-target policy: a column counts
// as categorical when it holds any non-numeric values, or its distinct
// non-missing cardinality is at most policy.MaxCategoricalCardinality.
func IsCategoricalTarget(values []table.Value) bool {
	if hasStringValues(values) {
		return true
	}
	distinct, _ := table.DistinctNonMissing(values)
	return len(distinct) <= policy.MaxCategoricalCardinality
}

// IsNumericColumn reports whether every non-missing cell is numeric (not a
// string cell). This is the dtype-style check the pure-numeric SMOTE path
// uses; string cells that merely look like numbers still fail it.
func IsNumericColumn(values []table.Value) bool {
	for _, v := range values {
		if v.Kind() == table.KindString {
			return false
		}
	}
	return true
}

func hasStringValues(values []table.Value) bool {
	for _, v := range values {
		if v.Kind() == table.KindString {
			return true
		}
	}
	return false
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
