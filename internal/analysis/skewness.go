package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// Skewness computes the bias-adjusted Fisher-Pearson sample skewness of a
// column's values. Cells are coerced to numeric first; non-coercible cells
// count as missing. Zero usable values returns (nil, nil) — an empty column
// is not an error. Exactly one usable value fails with InsufficientData.
func Skewness(values []table.Value) (*float64, error) {
	xs := NumericValues(values)
	if len(xs) == 0 {
		return nil, nil
	}
	if len(xs) < 2 {
		return nil, errors.InsufficientData(
			"column must have at least 2 non-missing numeric values to compute skewness, got %d", len(xs))
	}
	s := SampleSkewness(xs)
	return &s, nil
}

// SkewnessOfColumn resolves the column first, failing with a validation
// error when it does not exist.
func SkewnessOfColumn(tbl *table.Table, column string) (*float64, error) {
	values, err := tbl.Column(column)
	if err != nil {
		return nil, errors.ValidationError("column %q not found in dataset", column)
	}
	return Skewness(values)
}

// SampleSkewness computes the adjusted Fisher-Pearson coefficient of
// skewness. For n=2 the unadjusted coefficient is returned (the adjustment
// divides by n-2); two points are always symmetric, so it is 0.
func SampleSkewness(xs []float64) float64 {
	n := float64(len(xs))
	mean, _ := stats.Mean(xs)

	m2, m3 := 0.0, 0.0
	for _, x := range xs {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	if n <= 2 {
		return g1
	}
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// NumericValues coerces a column to float64s, dropping anything that will
// not coerce.
func NumericValues(values []table.Value) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.AsNumber(); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

// SkewInterpretation grades a skewness value for display.
type SkewInterpretation struct {
	Label       string `json:"label"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// InterpretSkewness classifies a skewness value into the display bands used
// by detection responses.
func InterpretSkewness(skewness *float64) SkewInterpretation {
	if skewness == nil {
		return SkewInterpretation{Label: "N/A", Severity: "none", Description: "Unable to compute skewness"}
	}
	s := *skewness
	abs := math.Abs(s)
	direction := "right"
	if s < 0 {
		direction = "left"
	}
	switch {
	case abs <= 0.5:
		return SkewInterpretation{
			Label:       "Symmetric",
			Severity:    "low",
			Description: "Distribution is approximately symmetric",
		}
	case abs <= 1:
		return SkewInterpretation{
			Label:       fmt.Sprintf("Slightly %s-skewed", direction),
			Severity:    "moderate",
			Description: fmt.Sprintf("Distribution shows slight %s skew", direction),
		}
	case abs <= 2:
		return SkewInterpretation{
			Label:       fmt.Sprintf("Moderately %s-skewed", direction),
			Severity:    "high",
			Description: fmt.Sprintf("Distribution shows moderate %s skew", direction),
		}
	default:
		return SkewInterpretation{
			Label:       fmt.Sprintf("Highly %s-skewed", direction),
			Severity:    "severe",
			Description: fmt.Sprintf("Distribution is highly %s-skewed", direction),
		}
	}
}
