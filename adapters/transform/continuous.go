// Package transform implements the skew-correcting column transformations:
// the elementwise sqrt/log1p/square/cube maps plus the fitted Yeo-Johnson
// power transform and quantile-to-normal transform.
package transform

import (
	"math"

	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// Apply transforms a column's values with the given method. Missing and
// non-coercible cells stay missing; elementwise results that leave the real
// line (sqrt of a negative, log1p at or below -1) become missing as well.
func Apply(method policy.SkewMethod, values []table.Value) ([]table.Value, error) {
	switch method {
	case policy.SkewNone:
		return append([]table.Value(nil), values...), nil
	case policy.SkewSquareRoot:
		return mapNumeric(values, math.Sqrt), nil
	case policy.SkewLog:
		return mapNumeric(values, math.Log1p), nil
	case policy.SkewSquare:
		return mapNumeric(values, func(x float64) float64 { return x * x }), nil
	case policy.SkewCube:
		return mapNumeric(values, func(x float64) float64 { return x * x * x }), nil
	case policy.SkewYeoJohnson:
		return applyYeoJohnson(values)
	case policy.SkewQuantile:
		return applyQuantileNormal(values)
	default:
		return nil, errors.TransformFailure("unknown transformation method %q", method)
	}
}

// mapNumeric applies f to every coercible cell. table.Number collapses NaN
// and infinities to missing, which is how out-of-domain inputs are dropped.
func mapNumeric(values []table.Value, f func(float64) float64) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		if x, ok := v.AsNumber(); ok {
			out[i] = table.Number(f(x))
		} else {
			out[i] = table.Missing()
		}
	}
	return out
}

// numericSubset extracts the coercible cells and remembers their positions
// so fitted transforms can write results back in place.
func numericSubset(values []table.Value) ([]float64, []int) {
	xs := make([]float64, 0, len(values))
	pos := make([]int, 0, len(values))
	for i, v := range values {
		if x, ok := v.AsNumber(); ok {
			xs = append(xs, x)
			pos = append(pos, i)
		}
	}
	return xs, pos
}

// rebuild writes transformed numerics back to their original positions,
// leaving every other cell missing.
func rebuild(length int, pos []int, xs []float64) []table.Value {
	out := make([]table.Value, length)
	for i := range out {
		out[i] = table.Missing()
	}
	for k, p := range pos {
		out[p] = table.Number(xs[k])
	}
	return out
}
