package transform

import (
	"math"

	"github.com/montanaflynn/stats"

	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// Yeo-Johnson lambda search bounds and tolerance. The likelihood is unimodal
// in lambda, so a golden-section search over this interval matches the
// bounded Brent fit of reference implementations to well past display
// precision.
const (
	yjLambdaMin = -5.0
	yjLambdaMax = 5.0
	yjTolerance = 1e-8
)

// applyYeoJohnson fits lambda by maximum likelihood on the column's usable
// values, transforms them, and standardizes the result to zero mean and unit
// variance (the reference power transformer standardizes by default).
func applyYeoJohnson(values []table.Value) ([]table.Value, error) {
	xs, pos := numericSubset(values)
	if len(xs) < 2 {
		return nil, errors.TransformFailure("Yeo-Johnson requires at least 2 numeric values, got %d", len(xs))
	}

	lambda := fitYeoJohnsonLambda(xs)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = yeoJohnson(x, lambda)
	}
	if err := standardize(out); err != nil {
		return nil, errors.TransformFailure("Yeo-Johnson standardization failed: %v", err)
	}
	return rebuild(len(values), pos, out), nil
}

// yeoJohnson evaluates the transform at a single point.
func yeoJohnson(x, lambda float64) float64 {
	switch {
	case x >= 0 && lambda != 0:
		return (math.Pow(x+1, lambda) - 1) / lambda
	case x >= 0:
		return math.Log1p(x)
	case lambda != 2:
		return -(math.Pow(1-x, 2-lambda) - 1) / (2 - lambda)
	default:
		return -math.Log1p(-x)
	}
}

// fitYeoJohnsonLambda maximizes the profile log-likelihood with a
// golden-section search.
func fitYeoJohnsonLambda(xs []float64) float64 {
	const phi = 0.6180339887498949 // (sqrt(5)-1)/2

	a, b := yjLambdaMin, yjLambdaMax
	c := b - phi*(b-a)
	d := a + phi*(b-a)
	fc := yeoJohnsonLogLikelihood(xs, c)
	fd := yeoJohnsonLogLikelihood(xs, d)

	for b-a > yjTolerance {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - phi*(b-a)
			fc = yeoJohnsonLogLikelihood(xs, c)
		} else {
			a, c, fc = c, d, fd
			d = a + phi*(b-a)
			fd = yeoJohnsonLogLikelihood(xs, d)
		}
	}
	return (a + b) / 2
}

// yeoJohnsonLogLikelihood is the profile log-likelihood of lambda given the
// sample: -n/2 * ln(var(psi(x))) + (lambda-1) * sum(sign(x) * ln(1+|x|)).
func yeoJohnsonLogLikelihood(xs []float64, lambda float64) float64 {
	n := float64(len(xs))
	transformed := make([]float64, len(xs))
	logTerm := 0.0
	for i, x := range xs {
		transformed[i] = yeoJohnson(x, lambda)
		logTerm += math.Copysign(math.Log1p(math.Abs(x)), x)
	}
	variance, err := stats.PopulationVariance(transformed)
	if err != nil || variance <= 0 {
		return math.Inf(-1)
	}
	return -n/2*math.Log(variance) + (lambda-1)*logTerm
}

// standardize rescales xs in place to zero mean and unit variance.
func standardize(xs []float64) error {
	mean, err := stats.Mean(xs)
	if err != nil {
		return err
	}
	sd, err := stats.StandardDeviationPopulation(xs)
	if err != nil {
		return err
	}
	if sd == 0 {
		sd = 1
	}
	for i := range xs {
		xs[i] = (xs[i] - mean) / sd
	}
	return nil
}
