package transform

import (
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// Probability clipping keeps the normal inverse CDF finite at the sample
// extremes, matching the bounds used by reference quantile transformers.
const (
	quantileCount = 1000
	pClipLow      = 1e-7
	pClipHigh     = 1 - 1e-7
)

// applyQuantileNormal maps the column through its empirical CDF into the
// standard normal inverse CDF. The transform is fit per column on its usable
// values; the mapping is fully determined by the data, so repeated calls are
// identical.
func applyQuantileNormal(values []table.Value) ([]table.Value, error) {
	xs, pos := numericSubset(values)
	if len(xs) < 2 {
		return nil, errors.TransformFailure("quantile transform requires at least 2 numeric values, got %d", len(xs))
	}

	refs, quants := fitQuantiles(xs)
	normal := distuv.Normal{Mu: 0, Sigma: 1}

	out := make([]float64, len(xs))
	for i, x := range xs {
		p := interpolateCDF(x, quants, refs)
		if p < pClipLow {
			p = pClipLow
		} else if p > pClipHigh {
			p = pClipHigh
		}
		out[i] = normal.Quantile(p)
	}
	return rebuild(len(values), pos, out), nil
}

// fitQuantiles computes the reference probability grid and the matching
// sample quantiles (linear interpolation, capped at min(1000, n) landmarks).
func fitQuantiles(xs []float64) (refs, quants []float64) {
	nq := quantileCount
	if len(xs) < nq {
		nq = len(xs)
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	refs = make([]float64, nq)
	quants = make([]float64, nq)
	for i := 0; i < nq; i++ {
		p := float64(i) / float64(nq-1)
		refs[i] = p
		quants[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return refs, quants
}

// interpolateCDF maps a value onto [0,1] through the fitted quantile grid.
// Runs of equal quantiles (heavy ties) map to the midpoint of their
// probability span so tied inputs share one output.
func interpolateCDF(x float64, quants, refs []float64) float64 {
	n := len(quants)
	if x <= quants[0] {
		return refs[0]
	}
	if x >= quants[n-1] {
		return refs[n-1]
	}

	// First landmark at or above x.
	hi := sort.SearchFloat64s(quants, x)
	if quants[hi] == x {
		lo := hi
		for hi < n-1 && quants[hi+1] == x {
			hi++
		}
		return (refs[lo] + refs[hi]) / 2
	}

	lo := hi - 1
	span := quants[hi] - quants[lo]
	frac := (x - quants[lo]) / span
	return refs[lo] + frac*(refs[hi]-refs[lo])
}
