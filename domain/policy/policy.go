// Package policy holds the shared numeric decision tables consumed by both
// the imbalance and skewness engines: ratio bands for class imbalance,
// skewness bands for transformation choice, and the sampling-strategy rules.
// The cutoffs are preserved as given by the product; they are not re-derived.
package policy

import (
	"fmt"
	"math"
	"sort"
)

// RandomSeed is the single process-wide seed used by every resampling and
// transform-fitting call. It is never mutated at runtime; identical inputs
// must produce identical outputs.
const RandomSeed int64 = 42

// MaxCategoricalCardinality is the distinct-value cutoff under which a
// numeric column still counts as a categorical correction target.
const MaxCategoricalCardinality = 20

// Severity labels class imbalance.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	SeverityNA       Severity = "N/A"
)

// Imbalance ratio bands (inclusive lower bounds).
const (
	RatioLowFloor      = 0.5
	RatioModerateFloor = 0.2
)

// SeverityForRatio maps an imbalance ratio (minority/majority proportion) to
// a severity label.
func SeverityForRatio(ratio float64) Severity {
	switch {
	case ratio >= RatioLowFloor:
		return SeverityLow
	case ratio >= RatioModerateFloor:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// SkewMethod names a skew-correcting transformation.
type SkewMethod string

const (
	SkewNone       SkewMethod = "none"
	SkewSquareRoot SkewMethod = "square_root"
	SkewLog        SkewMethod = "log"
	SkewSquare     SkewMethod = "squared_power"
	SkewCube       SkewMethod = "cubed_power"
	SkewYeoJohnson SkewMethod = "yeo_johnson"
	SkewQuantile   SkewMethod = "quantile"
)

// Label returns the user-facing method name.
func (m SkewMethod) Label() string {
	switch m {
	case SkewNone:
		return "None (already symmetric)"
	case SkewSquareRoot:
		return "Square Root"
	case SkewLog:
		return "Log Transformation"
	case SkewSquare:
		return "Squared Power"
	case SkewCube:
		return "Cubed Power"
	case SkewYeoJohnson:
		return "Yeo-Johnson"
	case SkewQuantile:
		return "Quantile Transformer"
	default:
		return string(m)
	}
}

// MethodForSkew selects the transformation for a skewness value. Band bounds
// are half-open exactly as the correction table specifies.
func MethodForSkew(s float64) SkewMethod {
	abs := math.Abs(s)
	switch {
	case abs <= 0.5:
		return SkewNone
	case s > 0.5 && s <= 1:
		return SkewSquareRoot
	case s > 1 && s <= 2:
		return SkewLog
	case s < -0.5 && s >= -1:
		return SkewSquare
	case s < -1 && s >= -2:
		return SkewCube
	case (s > 2 && s <= 3) || (s < -2 && s >= -3):
		return SkewYeoJohnson
	default:
		return SkewQuantile
	}
}

// CorrectionMethod names an imbalance correction.
type CorrectionMethod string

const (
	MethodOversample  CorrectionMethod = "oversample"
	MethodUndersample CorrectionMethod = "undersample"
	MethodSmote       CorrectionMethod = "smote"
	MethodReweight    CorrectionMethod = "reweight"
)

// ValidMethods lists the accepted correction method names.
var ValidMethods = []CorrectionMethod{MethodOversample, MethodUndersample, MethodSmote, MethodReweight}

// ParseCorrectionMethod validates a method name.
func ParseCorrectionMethod(s string) (CorrectionMethod, error) {
	m := CorrectionMethod(s)
	for _, v := range ValidMethods {
		if m == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported method %q: must be one of oversample, undersample, smote, reweight", s)
}

// SamplingStrategy tells a sampler how far to rebalance. Exactly one of the
// three shapes is active: Auto (balance every class to the majority count),
// a scalar Ratio for binary targets, or an explicit per-class target map.
type SamplingStrategy struct {
	Auto    bool
	Ratio   float64
	Targets map[string]int
}

// AutoStrategy is the default: every class is resampled to the majority
// count (or the minority count, for undersampling).
func AutoStrategy() SamplingStrategy { return SamplingStrategy{Auto: true} }

// String renders the strategy for response metadata.
func (s SamplingStrategy) String() string {
	switch {
	case s.Auto:
		return "auto"
	case s.Targets != nil:
		return "per-class"
	default:
		return fmt.Sprintf("%g", s.Ratio)
	}
}

// DeriveSamplingStrategy maps an optional threshold onto a sampler strategy.
//
// No threshold, a threshold outside (0,1], or a single-class target all give
// auto. A binary target gives the scalar threshold itself (downstream
// meaning: minority becomes threshold x majority). A multi-class target gives
// an explicit per-class map; any failure while building that map falls back
// to auto and is reported through the returned note rather than an error —
// the fallback is specified behavior, callers log it and continue.
func DeriveSamplingStrategy(counts map[string]int, method CorrectionMethod, threshold *float64) (SamplingStrategy, string) {
	if threshold == nil {
		return AutoStrategy(), ""
	}
	t := *threshold
	if !(t > 0 && t <= 1) || len(counts) < 2 {
		return AutoStrategy(), ""
	}
	if len(counts) == 2 {
		return SamplingStrategy{Ratio: t}, ""
	}
	targets, err := multiClassTargets(counts, method, t)
	if err != nil {
		return AutoStrategy(), fmt.Sprintf("per-class strategy derivation failed (%v), falling back to auto", err)
	}
	if len(targets) == 0 {
		// Nothing to resample; auto keeps the sampler well defined.
		return AutoStrategy(), ""
	}
	return SamplingStrategy{Targets: targets}, ""
}

func multiClassTargets(counts map[string]int, method CorrectionMethod, t float64) (map[string]int, error) {
	majority, minority := 0, math.MaxInt
	for _, c := range counts {
		if c <= 0 {
			return nil, fmt.Errorf("non-positive class count %d", c)
		}
		if c > majority {
			majority = c
		}
		if c < minority {
			minority = c
		}
	}

	targets := make(map[string]int)
	switch method {
	case MethodOversample, MethodSmote:
		// Each under-represented class moves a fraction t of the way up to
		// the majority count.
		for class, c := range counts {
			if c >= majority {
				continue
			}
			target := c + int(math.Round(float64(majority-c)*t))
			if target > c {
				targets[class] = target
			}
		}
	case MethodUndersample:
		// Every class is cut down toward minority/t.
		target := int(math.Floor(float64(minority) / t))
		if target < minority {
			return nil, fmt.Errorf("undersample target %d below minority count %d", target, minority)
		}
		for class, c := range counts {
			if c > target {
				targets[class] = target
			}
		}
	default:
		return nil, fmt.Errorf("method %q takes no per-class strategy", method)
	}
	return targets, nil
}

// SortedClasses returns class labels in deterministic (sorted) order, which
// fixes iteration order for all samplers.
func SortedClasses(counts map[string]int) []string {
	classes := make([]string, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// MajorityCount returns the largest class count.
func MajorityCount(counts map[string]int) int {
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}

// MinorityCount returns the smallest class count (0 for no classes).
func MinorityCount(counts map[string]int) int {
	first := true
	m := 0
	for _, c := range counts {
		if first || c < m {
			m = c
			first = false
		}
	}
	return m
}
