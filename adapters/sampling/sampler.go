// Package sampling implements the resampling primitives behind imbalance
// correction: random oversampling, random undersampling, SMOTE for numeric
// features, SMOTE-NC for mixed features, and balanced class weights.
//
// Every sampler draws from a fresh rand.Rand seeded with policy.RandomSeed,
// so repeated calls with identical inputs produce identical output tables.
package sampling

import (
	"math"

	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
)

// classIndex groups row positions by target class.
type classIndex struct {
	classes []string         // sorted for deterministic iteration
	counts  map[string]int
	rows    map[string][]int // ascending row positions per class
}

func buildClassIndex(tbl *table.Table, targetColumn string) (*classIndex, error) {
	values, err := tbl.Column(targetColumn)
	if err != nil {
		return nil, errors.ValidationError("target column %q not found in dataset", targetColumn)
	}
	idx := &classIndex{
		counts: make(map[string]int),
		rows:   make(map[string][]int),
	}
	for i, v := range values {
		class := analysis.ClassLabel(v)
		idx.counts[class]++
		idx.rows[class] = append(idx.rows[class], i)
	}
	idx.classes = policy.SortedClasses(idx.counts)
	return idx, nil
}

// overTargets resolves per-class target counts for oversampling-style
// methods. Targets never fall below the current count.
func overTargets(idx *classIndex, strategy policy.SamplingStrategy) (map[string]int, error) {
	targets := make(map[string]int, len(idx.classes))
	majority := policy.MajorityCount(idx.counts)

	switch {
	case strategy.Auto:
		for _, class := range idx.classes {
			targets[class] = majority
		}
	case strategy.Targets != nil:
		for _, class := range idx.classes {
			targets[class] = idx.counts[class]
			if t, ok := strategy.Targets[class]; ok {
				if t < idx.counts[class] {
					return nil, errors.ValidationError(
						"oversample target %d for class %q is below its current count %d", t, class, idx.counts[class])
				}
				targets[class] = t
			}
		}
	default:
		// Scalar ratio: only defined for binary targets; the minority class
		// grows to ratio x majority.
		if len(idx.classes) != 2 {
			return nil, errors.ValidationError(
				"a scalar sampling strategy requires exactly 2 classes, got %d", len(idx.classes))
		}
		for _, class := range idx.classes {
			targets[class] = idx.counts[class]
		}
		minClass := minorityClass(idx)
		want := int(strategy.Ratio * float64(majority))
		if want < idx.counts[minClass] {
			return nil, errors.ValidationError(
				"ratio %g would shrink class %q from %d to %d samples; oversampling cannot remove rows",
				strategy.Ratio, minClass, idx.counts[minClass], want)
		}
		targets[minClass] = want
	}
	return targets, nil
}

// underTargets resolves per-class target counts for undersampling. Targets
// never exceed the current count.
func underTargets(idx *classIndex, strategy policy.SamplingStrategy) (map[string]int, error) {
	targets := make(map[string]int, len(idx.classes))
	minority := policy.MinorityCount(idx.counts)

	switch {
	case strategy.Auto:
		for _, class := range idx.classes {
			targets[class] = minority
		}
	case strategy.Targets != nil:
		for _, class := range idx.classes {
			targets[class] = idx.counts[class]
			if t, ok := strategy.Targets[class]; ok {
				if t > idx.counts[class] {
					return nil, errors.ValidationError(
						"undersample target %d for class %q exceeds its current count %d", t, class, idx.counts[class])
				}
				targets[class] = t
			}
		}
	default:
		// Scalar ratio: binary only; the majority class shrinks to
		// minority / ratio.
		if len(idx.classes) != 2 {
			return nil, errors.ValidationError(
				"a scalar sampling strategy requires exactly 2 classes, got %d", len(idx.classes))
		}
		for _, class := range idx.classes {
			targets[class] = idx.counts[class]
		}
		majClass := majorityClass(idx)
		want := int(math.Floor(float64(minority) / strategy.Ratio))
		if want > idx.counts[majClass] {
			return nil, errors.ValidationError(
				"ratio %g would grow class %q from %d to %d samples; undersampling cannot add rows",
				strategy.Ratio, majClass, idx.counts[majClass], want)
		}
		targets[majClass] = want
	}
	return targets, nil
}

func minorityClass(idx *classIndex) string {
	best, bestCount := "", math.MaxInt
	for _, class := range idx.classes {
		if idx.counts[class] < bestCount {
			best, bestCount = class, idx.counts[class]
		}
	}
	return best
}

func majorityClass(idx *classIndex) string {
	best, bestCount := "", -1
	for _, class := range idx.classes {
		if idx.counts[class] > bestCount {
			best, bestCount = class, idx.counts[class]
		}
	}
	return best
}
