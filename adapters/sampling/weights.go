package sampling

import (
	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/analysis"
)

// ClassWeights computes balanced class weights for a target column:
// weight_c = n_samples / (n_classes x n_samples_c). Every row belongs to a
// class (missing cells form their own class), so the weights are defined for
// non-empty input.
func ClassWeights(values []table.Value) map[string]float64 {
	counts := make(map[string]int)
	for _, v := range values {
		counts[analysis.ClassLabel(v)]++
	}
	n := float64(len(values))
	k := float64(len(counts))

	weights := make(map[string]float64, len(counts))
	for _, class := range policy.SortedClasses(counts) {
		weights[class] = n / (k * float64(counts[class]))
	}
	return weights
}
