package sampling

import (
	"math/rand"
	"sort"

	"biaslens/domain/policy"
	"biaslens/domain/table"
)

// Oversample duplicates existing rows at random (with replacement) until
// every class reaches its target count under the strategy. All input rows
// appear in the output in their original order; duplicates are appended
// after them, grouped by class. Every output row is an exact copy of some
// input row.
func Oversample(tbl *table.Table, targetColumn string, strategy policy.SamplingStrategy) (*table.Table, error) {
	idx, err := buildClassIndex(tbl, targetColumn)
	if err != nil {
		return nil, err
	}
	targets, err := overTargets(idx, strategy)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(policy.RandomSeed))

	selected := make([]int, 0, tbl.RowCount())
	for i := 0; i < tbl.RowCount(); i++ {
		selected = append(selected, i)
	}
	for _, class := range idx.classes {
		rows := idx.rows[class]
		for extra := targets[class] - len(rows); extra > 0; extra-- {
			selected = append(selected, rows[rng.Intn(len(rows))])
		}
	}

	return tbl.SelectRows(selected)
}

// Undersample randomly drops rows from over-target classes until targets are
// met. The output is a subset of the input rows, each used at most once, in
// their original relative order.
func Undersample(tbl *table.Table, targetColumn string, strategy policy.SamplingStrategy) (*table.Table, error) {
	idx, err := buildClassIndex(tbl, targetColumn)
	if err != nil {
		return nil, err
	}
	targets, err := underTargets(idx, strategy)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(policy.RandomSeed))

	selected := make([]int, 0, tbl.RowCount())
	for _, class := range idx.classes {
		rows := idx.rows[class]
		target := targets[class]
		if target >= len(rows) {
			selected = append(selected, rows...)
			continue
		}
		perm := rng.Perm(len(rows))[:target]
		for _, p := range perm {
			selected = append(selected, rows[p])
		}
	}
	sort.Ints(selected)

	return tbl.SelectRows(selected)
}
