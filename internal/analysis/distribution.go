// Package analysis computes the detection-side statistics: categorical value
// distributions with imbalance severity, numeric skewness, and column
// classification.
package analysis

import (
	"math"

	"biaslens/domain/policy"
	"biaslens/domain/table"
)

// MissingClassLabel stands in for missing target values when every row,
// missing or not, has to belong to a class.
const MissingClassLabel = "(missing)"

// DistributionResult is the outcome of imbalance detection on one column.
type DistributionResult struct {
	Proportions map[string]float64 `json:"proportions,omitempty"`
	Severity    policy.Severity    `json:"severity"`
	Ratio       float64            `json:"imbalance_ratio"`
	Note        string             `json:"note,omitempty"`
}

// AnalyzeDistribution computes normalized value frequencies for a categorical
// column and grades the imbalance. Missing cells are dropped; a column that
// is absent or all-missing reports severity N/A with a note. Proportions are
// rounded to 6 decimal places and sum to 1 over the observed values.
func AnalyzeDistribution(tbl *table.Table, column string) DistributionResult {
	values, err := tbl.Column(column)
	if err != nil {
		return DistributionResult{Severity: policy.SeverityNA, Note: "Column not found"}
	}

	counts := make(map[string]int)
	total := 0
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		counts[v.Display()]++
		total++
	}
	if total == 0 {
		return DistributionResult{Severity: policy.SeverityNA, Note: "No data"}
	}

	proportions := make(map[string]float64, len(counts))
	minP, maxP := math.Inf(1), 0.0
	for val, c := range counts {
		p := round6(float64(c) / float64(total))
		proportions[val] = p
		if p < minP {
			minP = p
		}
		if p > maxP {
			maxP = p
		}
	}

	// Single class is maximal imbalance; a zero majority cannot happen with
	// non-empty data but is guarded anyway.
	ratio := 0.0
	if len(proportions) > 1 && maxP > 0 {
		ratio = minP / maxP
	}

	return DistributionResult{
		Proportions: proportions,
		Severity:    policy.SeverityForRatio(ratio),
		Ratio:       ratio,
	}
}

// DetectImbalance runs AnalyzeDistribution over several categorical columns.
func DetectImbalance(tbl *table.Table, categoricalColumns []string) map[string]DistributionResult {
	result := make(map[string]DistributionResult, len(categoricalColumns))
	for _, col := range categoricalColumns {
		result[col] = AnalyzeDistribution(tbl, col)
	}
	return result
}

// ClassStats summarizes a target column over all rows, missing included, for
// before/after correction reporting.
type ClassStats struct {
	Counts       map[string]int     `json:"counts"`
	Distribution map[string]float64 `json:"distribution"`
	Total        int                `json:"total"`
}

// ClassDistribution counts every row's class. Unlike AnalyzeDistribution it
// keeps missing values as their own class so totals always match the row
// count.
func ClassDistribution(tbl *table.Table, targetColumn string) (ClassStats, error) {
	values, err := tbl.Column(targetColumn)
	if err != nil {
		return ClassStats{}, err
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[ClassLabel(v)]++
	}
	dist := make(map[string]float64, len(counts))
	for class, c := range counts {
		dist[class] = round6(float64(c) / float64(len(values)))
	}
	return ClassStats{Counts: counts, Distribution: dist, Total: len(values)}, nil
}

// ClassLabel stringifies a target cell, mapping missing to its sentinel
// class.
func ClassLabel(v table.Value) string {
	if v.IsMissing() {
		return MissingClassLabel
	}
	return v.Display()
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
