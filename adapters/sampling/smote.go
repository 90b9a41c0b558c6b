package sampling

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"biaslens/domain/policy"
	"biaslens/domain/table"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
)

// smoteNeighbors is the number of same-class nearest neighbors considered
// when interpolating synthetic samples.
const smoteNeighbors = 5

// Smote synthesizes minority-class samples by interpolating between a real
// sample and one of its k nearest same-class neighbors. Every non-target
// feature column must already be numeric; missing numeric cells are imputed
// with the column mean before synthesis.
//
// The output holds the (imputed) original rows first, synthetic rows after
// them, with the target column moved to the last position. Synthetic rows
// have no original-row correspondence.
func Smote(tbl *table.Table, targetColumn string, strategy policy.SamplingStrategy) (*table.Table, error) {
	idx, err := buildClassIndex(tbl, targetColumn)
	if err != nil {
		return nil, err
	}

	features, err := featureColumns(tbl, targetColumn)
	if err != nil {
		return nil, err
	}
	if bad := nonNumericFeatures(tbl, features); len(bad) > 0 {
		return nil, errors.FeatureTypeError(
			"SMOTE requires all non-target features to be numeric. Non-numeric columns: [%s]",
			strings.Join(bad, ", "))
	}

	matrix := buildNumericMatrix(tbl, features)
	targets, err := overTargets(idx, strategy)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(policy.RandomSeed))
	synthetic, synthClasses, err := synthesize(matrix, idx, targets, rng, nil)
	if err != nil {
		return nil, err
	}

	return assembleSmoteOutput(tbl, targetColumn, features, matrix, synthetic, synthClasses, nil)
}

// featureColumns lists every column except the target.
func featureColumns(tbl *table.Table, targetColumn string) ([]string, error) {
	if !tbl.HasColumn(targetColumn) {
		return nil, errors.ValidationError("target column %q not found in dataset", targetColumn)
	}
	features := make([]string, 0, len(tbl.Columns)-1)
	for _, c := range tbl.Columns {
		if c != targetColumn {
			features = append(features, c)
		}
	}
	return features, nil
}

func nonNumericFeatures(tbl *table.Table, features []string) []string {
	var bad []string
	for _, col := range features {
		values, _ := tbl.Column(col)
		if !analysis.IsNumericColumn(values) {
			bad = append(bad, col)
		}
	}
	return bad
}

// buildNumericMatrix coerces feature columns to float64s, imputing missing
// cells with the column mean (0 when a column has no usable values at all).
func buildNumericMatrix(tbl *table.Table, features []string) [][]float64 {
	n := tbl.RowCount()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, len(features))
	}
	for j, col := range features {
		values, _ := tbl.Column(col)
		present := analysis.NumericValues(values)
		mean := 0.0
		if len(present) > 0 {
			mean, _ = stats.Mean(present)
		}
		for i, v := range values {
			if f, ok := v.AsNumber(); ok {
				matrix[i][j] = f
			} else {
				matrix[i][j] = mean
			}
		}
	}
	return matrix
}

// nnMetric measures squared distance between two feature vectors. catDims
// marks label-encoded categorical dimensions; a differing category adds a
// fixed penalty instead of a coordinate difference (SMOTE-NC metric).
type nnMetric struct {
	catDims    map[int]bool
	catPenalty float64
}

func (m *nnMetric) squaredDistance(a, b []float64) float64 {
	d := 0.0
	for j := range a {
		if m != nil && m.catDims[j] {
			if a[j] != b[j] {
				d += m.catPenalty
			}
			continue
		}
		diff := a[j] - b[j]
		d += diff * diff
	}
	return d
}

// nearestNeighbors returns, for each member of rows, its k nearest other
// members, ordered by (distance, row index) for determinism.
func nearestNeighbors(matrix [][]float64, rows []int, k int, metric *nnMetric) map[int][]int {
	type candidate struct {
		row  int
		dist float64
	}
	neighbors := make(map[int][]int, len(rows))
	for _, i := range rows {
		cands := make([]candidate, 0, len(rows)-1)
		for _, j := range rows {
			if i == j {
				continue
			}
			cands = append(cands, candidate{row: j, dist: metric.squaredDistance(matrix[i], matrix[j])})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].row < cands[b].row
		})
		if len(cands) > k {
			cands = cands[:k]
		}
		nn := make([]int, len(cands))
		for x, c := range cands {
			nn[x] = c.row
		}
		neighbors[i] = nn
	}
	return neighbors
}

// synthesize generates the synthetic feature vectors for every class whose
// target exceeds its count. Continuous dimensions interpolate between the
// reference sample and a random neighbor; categorical dimensions (when a
// metric with catDims is given) take the majority value among the reference's
// neighbors, ties going to the smallest code.
func synthesize(matrix [][]float64, idx *classIndex, targets map[string]int, rng *rand.Rand, metric *nnMetric) ([][]float64, []string, error) {
	var synthetic [][]float64
	var synthClasses []string

	for _, class := range idx.classes {
		rows := idx.rows[class]
		need := targets[class] - len(rows)
		if need <= 0 {
			continue
		}
		if len(rows) < 2 {
			return nil, nil, errors.ValidationError(
				"SMOTE needs at least 2 samples in class %q to interpolate, got %d", class, len(rows))
		}
		k := smoteNeighbors
		if k > len(rows)-1 {
			k = len(rows) - 1
		}
		neighbors := nearestNeighbors(matrix, rows, k, metric)

		for s := 0; s < need; s++ {
			ref := rows[rng.Intn(len(rows))]
			nn := neighbors[ref]
			buddy := nn[rng.Intn(len(nn))]
			gap := rng.Float64()

			row := make([]float64, len(matrix[ref]))
			floats.SubTo(row, matrix[buddy], matrix[ref])
			floats.Scale(gap, row)
			floats.Add(row, matrix[ref])

			if metric != nil {
				for j := range row {
					if metric.catDims[j] {
						row[j] = majorityVote(matrix, nn, j)
					}
				}
			}
			synthetic = append(synthetic, row)
			synthClasses = append(synthClasses, class)
		}
	}
	return synthetic, synthClasses, nil
}

// majorityVote picks the most frequent code among the neighbors at dimension
// j, smallest code on ties.
func majorityVote(matrix [][]float64, neighbors []int, j int) float64 {
	votes := make(map[float64]int)
	for _, nb := range neighbors {
		votes[matrix[nb][j]]++
	}
	best, bestCount := 0.0, -1
	codes := make([]float64, 0, len(votes))
	for code := range votes {
		codes = append(codes, code)
	}
	sort.Float64s(codes)
	for _, code := range codes {
		if votes[code] > bestCount {
			best, bestCount = code, votes[code]
		}
	}
	return best
}

// assembleSmoteOutput rebuilds a table from the imputed matrix plus the
// synthetic rows: feature columns keep their order, the target column moves
// to the end (the resampler reconstructs the frame feature-first). decoders,
// when present, maps encoded categorical dimensions back to category values.
func assembleSmoteOutput(
	tbl *table.Table,
	targetColumn string,
	features []string,
	matrix [][]float64,
	synthetic [][]float64,
	synthClasses []string,
	decoders map[int]func(float64) table.Value,
) (*table.Table, error) {
	targetValues, err := tbl.Column(targetColumn)
	if err != nil {
		return nil, err
	}

	out := table.New(append(append([]string(nil), features...), targetColumn))
	appendRow := func(vec []float64, targetCell table.Value) {
		row := make([]table.Value, 0, len(vec)+1)
		for j, f := range vec {
			if dec, ok := decoders[j]; ok {
				row = append(row, dec(f))
			} else {
				row = append(row, table.Number(f))
			}
		}
		row = append(row, targetCell)
		out.AppendRow(row)
	}

	for i, vec := range matrix {
		appendRow(vec, table.FromCell(analysis.ClassLabel(targetValues[i])))
	}
	for i, vec := range synthetic {
		appendRow(vec, table.FromCell(synthClasses[i]))
	}
	if len(out.Rows) == 0 {
		return nil, fmt.Errorf("resampling produced an empty table")
	}
	return out, nil
}
