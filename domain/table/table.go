package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered sequence of rows over a fixed column set. Row identity
// is positional. All operations return new tables; the receiver is never
// mutated.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// AppendRow adds a row. Short rows are padded with missing cells, long rows
// are truncated, so the shared-column-set invariant always holds.
func (t *Table) AppendRow(row []Value) {
	r := make([]Value, len(t.Columns))
	for i := range r {
		if i < len(row) {
			r[i] = row[i]
		} else {
			r[i] = Missing()
		}
	}
	t.Rows = append(t.Rows, r)
}

// Column returns the values of a named column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	vals := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		vals[i] = row[idx]
	}
	return vals, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// SelectRows returns a new table holding the rows at the given positional
// indices, in the order given. Indices may repeat.
func (t *Table) SelectRows(indices []int) (*Table, error) {
	out := New(t.Columns)
	out.Rows = make([][]Value, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.Rows) {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", idx, len(t.Rows))
		}
		out.Rows = append(out.Rows, append([]Value(nil), t.Rows[idx]...))
	}
	return out, nil
}

// SelectColumns returns a new table restricted to the named columns, in the
// order given.
func (t *Table) SelectColumns(names []string) (*Table, error) {
	idxs := make([]int, len(names))
	for i, n := range names {
		idx, ok := t.ColumnIndex(n)
		if !ok {
			return nil, fmt.Errorf("column %q not found", n)
		}
		idxs[i] = idx
	}
	out := New(names)
	out.Rows = make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		sel := make([]Value, len(idxs))
		for i, idx := range idxs {
			sel[i] = row[idx]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// DropColumn returns a new table without the named column.
func (t *Table) DropColumn(name string) (*Table, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	keep := make([]string, 0, len(t.Columns)-1)
	for _, c := range t.Columns {
		if c != name {
			keep = append(keep, c)
		}
	}
	return t.SelectColumns(keep)
}

// WithColumn returns a new table where the named column is replaced by the
// given values (which must match the row count). A missing column is appended
// at the end.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	out := t.Clone()
	idx, ok := out.ColumnIndex(name)
	if !ok {
		out.Columns = append(out.Columns, name)
		idx = len(out.Columns) - 1
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], Missing())
		}
	}
	for i := range out.Rows {
		out.Rows[i][idx] = values[i]
	}
	return out, nil
}

// MissingCounts returns the number of missing cells per column.
func (t *Table) MissingCounts() map[string]int {
	counts := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		counts[c] = 0
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if v.IsMissing() {
				counts[t.Columns[i]]++
			}
		}
	}
	return counts
}

// Head returns the first n rows (or fewer).
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := New(t.Columns)
	for _, row := range t.Rows[:n] {
		out.Rows = append(out.Rows, append([]Value(nil), row...))
	}
	return out
}

// rowKey builds a dedup key over the given column indices.
func (t *Table) rowKey(row []Value, idxs []int) string {
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		if row[idx].IsMissing() {
			parts[i] = "\x00missing"
		} else {
			parts[i] = row[idx].Display()
		}
	}
	return strings.Join(parts, "\x1f")
}

// DropDuplicates returns a new table with duplicate rows removed, keeping the
// first occurrence. Duplication is judged over the subset columns, or all
// columns when subset is empty.
func (t *Table) DropDuplicates(subset []string) (*Table, error) {
	cols := subset
	if len(cols) == 0 {
		cols = t.Columns
	}
	idxs := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := t.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("column %q not found", c)
		}
		idxs[i] = idx
	}
	seen := make(map[string]bool, len(t.Rows))
	keep := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		key := t.rowKey(row, idxs)
		if !seen[key] {
			seen[key] = true
			keep = append(keep, i)
		}
	}
	return t.SelectRows(keep)
}

// DuplicateCount returns how many rows are duplicates of an earlier row over
// the subset columns (all columns when subset is empty).
func (t *Table) DuplicateCount(subset []string) (int, error) {
	deduped, err := t.DropDuplicates(subset)
	if err != nil {
		return 0, err
	}
	return len(t.Rows) - len(deduped.Rows), nil
}

// Equal reports structural equality: same columns in order, same rows with
// cell-exact values.
func (t *Table) Equal(o *Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// DistinctNonMissing returns the distinct non-missing display values of a
// column, sorted, plus the non-missing count.
func DistinctNonMissing(values []Value) ([]string, int) {
	seen := make(map[string]bool)
	n := 0
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		n++
		seen[v.Display()] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, n
}
