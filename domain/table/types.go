package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a cell holds.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

// Value is a single typed cell: a number, a categorical string, or missing.
// The zero value is missing.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Missing returns the missing value.
func Missing() Value {
	return Value{kind: KindMissing}
}

// Number wraps a float64. NaN and infinities collapse to missing so that
// downstream statistics never see non-finite cells.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{kind: KindNumber, num: f}
}

// String wraps a categorical string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// missingTokens are cell spellings treated as missing on ingest.
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true, "none": true,
}

// FromCell parses a raw file cell into a typed Value. Numeric-looking cells
// become numbers, recognized missing tokens become missing, everything else
// stays a string.
func FromCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Value{kind: KindString, str: s}
}

// Kind reports the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsNumber coerces the value to a float64. String cells are parsed; cells
// that cannot be coerced report false.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Display renders the value for output files and distribution keys.
// Integral floats print without a decimal point so round-tripped CSVs stay
// stable.
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports exact equality of two cells.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	default:
		return true
	}
}
