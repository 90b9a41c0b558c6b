package analysis

import (
	"math"
	"testing"

	"biaslens/domain/table"
	"biaslens/internal/errors"
)

func numericColumn(xs ...float64) []table.Value {
	values := make([]table.Value, len(xs))
	for i, x := range xs {
		values[i] = table.Number(x)
	}
	return values
}

func TestSkewnessSymmetric(t *testing.T) {
	skew, err := Skewness(numericColumn(1, 2, 3, 4, 5))
	if err != nil {
		t.Fatalf("Skewness: %v", err)
	}
	if skew == nil {
		t.Fatal("expected a skewness value")
	}
	if math.Abs(*skew) > 1e-9 {
		t.Errorf("symmetric data should have skewness 0, got %v", *skew)
	}
}

func TestSkewnessRightSkewed(t *testing.T) {
	skew, err := Skewness(numericColumn(1, 1, 1, 1, 100))
	if err != nil {
		t.Fatalf("Skewness: %v", err)
	}
	if skew == nil || *skew <= 0 {
		t.Errorf("long right tail should give positive skewness, got %v", skew)
	}
}

func TestSkewnessAdjustmentFactor(t *testing.T) {
	// For {0, 0, 1}: mean 1/3, g1 = m3/m2^1.5 with adjustment
	// sqrt(n(n-1))/(n-2) = sqrt(6).
	xs := []float64{0, 0, 1}
	got := SampleSkewness(xs)

	mean := 1.0 / 3.0
	m2, m3 := 0.0, 0.0
	for _, x := range xs {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= 3
	m3 /= 3
	want := m3 / math.Pow(m2, 1.5) * math.Sqrt(6)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("SampleSkewness = %v, want %v", got, want)
	}
}

func TestSkewnessTwoValues(t *testing.T) {
	skew, err := Skewness(numericColumn(1, 5))
	if err != nil {
		t.Fatalf("Skewness: %v", err)
	}
	if skew == nil || *skew != 0 {
		t.Errorf("two values are always symmetric, got %v", skew)
	}
}

func TestSkewnessInsufficientData(t *testing.T) {
	_, err := Skewness(numericColumn(7))
	if err == nil {
		t.Fatal("single value should fail")
	}
	if !errors.HasCode(err, errors.CodeInsufficientData) {
		t.Errorf("wrong error code: %v", err)
	}
}

func TestSkewnessEmptyAndNonNumeric(t *testing.T) {
	skew, err := Skewness(nil)
	if err != nil || skew != nil {
		t.Errorf("empty column: got (%v, %v), want (nil, nil)", skew, err)
	}

	values := []table.Value{table.String("a"), table.String("b"), table.Missing()}
	skew, err = Skewness(values)
	if err != nil || skew != nil {
		t.Errorf("all-non-numeric column: got (%v, %v), want (nil, nil)", skew, err)
	}
}

func TestSkewnessCoercesNumericStrings(t *testing.T) {
	values := []table.Value{table.String("1"), table.Number(2), table.String("3"), table.String("x")}
	xs := NumericValues(values)
	if len(xs) != 3 {
		t.Errorf("NumericValues kept %d values, want 3", len(xs))
	}
}

func TestSkewnessConstantColumn(t *testing.T) {
	skew, err := Skewness(numericColumn(4, 4, 4, 4))
	if err != nil {
		t.Fatalf("Skewness: %v", err)
	}
	if skew == nil || *skew != 0 {
		t.Errorf("constant column skewness = %v, want 0", skew)
	}
}

func TestInterpretSkewness(t *testing.T) {
	ptr := func(f float64) *float64 { return &f }
	tests := []struct {
		skew *float64
		want string
	}{
		{nil, "N/A"},
		{ptr(0.1), "Symmetric"},
		{ptr(0.8), "Slightly right-skewed"},
		{ptr(-0.8), "Slightly left-skewed"},
		{ptr(1.5), "Moderately right-skewed"},
		{ptr(-3.2), "Highly left-skewed"},
	}
	for _, tt := range tests {
		if got := InterpretSkewness(tt.skew); got.Label != tt.want {
			t.Errorf("InterpretSkewness(%v).Label = %q, want %q", tt.skew, got.Label, tt.want)
		}
	}
}
