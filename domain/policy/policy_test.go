package policy

import (
	"testing"
)

func TestSeverityForRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Severity
	}{
		{1.0, SeverityLow},
		{0.5, SeverityLow},
		{0.499999, SeverityModerate},
		{0.2, SeverityModerate},
		{0.199999, SeveritySevere},
		{0.0, SeveritySevere},
	}
	for _, tt := range tests {
		if got := SeverityForRatio(tt.ratio); got != tt.want {
			t.Errorf("SeverityForRatio(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func TestMethodForSkew(t *testing.T) {
	tests := []struct {
		skew float64
		want SkewMethod
	}{
		{0, SkewNone},
		{0.5, SkewNone},
		{-0.5, SkewNone},
		{0.500001, SkewSquareRoot},
		{1, SkewSquareRoot},
		{1.000001, SkewLog},
		{2, SkewLog},
		{-0.500001, SkewSquare},
		{-1, SkewSquare},
		{-1.000001, SkewCube},
		{-2, SkewCube},
		{2.5, SkewYeoJohnson},
		{3, SkewYeoJohnson},
		{-2.5, SkewYeoJohnson},
		{-3, SkewYeoJohnson},
		{3.000001, SkewQuantile},
		{-3.000001, SkewQuantile},
		{10, SkewQuantile},
	}
	for _, tt := range tests {
		if got := MethodForSkew(tt.skew); got != tt.want {
			t.Errorf("MethodForSkew(%v) = %v, want %v", tt.skew, got, tt.want)
		}
	}
}

func TestSkewMethodLabel(t *testing.T) {
	tests := []struct {
		method SkewMethod
		want   string
	}{
		{SkewNone, "None (already symmetric)"},
		{SkewSquareRoot, "Square Root"},
		{SkewLog, "Log Transformation"},
		{SkewSquare, "Squared Power"},
		{SkewCube, "Cubed Power"},
		{SkewYeoJohnson, "Yeo-Johnson"},
		{SkewQuantile, "Quantile Transformer"},
	}
	for _, tt := range tests {
		if got := tt.method.Label(); got != tt.want {
			t.Errorf("%v.Label() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestParseCorrectionMethod(t *testing.T) {
	for _, valid := range []string{"oversample", "undersample", "smote", "reweight"} {
		if _, err := ParseCorrectionMethod(valid); err != nil {
			t.Errorf("ParseCorrectionMethod(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseCorrectionMethod("resample"); err == nil {
		t.Error("expected error for unknown method")
	}
	if _, err := ParseCorrectionMethod("Oversample"); err == nil {
		t.Error("method names are case sensitive")
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestDeriveSamplingStrategyAutoFallbacks(t *testing.T) {
	counts := map[string]int{"a": 10, "b": 5}

	tests := []struct {
		name      string
		counts    map[string]int
		threshold *float64
	}{
		{"nil threshold", counts, nil},
		{"zero threshold", counts, floatPtr(0)},
		{"negative threshold", counts, floatPtr(-0.5)},
		{"threshold above one", counts, floatPtr(1.5)},
		{"single class", map[string]int{"a": 10}, floatPtr(0.8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, note := DeriveSamplingStrategy(tt.counts, MethodOversample, tt.threshold)
			if !strategy.Auto {
				t.Errorf("expected auto strategy, got %+v", strategy)
			}
			if note != "" {
				t.Errorf("silent fallback expected, got note %q", note)
			}
		})
	}
}

func TestDeriveSamplingStrategyBinary(t *testing.T) {
	counts := map[string]int{"a": 100, "b": 20}
	strategy, note := DeriveSamplingStrategy(counts, MethodOversample, floatPtr(0.8))
	if strategy.Auto || strategy.Targets != nil {
		t.Fatalf("binary target should give a scalar ratio, got %+v", strategy)
	}
	if strategy.Ratio != 0.8 {
		t.Errorf("Ratio = %v, want 0.8", strategy.Ratio)
	}
	if note != "" {
		t.Errorf("unexpected note %q", note)
	}
}

func TestDeriveSamplingStrategyMultiClassOversample(t *testing.T) {
	counts := map[string]int{"a": 100, "b": 40, "c": 10}
	strategy, note := DeriveSamplingStrategy(counts, MethodOversample, floatPtr(0.5))
	if note != "" {
		t.Fatalf("unexpected note %q", note)
	}
	if strategy.Targets == nil {
		t.Fatalf("expected per-class targets, got %+v", strategy)
	}
	// b: 40 + round(60*0.5) = 70, c: 10 + round(90*0.5) = 55, a untouched.
	if strategy.Targets["b"] != 70 {
		t.Errorf("target for b = %d, want 70", strategy.Targets["b"])
	}
	if strategy.Targets["c"] != 55 {
		t.Errorf("target for c = %d, want 55", strategy.Targets["c"])
	}
	if _, ok := strategy.Targets["a"]; ok {
		t.Error("majority class should have no target")
	}
}

func TestDeriveSamplingStrategyMultiClassUndersample(t *testing.T) {
	counts := map[string]int{"a": 100, "b": 40, "c": 10}
	strategy, note := DeriveSamplingStrategy(counts, MethodUndersample, floatPtr(0.5))
	if note != "" {
		t.Fatalf("unexpected note %q", note)
	}
	// target = floor(10 / 0.5) = 20: a and b shrink, c stays.
	if strategy.Targets["a"] != 20 || strategy.Targets["b"] != 20 {
		t.Errorf("targets = %v, want a and b at 20", strategy.Targets)
	}
	if _, ok := strategy.Targets["c"]; ok {
		t.Error("class already below target should have no entry")
	}
}

func TestDeriveSamplingStrategyReweightFallsBack(t *testing.T) {
	counts := map[string]int{"a": 100, "b": 40, "c": 10}
	strategy, note := DeriveSamplingStrategy(counts, MethodReweight, floatPtr(0.5))
	if !strategy.Auto {
		t.Errorf("expected auto fallback, got %+v", strategy)
	}
	if note == "" {
		t.Error("fallback from a derivation failure should carry a note")
	}
}

func TestSortedClasses(t *testing.T) {
	counts := map[string]int{"c": 1, "a": 2, "b": 3}
	classes := SortedClasses(counts)
	want := []string{"a", "b", "c"}
	for i := range want {
		if classes[i] != want[i] {
			t.Fatalf("SortedClasses = %v, want %v", classes, want)
		}
	}
}

func TestMajorityMinorityCount(t *testing.T) {
	counts := map[string]int{"a": 7, "b": 3, "c": 12}
	if got := MajorityCount(counts); got != 12 {
		t.Errorf("MajorityCount = %d, want 12", got)
	}
	if got := MinorityCount(counts); got != 3 {
		t.Errorf("MinorityCount = %d, want 3", got)
	}
	if got := MinorityCount(map[string]int{}); got != 0 {
		t.Errorf("MinorityCount of empty = %d, want 0", got)
	}
}

func TestSamplingStrategyString(t *testing.T) {
	if got := AutoStrategy().String(); got != "auto" {
		t.Errorf("auto String() = %q", got)
	}
	if got := (SamplingStrategy{Ratio: 0.8}).String(); got != "0.8" {
		t.Errorf("ratio String() = %q", got)
	}
	if got := (SamplingStrategy{Targets: map[string]int{"a": 1}}).String(); got != "per-class" {
		t.Errorf("targets String() = %q", got)
	}
}
