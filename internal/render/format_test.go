package render

import (
	"strings"
	"testing"
)

func TestFormat_MissingValueDistinction(t *testing.T) {
	required := Format(nil, true)
	optional := Format(nil, false)

	if required == optional {
		t.Errorf("Expected required and optional missing markers to differ, both were %q", required)
	}
	if required != MissingRequired {
		t.Errorf("Expected %q for required missing value, got %q", MissingRequired, required)
	}
	if optional != MissingOptional {
		t.Errorf("Expected %q for optional missing value, got %q", MissingOptional, optional)
	}
}

func TestFormat_Booleans(t *testing.T) {
	if got := Format(true, false); got != "yes" {
		t.Errorf("Expected 'yes' for true, got %q", got)
	}
	if got := Format(false, false); got != "no" {
		t.Errorf("Expected 'no' for false, got %q", got)
	}
}

func TestFormat_Numbers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"fractional float", 1234.5, "1234.50000"},
		{"integral float", 1234.0, "1234"},
		{"int", 1234, "1234"},
		{"int64", int64(99), "99"},
		{"zero", 0, "0"},
		{"negative fractional", -0.25, "-0.25000"},
		{"small fraction", 0.1, "0.10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.value, true)
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormat_IntegralNumbersHaveNoDecimalPoint(t *testing.T) {
	for _, v := range []float64{0, 1, -7, 1500, 123456789} {
		got := Format(v, false)
		if strings.Contains(got, ".") {
			t.Errorf("Expected no decimal point for integral %v, got %q", v, got)
		}
	}
}

func TestFormat_FractionalNumbersHaveFiveDecimals(t *testing.T) {
	for _, v := range []float64{0.5, 1234.5, -3.14159, 0.00001} {
		got := Format(v, false)
		idx := strings.Index(got, ".")
		if idx < 0 {
			t.Fatalf("Expected decimal point for %v, got %q", v, got)
		}
		if decimals := len(got) - idx - 1; decimals != 5 {
			t.Errorf("Expected 5 decimals for %v, got %d (%q)", v, decimals, got)
		}
	}
}

func TestFormat_MappingTwoLevelFlattening(t *testing.T) {
	value := map[string]any{
		"a": 1,
		"b": map[string]any{"x": 2, "y": 3},
	}

	got := Format(value, false)
	want := "a: 1, b: x: 2, y: 3"
	if got != want {
		t.Errorf("Format(mapping) = %q, want %q", got, want)
	}
}

func TestFormat_MappingDeeperNestingFallsBack(t *testing.T) {
	value := map[string]any{
		"outer": map[string]any{
			"inner": map[string]any{"deep": 1},
		},
	}

	got := Format(value, false)
	// The third level is not specially flattened; it renders generically.
	if !strings.HasPrefix(got, "outer: inner: ") {
		t.Errorf("Expected two flattened levels, got %q", got)
	}
	if !strings.Contains(got, "deep") {
		t.Errorf("Expected generic conversion of the deep mapping, got %q", got)
	}
}

func TestFormat_Sequence(t *testing.T) {
	got := Format([]any{1, "two", 3.5}, false)
	want := "1, two, 3.50000"
	if got != want {
		t.Errorf("Format(sequence) = %q, want %q", got, want)
	}
}

func TestFormat_StringPassthrough(t *testing.T) {
	if got := Format("besluit", false); got != "besluit" {
		t.Errorf("Expected literal string, got %q", got)
	}
}

func TestFormat_UnknownTypeFallsBack(t *testing.T) {
	type odd struct{ A int }
	got := Format(odd{A: 1}, false)
	if got == "" {
		t.Error("Expected a generic string conversion for unknown type, got empty string")
	}
}

func TestFormat_Pure(t *testing.T) {
	value := map[string]any{"b": 2, "a": 1, "c": map[string]any{"z": 9, "y": 8}}
	first := Format(value, true)
	for i := 0; i < 50; i++ {
		if got := Format(value, true); got != first {
			t.Fatalf("Format is not deterministic: %q vs %q", first, got)
		}
	}
}
