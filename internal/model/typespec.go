package model

import (
	"math"
	"strconv"
)

// TypeSpec carries the output typing constraints a law attaches to a value:
// unit, decimal precision and min/max clamping. Values are normalized against
// the spec before they are rendered.
type TypeSpec struct {
	Unit      string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Precision *int     `json:"precision,omitempty" yaml:"precision,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Enforce normalizes a value against the spec. Non-numeric values that cannot
// be parsed as numbers pass through untouched; nil stays nil. Eurocent units
// coerce to whole cents.
func (s *TypeSpec) Enforce(value any) any {
	if s == nil || value == nil {
		return value
	}

	num, ok := toFloat(value)
	if !ok {
		return value
	}

	if s.Min != nil && num < *s.Min {
		num = *s.Min
	}
	if s.Max != nil && num > *s.Max {
		num = *s.Max
	}

	if s.Precision != nil {
		factor := math.Pow(10, float64(*s.Precision))
		num = math.Round(num*factor) / factor
	}

	// Cent amounts are always whole
	if s.Unit == "eurocent" {
		return int(num)
	}

	if num == math.Trunc(num) && !isFloatInput(value) {
		return int(num)
	}
	return num
}

// toFloat coerces the numeric kinds a decoded tree can carry. Strings are
// parsed so hand-edited case files with quoted numbers still normalize.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func isFloatInput(value any) bool {
	switch value.(type) {
	case float64, float32:
		return true
	}
	return false
}
