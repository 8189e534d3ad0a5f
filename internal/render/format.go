package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Missing-value markers. The wording differs by requiredness so the
// presentation layer can carry urgency through to styling.
const (
	MissingRequired = "missing (required)"
	MissingOptional = "not provided"
)

// Format turns a runtime value into its display string. It is a pure
// function: no side effects, identical output for identical input.
//
// Mapping values are flattened exactly two levels deep as comma-joined
// "key: value" pairs; deeper nesting falls back to a generic string
// conversion. Go maps carry no iteration order, so keys are sorted
// lexicographically to keep output canonical.
func Format(value any, required bool) string {
	if value == nil {
		if required {
			return MissingRequired
		}
		return MissingOptional
	}

	switch v := value.(type) {
	case map[string]any:
		return formatMapping(v)
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = formatScalar(elem)
		}
		return strings.Join(parts, ", ")
	default:
		return formatScalar(v)
	}
}

// formatMapping flattens a mapping into "key: value" pairs. A value that is
// itself a mapping gets one extra level of "subkey: subval" pairs; anything
// deeper renders generically.
func formatMapping(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, key := range sortedKeys(m) {
		switch inner := m[key].(type) {
		case map[string]any:
			innerParts := make([]string, 0, len(inner))
			for _, ik := range sortedKeys(inner) {
				innerParts = append(innerParts, ik+": "+formatScalar(inner[ik]))
			}
			parts = append(parts, key+": "+strings.Join(innerParts, ", "))
		default:
			parts = append(parts, key+": "+formatScalar(m[key]))
		}
	}
	return strings.Join(parts, ", ")
}

// formatScalar renders a single non-mapping, non-sequence value.
// Numbers with a fractional part use fixed 5 decimal places; integral
// numbers render with no decimal point. This keeps floating-point noise out
// of monetary figures while preserving precision where it is meaningful.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 5, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
