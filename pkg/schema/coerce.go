package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// AsNumber coerces a raw document value to a float64. Strings are parsed so
// hand-edited documents that quote coordinates still load.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt coerces a raw document value to an int. Fractional numbers do not
// qualify.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// AsBool coerces a raw document value to a bool.
func AsBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off", "":
			return false, true
		}
	}
	return false, false
}

// AsString coerces a raw document value to a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsStringList coerces a raw document value to a list of strings,
// stringifying scalar elements.
func AsStringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			return strs, true
		}
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case nil:
			continue
		default:
			out = append(out, fmt.Sprintf("%v", s))
		}
	}
	return out, true
}
