// Package sanitize scrubs submitted field values before they are persisted
// or rendered. Values survive in shape; unsafe keys and null list elements
// are dropped, and string content is stripped of markup so a value is safe
// to echo into an HTML context later, not only onto a PDF page.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// safeKeyPattern mirrors the schema identifier policy: submitted keys that
// could not name a schema field are discarded outright.
var safeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var (
	policyOnce  sync.Once
	valuePolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})
	return valuePolicy
}

// Values sanitizes an untrusted submitted-values mapping. The function is
// deterministic, never mutates its input, and is idempotent: applying it to
// its own output returns an equal mapping.
func Values(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if !safeKeyPattern.MatchString(key) {
			continue
		}
		out[key] = value1(value)
	}
	return out
}

func value1(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return cleanString(val)
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, value1(item))
		}
		return out
	case []string:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, cleanString(item))
		}
		return out
	default:
		return cleanString(fmt.Sprintf("%v", val))
	}
}

func cleanString(s string) string {
	return strings.TrimSpace(policy().Sanitize(s))
}
