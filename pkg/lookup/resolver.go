// Package lookup resolves schema cross-references at form-build time:
// choice lists drawn from data sources, auto-filled initial values pulled
// from an external context record, and the primary/linked wiring that lets
// one selection drive a group of fields sharing a data source.
package lookup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// ContextProvider exposes the record a document is about. Attribute resolves
// a dot-separated path to a scalar; an absent or unresolvable path yields
// nil, never an error. Implementations must not panic.
type ContextProvider interface {
	Attribute(path string) any
}

// MapContext adapts a plain nested mapping to the ContextProvider contract.
// Useful for tests and CLI invocations that read context records from JSON.
type MapContext map[string]any

// Attribute walks dot-separated path segments through nested maps.
func (m MapContext) Attribute(path string) any {
	if len(m) == 0 || path == "" {
		return nil
	}
	var current any = map[string]any(m)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// Choices expands a field's data-source reference into its option list:
// records are scanned in order, the value under the field's source key is
// collected, and duplicates are dropped keeping first-seen order. A field
// without a data source yields nil.
func Choices(s *schema.Schema, field schema.FieldSpec) []string {
	if field.DataSource == "" || field.DataSourceKey == "" {
		return nil
	}
	source, ok := s.Source(field.DataSource)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(source.Records))
	out := make([]string, 0, len(source.Records))
	for _, record := range source.Records {
		raw, ok := record[field.DataSourceKey]
		if !ok || raw == nil {
			continue
		}
		value := stringify(raw)
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// InitialValues resolves auto-fill values for every field that declares a
// context attribute path. A lookup miss or a value that cannot be coerced to
// the field's declared type skips that field silently; a form must never
// fail to build because one optional auto-fill source is absent.
func InitialValues(s *schema.Schema, ctx ContextProvider) map[string]any {
	out := map[string]any{}
	if s == nil || ctx == nil {
		return out
	}
	for _, field := range s.Fields {
		if field.AutoFill == "" {
			continue
		}
		raw := ctx.Attribute(field.AutoFill)
		if raw == nil {
			continue
		}
		if value, ok := coerceInitial(field.Type, raw); ok {
			out[field.Name] = value
		}
	}
	return out
}

func coerceInitial(typ schema.FieldType, raw any) (any, bool) {
	switch typ {
	case schema.FieldTypeDate:
		if t, ok := raw.(time.Time); ok {
			return t.Format("2006-01-02"), true
		}
		if s, ok := raw.(string); ok {
			if t, err := time.Parse("2006-01-02", firstDatePart(s)); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return nil, false
	case schema.FieldTypeDatetime:
		if t, ok := raw.(time.Time); ok {
			return t.Format(time.RFC3339), true
		}
		if s, ok := raw.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.Format(time.RFC3339), true
			}
		}
		return nil, false
	case schema.FieldTypeBoolean:
		v, ok := schema.AsBool(raw)
		return v, ok
	case schema.FieldTypeInteger:
		v, ok := schema.AsInt(raw)
		return v, ok
	case schema.FieldTypeDecimal:
		v, ok := schema.AsNumber(raw)
		return v, ok
	default:
		return stringify(raw), true
	}
}

// firstDatePart tolerates RFC3339 timestamps handed to date fields.
func firstDatePart(s string) string {
	if idx := strings.IndexByte(s, 'T'); idx > 0 {
		return s[:idx]
	}
	return s
}

// LinkedGroup describes the fields sharing one data source. Primary names
// the field whose selection drives population of the others; fields marked
// linked_readonly never trigger propagation themselves.
type LinkedGroup struct {
	Source  string            `json:"source"`
	Primary string            `json:"primary"`
	Fields  map[string]string `json:"fields"` // field name -> source key
	Records []schema.Record   `json:"records"`
}

// LinkedFields maps each referenced data source to its field group. The
// primary field is the first one in definition order flagged is_primary, or
// failing that the first non-readonly field referencing the source.
func LinkedFields(s *schema.Schema) map[string]LinkedGroup {
	out := map[string]LinkedGroup{}
	if s == nil {
		return out
	}
	for _, field := range s.Fields {
		if field.DataSource == "" || field.DataSourceKey == "" {
			continue
		}
		source, ok := s.Source(field.DataSource)
		if !ok {
			continue
		}
		group, exists := out[field.DataSource]
		if !exists {
			group = LinkedGroup{
				Source:  field.DataSource,
				Fields:  map[string]string{},
				Records: source.Records,
			}
		}
		group.Fields[field.Name] = field.DataSourceKey
		if group.Primary == "" && !field.LinkedReadonly {
			group.Primary = field.Name
		}
		if field.IsPrimary && !field.LinkedReadonly {
			if prev, ok := s.Field(group.Primary); !ok || !prev.IsPrimary {
				group.Primary = field.Name
			}
		}
		out[field.DataSource] = group
	}
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", s)
	}
}
