// Package validation checks decoded schema documents before they are allowed
// anywhere near form generation or rendering. Violations accumulate; a
// caller editing a schema always sees every problem in one pass.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// identifierPattern is the safety policy for field names and section keys.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Violation describes one schema problem with enough location metadata for
// an editor UI to point at the offending field or section.
type Violation struct {
	Field    string `json:"field,omitempty"`
	Section  string `json:"section,omitempty"`
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	var loc string
	switch {
	case v.Field != "" && v.Property != "":
		loc = fmt.Sprintf("field %q, property %q: ", v.Field, v.Property)
	case v.Field != "":
		loc = fmt.Sprintf("field %q: ", v.Field)
	case v.Section != "" && v.Property != "":
		loc = fmt.Sprintf("section %q, property %q: ", v.Section, v.Property)
	case v.Section != "":
		loc = fmt.Sprintf("section %q: ", v.Section)
	}
	return loc + v.Message
}

// SchemaError carries the complete violation list for a rejected schema.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "schema validation failed"
	}
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return "schema validation failed: " + strings.Join(msgs, "; ")
}

// Result captures a validation outcome.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Err returns nil for a valid result, a *SchemaError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &SchemaError{Violations: r.Violations}
}

// Validate checks a decoded schema document. The input is never mutated. An
// empty field set and/or empty section set is valid: the schema just has not
// been configured yet.
func Validate(raw *schema.RawSchema) Result {
	if raw == nil {
		return Result{Violations: []Violation{{Message: "schema document is missing"}}}
	}

	var violations []Violation
	add := func(v Violation) { violations = append(violations, v) }

	validateSections(raw, add)
	validateSources(raw, add)
	for _, name := range raw.FieldNames {
		validateField(raw, name, raw.Fields[name], add)
	}

	return Result{Valid: len(violations) == 0, Violations: violations}
}

func validateField(raw *schema.RawSchema, name string, cfg schema.RawField, add func(Violation)) {
	if !identifierPattern.MatchString(name) {
		add(Violation{Field: name, Message: "field name must contain only letters, digits, and underscores"})
	}
	if cfg == nil {
		add(Violation{Field: name, Message: "field configuration must be a mapping"})
		return
	}

	typRaw, hasType := cfg["type"]
	if !hasType {
		add(Violation{Field: name, Property: "type", Message: "field type is required"})
	}
	typStr, _ := schema.AsString(typRaw)
	typ := schema.FieldType(typStr)
	if hasType && !typ.Valid() {
		add(Violation{Field: name, Property: "type", Message: fmt.Sprintf("unknown field type %q", typStr)})
	}

	if label, ok := schema.AsString(cfg["label"]); !ok || strings.TrimSpace(label) == "" {
		add(Violation{Field: name, Property: "label", Message: "field label is required"})
	}

	if v, present := cfg["position"]; present && v != nil {
		if _, ok := v.(map[string]any); !ok {
			add(Violation{Field: name, Property: "position", Message: "position must be a mapping"})
		}
	}
	coords := cfg.Coordinates()
	for _, prop := range []string{"x", "y", "width", "height"} {
		v, present := coords[prop]
		if !present || v == nil {
			continue
		}
		n, ok := schema.AsNumber(v)
		if !ok {
			add(Violation{Field: name, Property: prop, Message: fmt.Sprintf("%s must be a number", prop)})
			continue
		}
		if n < 0 {
			add(Violation{Field: name, Property: prop, Message: fmt.Sprintf("%s must not be negative", prop)})
		}
	}

	if v, present := cfg["font_size"]; present && v != nil {
		size, ok := schema.AsInt(v)
		if !ok || size < schema.MinFontSize || size > schema.MaxFontSize {
			add(Violation{Field: name, Property: "font_size",
				Message: fmt.Sprintf("font_size must be an integer between %d and %d", schema.MinFontSize, schema.MaxFontSize)})
		}
	}

	if v, present := cfg["field_order"]; present && v != nil {
		order, ok := schema.AsInt(v)
		if !ok || order <= 0 {
			add(Violation{Field: name, Property: "field_order", Message: "field_order must be a positive integer"})
		}
	}

	sourceName, _ := schema.AsString(cfg["data_source"])
	sourceKey, _ := schema.AsString(cfg["data_source_key"])
	if (sourceName == "") != (sourceKey == "") {
		add(Violation{Field: name, Property: "data_source",
			Message: "data_source and data_source_key must be set together"})
	}

	if typ.Choice() {
		choices, _ := schema.AsStringList(cfg["choices"])
		if len(choices) == 0 && sourceName == "" {
			add(Violation{Field: name, Property: "choices",
				Message: "choice fields need a non-empty choices list or a data_source"})
		}
	}

	if sectionKey, ok := schema.AsString(cfg["section"]); ok && sectionKey != "" {
		if _, exists := raw.Sections[sectionKey]; !exists {
			add(Violation{Field: name, Property: "section",
				Message: fmt.Sprintf("section %q is not defined", sectionKey)})
		}
	}

	if sourceName != "" && sourceKey != "" {
		records, exists := raw.Sources[sourceName]
		if !exists {
			add(Violation{Field: name, Property: "data_source",
				Message: fmt.Sprintf("data source %q is not defined", sourceName)})
			return
		}
		// Key presence is checked against the first record only. Sources with
		// heterogeneous records can hide a key missing from later rows; that
		// relaxed check is kept on purpose to avoid rejecting schemas the
		// system has always accepted.
		if len(records) == 0 {
			add(Violation{Field: name, Property: "data_source",
				Message: fmt.Sprintf("data source %q has no records", sourceName)})
			return
		}
		if _, ok := records[0][sourceKey]; !ok {
			add(Violation{Field: name, Property: "data_source_key",
				Message: fmt.Sprintf("key %q not present in data source %q", sourceKey, sourceName)})
		}
	}
}

func validateSections(raw *schema.RawSchema, add func(Violation)) {
	orders := map[int][]string{}
	for key, cfg := range raw.Sections {
		if !identifierPattern.MatchString(key) {
			add(Violation{Section: key, Message: "section key must contain only letters, digits, and underscores"})
		}
		if cfg == nil {
			add(Violation{Section: key, Message: "section configuration must be a mapping"})
			continue
		}
		if label, ok := schema.AsString(cfg["label"]); !ok || strings.TrimSpace(label) == "" {
			add(Violation{Section: key, Property: "label", Message: "section label is required"})
		}
		order, ok := schema.AsInt(cfg["order"])
		if !ok || order <= 0 {
			add(Violation{Section: key, Property: "order", Message: "section order must be a positive integer"})
		} else {
			orders[order] = append(orders[order], key)
		}
		if icon, ok := schema.AsString(cfg["icon"]); ok && icon != "" && !strings.HasPrefix(icon, schema.IconPrefix) {
			add(Violation{Section: key, Property: "icon",
				Message: fmt.Sprintf("icon name must start with %q", schema.IconPrefix)})
		}
	}
	for order, keys := range orders {
		if len(keys) > 1 {
			add(Violation{Message: fmt.Sprintf("section order %d is used by more than one section", order)})
		}
	}
}

func validateSources(raw *schema.RawSchema, add func(Violation)) {
	for name, records := range raw.Sources {
		for i, record := range records {
			if len(record) == 0 {
				add(Violation{Property: "data_sources",
					Message: fmt.Sprintf("data source %q record %d is empty", name, i)})
			}
		}
	}
}
