package schema

import "sort"

// FieldType enumerates the input kinds a document field can declare.
type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeMultilineText  FieldType = "multiline_text"
	FieldTypeEmail          FieldType = "email"
	FieldTypeInteger        FieldType = "integer"
	FieldTypeDecimal        FieldType = "decimal"
	FieldTypeDate           FieldType = "date"
	FieldTypeDatetime       FieldType = "datetime"
	FieldTypeBoolean        FieldType = "boolean"
	FieldTypeSingleChoice   FieldType = "single_choice"
	FieldTypeMultipleChoice FieldType = "multiple_choice"
)

// fieldTypes is the closed set accepted by the validator.
var fieldTypes = map[FieldType]struct{}{
	FieldTypeText:           {},
	FieldTypeMultilineText:  {},
	FieldTypeEmail:          {},
	FieldTypeInteger:        {},
	FieldTypeDecimal:        {},
	FieldTypeDate:           {},
	FieldTypeDatetime:       {},
	FieldTypeBoolean:        {},
	FieldTypeSingleChoice:   {},
	FieldTypeMultipleChoice: {},
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// Choice reports whether the type sources its value from an option list.
func (t FieldType) Choice() bool {
	return t == FieldTypeSingleChoice || t == FieldTypeMultipleChoice
}

// Textual reports whether the type accepts free text and honours MaxLength.
func (t FieldType) Textual() bool {
	return t == FieldTypeText || t == FieldTypeMultilineText || t == FieldTypeEmail
}

// IconPrefix is the mandatory prefix for section icon names.
const IconPrefix = "bi-"

// Font size bounds accepted for a field.
const (
	MinFontSize = 6
	MaxFontSize = 72
)

// Position locates a field on the page. Units are centimeters with the
// origin at the page's top-left corner.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// FieldSpec describes one named, typed, positioned datum in a schema.
type FieldSpec struct {
	Name           string    `json:"name"`
	Type           FieldType `json:"type"`
	Label          string    `json:"label"`
	Required       bool      `json:"required,omitempty"`
	HelpText       string    `json:"help_text,omitempty"`
	MaxLength      int       `json:"max_length,omitempty"`
	Choices        []string  `json:"choices,omitempty"`
	Position       Position  `json:"position"`
	FontSize       int       `json:"font_size,omitempty"`
	Section        string    `json:"section,omitempty"`
	FieldOrder     int       `json:"field_order,omitempty"`
	DataSource     string    `json:"data_source,omitempty"`
	DataSourceKey  string    `json:"data_source_key,omitempty"`
	LinkedReadonly bool      `json:"linked_readonly,omitempty"`
	IsPrimary      bool      `json:"is_primary,omitempty"`
	AutoFill       string    `json:"auto_fill,omitempty"`
}

// SectionSpec groups fields for display. Order is unique across the schema.
type SectionSpec struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
	Collapsed   bool   `json:"collapsed,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Record is one row of a data source.
type Record map[string]any

// DataSource is a named, ordered lookup table.
type DataSource struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Schema is the canonical in-memory form of a document schema. Fields keep
// their definition order from the source document; primary-field detection
// for linked data sources depends on it.
type Schema struct {
	Fields   []FieldSpec            `json:"fields"`
	Sections map[string]SectionSpec `json:"sections,omitempty"`
	Sources  map[string]DataSource  `json:"data_sources,omitempty"`
	Font     string                 `json:"font,omitempty"`
}

// Empty reports whether the schema has no fields configured yet. An empty
// schema is legal; it just cannot produce an input form.
func (s *Schema) Empty() bool {
	return s == nil || len(s.Fields) == 0
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Source looks up a data source by name.
func (s *Schema) Source(name string) (DataSource, bool) {
	if s == nil {
		return DataSource{}, false
	}
	src, ok := s.Sources[name]
	return src, ok
}

// OrderedSections returns the sections sorted by ascending Order.
func (s *Schema) OrderedSections() []SectionSpec {
	if s == nil || len(s.Sections) == 0 {
		return nil
	}
	out := make([]SectionSpec, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Sectioned reports whether section grouping applies: sections exist and at
// least one field names one.
func (s *Schema) Sectioned() bool {
	if s == nil || len(s.Sections) == 0 {
		return false
	}
	for _, f := range s.Fields {
		if f.Section != "" {
			return true
		}
	}
	return false
}
