package form

import "github.com/carlosapgomes/eqmd-sub001/pkg/schema"

// Validation rule kinds attached to generated fields.
const (
	RuleRequired  = "required"
	RuleMaxLength = "maxLength"
	RuleEmail     = "email"
	RuleInteger   = "integer"
)

// ValidationRule is a single declarative constraint a field-level widget
// should enforce. Thresholds live in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models one input inside a generated form definition.
type Field struct {
	Name        string           `json:"name"`
	Type        schema.FieldType `json:"type"`
	Widget      string           `json:"widget"`
	Label       string           `json:"label"`
	Required    bool             `json:"required"`
	HelpText    string           `json:"helpText,omitempty"`
	MaxLength   int              `json:"maxLength,omitempty"`
	Choices     []string         `json:"choices,omitempty"`
	Initial     any              `json:"initial,omitempty"`
	ReadOnly    bool             `json:"readOnly,omitempty"`
	Order       int              `json:"order,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// TypeName returns the schema type as a plain string. Template engines
// compare it against literals, which a named string type would not match.
func (f Field) TypeName() string { return string(f.Type) }

// Section is an ordered group of fields for display purposes only.
type Section struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Collapsed   bool    `json:"collapsed,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Fields      []Field `json:"fields"`
}

// Definition is the typed input form built from a validated schema. When
// Sectioned is false the whole form lives in Fields; otherwise Sections
// holds the grouped fields and Fields carries the residual unsectioned
// bucket, rendered after the sections.
type Definition struct {
	Sectioned bool      `json:"sectioned"`
	Sections  []Section `json:"sections,omitempty"`
	Fields    []Field   `json:"fields,omitempty"`
}

// AllFields returns every field in display order regardless of grouping.
func (d *Definition) AllFields() []Field {
	if d == nil {
		return nil
	}
	if !d.Sectioned {
		return d.Fields
	}
	var out []Field
	for _, sec := range d.Sections {
		out = append(out, sec.Fields...)
	}
	return append(out, d.Fields...)
}
