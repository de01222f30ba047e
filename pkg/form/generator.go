// Package form turns a validated schema into a typed input-form definition:
// ordered fields with widget kinds, declarative validation rules, resolved
// choice lists, and auto-filled initial values.
package form

import (
	"sort"
	"strconv"

	"github.com/carlosapgomes/eqmd-sub001/pkg/lookup"
	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
	"github.com/carlosapgomes/eqmd-sub001/pkg/widgets"
)

// ConfigurationError reports a schema that is structurally valid but cannot
// perform the requested operation.
type ConfigurationError string

func (e ConfigurationError) Error() string { return "form: " + string(e) }

// ErrNoFields is returned when a template with an unconfigured schema is
// asked to produce an input form.
const ErrNoFields = ConfigurationError("schema has no fields configured")

// Options tune form generation.
type Options struct {
	// Context supplies auto-fill values for a fresh form. May be nil.
	Context lookup.ContextProvider
	// Submitted carries values the user already entered. When non-empty the
	// form is a re-render and auto-fill initials are not applied; submitted
	// values win unconditionally.
	Submitted map[string]any
	// Widgets overrides the widget registry. Nil selects the builtins.
	Widgets *widgets.Registry
}

// Build generates a Definition from a validated schema. It fails with
// ErrNoFields when the schema has no fields; everything else degrades per
// field rather than aborting the form.
func Build(s *schema.Schema, opts Options) (*Definition, error) {
	if s.Empty() {
		return nil, ErrNoFields
	}

	registry := opts.Widgets
	if registry == nil {
		registry = widgets.NewRegistry()
	}

	var initials map[string]any
	if len(opts.Submitted) == 0 {
		initials = lookup.InitialValues(s, opts.Context)
	}

	fields := make([]Field, 0, len(s.Fields))
	for _, spec := range s.Fields {
		fields = append(fields, buildField(s, spec, registry, opts.Submitted, initials))
	}

	if !s.Sectioned() {
		return &Definition{Fields: sortFlat(fields)}, nil
	}

	bySection := map[string][]Field{}
	var loose []Field
	for i, spec := range s.Fields {
		if spec.Section != "" {
			bySection[spec.Section] = append(bySection[spec.Section], fields[i])
			continue
		}
		loose = append(loose, fields[i])
	}

	def := &Definition{Sectioned: true}
	for _, sec := range s.OrderedSections() {
		def.Sections = append(def.Sections, Section{
			Key:         sec.Key,
			Label:       sec.Label,
			Description: sec.Description,
			Collapsed:   sec.Collapsed,
			Icon:        sec.Icon,
			Fields:      sortSectioned(bySection[sec.Key]),
		})
	}
	def.Fields = sortSectioned(loose)
	return def, nil
}

func buildField(s *schema.Schema, spec schema.FieldSpec, registry *widgets.Registry, submitted, initials map[string]any) Field {
	widget, _ := registry.Resolve(spec)

	field := Field{
		Name:      spec.Name,
		Type:      spec.Type,
		Widget:    widget,
		Label:     spec.Label,
		Required:  spec.Required,
		HelpText:  spec.HelpText,
		ReadOnly:  spec.LinkedReadonly,
		Order:     spec.FieldOrder,
		MaxLength: spec.MaxLength,
	}

	if spec.Type.Choice() {
		if len(spec.Choices) > 0 {
			field.Choices = spec.Choices
		} else {
			field.Choices = lookup.Choices(s, spec)
		}
	}

	if value, ok := submitted[spec.Name]; ok {
		field.Initial = value
	} else if value, ok := initials[spec.Name]; ok {
		field.Initial = value
	}

	field.Validations = buildRules(spec)
	return field
}

func buildRules(spec schema.FieldSpec) []ValidationRule {
	var rules []ValidationRule
	if spec.Required {
		rules = append(rules, ValidationRule{Kind: RuleRequired})
	}
	if spec.MaxLength > 0 && spec.Type.Textual() {
		rules = append(rules, ValidationRule{
			Kind:   RuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(spec.MaxLength)},
		})
	}
	if spec.Type == schema.FieldTypeEmail {
		rules = append(rules, ValidationRule{Kind: RuleEmail})
	}
	if spec.Type == schema.FieldTypeInteger {
		rules = append(rules, ValidationRule{Kind: RuleInteger})
	}
	return rules
}

// sortSectioned orders fields inside a section: explicit field_order first
// in ascending order, fields without one after, stable by field name.
func sortSectioned(fields []Field) []Field {
	sort.SliceStable(fields, func(i, j int) bool {
		oi, oj := fields[i].Order, fields[j].Order
		switch {
		case oi > 0 && oj > 0:
			if oi != oj {
				return oi < oj
			}
			return fields[i].Name < fields[j].Name
		case oi > 0:
			return true
		case oj > 0:
			return false
		default:
			return fields[i].Name < fields[j].Name
		}
	})
	return fields
}

// sortFlat keeps definition order for flat forms, honouring explicit
// field_order values when present. Legacy schemas carry no field_order, so
// they come out exactly as authored.
func sortFlat(fields []Field) []Field {
	sort.SliceStable(fields, func(i, j int) bool {
		oi, oj := fields[i].Order, fields[j].Order
		switch {
		case oi > 0 && oj > 0:
			return oi < oj
		case oi > 0:
			return true
		default:
			return false
		}
	})
	return fields
}
