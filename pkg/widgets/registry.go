// Package widgets maps schema field types onto input-widget kinds. The
// mapping is a data-driven table consumed by whatever UI layer renders the
// form; nothing here constructs widgets at runtime.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput          = "input"
	WidgetTextarea       = "textarea"
	WidgetNumber         = "number"
	WidgetDatePicker     = "date-picker"
	WidgetDatetimePicker = "datetime-picker"
	WidgetCheckbox       = "checkbox"
	WidgetSelect         = "select"
	WidgetMultiSelect    = "multiselect"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field schema.FieldSpec) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on registered matchers. Higher
// priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in type table registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence over the builtins, which register at zero.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field.
func (r *Registry) Resolve(field schema.FieldSpec) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

func (r *Registry) registerBuiltins() {
	byType := func(types ...schema.FieldType) Matcher {
		return func(field schema.FieldSpec) bool {
			for _, t := range types {
				if field.Type == t {
					return true
				}
			}
			return false
		}
	}

	r.Register(WidgetInput, 0, byType(schema.FieldTypeText, schema.FieldTypeEmail))
	r.Register(WidgetTextarea, 0, byType(schema.FieldTypeMultilineText))
	r.Register(WidgetNumber, 0, byType(schema.FieldTypeInteger, schema.FieldTypeDecimal))
	r.Register(WidgetDatePicker, 0, byType(schema.FieldTypeDate))
	r.Register(WidgetDatetimePicker, 0, byType(schema.FieldTypeDatetime))
	r.Register(WidgetCheckbox, 0, byType(schema.FieldTypeBoolean))
	r.Register(WidgetSelect, 0, byType(schema.FieldTypeSingleChoice))
	r.Register(WidgetMultiSelect, 0, byType(schema.FieldTypeMultipleChoice))
}
