package widgets

import (
	"testing"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

func TestRegistry_Builtins(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		typ  schema.FieldType
		want string
	}{
		{schema.FieldTypeText, WidgetInput},
		{schema.FieldTypeEmail, WidgetInput},
		{schema.FieldTypeMultilineText, WidgetTextarea},
		{schema.FieldTypeInteger, WidgetNumber},
		{schema.FieldTypeDecimal, WidgetNumber},
		{schema.FieldTypeDate, WidgetDatePicker},
		{schema.FieldTypeDatetime, WidgetDatetimePicker},
		{schema.FieldTypeBoolean, WidgetCheckbox},
		{schema.FieldTypeSingleChoice, WidgetSelect},
		{schema.FieldTypeMultipleChoice, WidgetMultiSelect},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			got, ok := reg.Resolve(schema.FieldSpec{Name: "f", Type: tc.typ})
			if !ok {
				t.Fatalf("no widget resolved for %s", tc.typ)
			}
			if got != tc.want {
				t.Fatalf("widget = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	reg := NewRegistry()
	if name, ok := reg.Resolve(schema.FieldSpec{Type: "mystery"}); ok {
		t.Fatalf("unexpected widget %q for unknown type", name)
	}
}

func TestRegistry_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("signature-pad", 10, func(field schema.FieldSpec) bool {
		return field.Type == schema.FieldTypeText && field.Name == "signature"
	})

	got, ok := reg.Resolve(schema.FieldSpec{Name: "signature", Type: schema.FieldTypeText})
	if !ok || got != "signature-pad" {
		t.Fatalf("resolve = %q, %v; want signature-pad", got, ok)
	}

	// Other text fields still land on the builtin.
	got, ok = reg.Resolve(schema.FieldSpec{Name: "notes", Type: schema.FieldTypeText})
	if !ok || got != WidgetInput {
		t.Fatalf("resolve = %q, %v; want %s", got, ok, WidgetInput)
	}
}

func TestRegistry_TieBreaksByRegistrationOrder(t *testing.T) {
	reg := &Registry{}
	always := func(schema.FieldSpec) bool { return true }
	reg.Register("first", 5, always)
	reg.Register("second", 5, always)

	got, ok := reg.Resolve(schema.FieldSpec{Type: schema.FieldTypeText})
	if !ok || got != "first" {
		t.Fatalf("resolve = %q, %v; want first", got, ok)
	}
}

func TestRegistry_IgnoresBlankAndNil(t *testing.T) {
	reg := &Registry{}
	reg.Register("  ", 0, func(schema.FieldSpec) bool { return true })
	reg.Register("noop", 0, nil)
	if name, ok := reg.Resolve(schema.FieldSpec{Type: schema.FieldTypeText}); ok {
		t.Fatalf("unexpected widget %q", name)
	}
}
