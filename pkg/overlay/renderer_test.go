package overlay

import (
	"bytes"
	"testing"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

func overlaySchema() *schema.Schema {
	return &schema.Schema{Fields: []schema.FieldSpec{
		{Name: "patient", Type: schema.FieldTypeText, Label: "Patient",
			Position: schema.Position{X: 2, Y: 3, Width: 8}},
		{Name: "consent", Type: schema.FieldTypeBoolean, Label: "Consent",
			Position: schema.Position{X: 2, Y: 5, Width: 0.5}},
	}}
}

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(overlaySchema(), map[string]any{"patient": "Ada Lovelace"}, 595.28, 841.89)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
}

func TestRender_BooleanChangesOutput(t *testing.T) {
	s := overlaySchema()
	checked, err := Render(s, map[string]any{"consent": true}, 595.28, 841.89)
	if err != nil {
		t.Fatal(err)
	}
	unchecked, err := Render(s, map[string]any{"consent": false}, 595.28, 841.89)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(checked, unchecked) {
		t.Fatal("checked and unchecked overlays must differ")
	}
}

func TestRender_InvalidPageSize(t *testing.T) {
	if _, err := Render(overlaySchema(), nil, 0, 841.89); err == nil {
		t.Fatal("expected an error for zero page width")
	}
	if _, err := Render(overlaySchema(), nil, 595.28, -1); err == nil {
		t.Fatal("expected an error for negative page height")
	}
}

func TestFontFace(t *testing.T) {
	cases := map[string]string{
		"":          DefaultFontFace,
		"helvetica": "Helvetica",
		"Arial":     "Helvetica",
		" COURIER ": "Courier",
		"times":     "Times",
		"wingdings": DefaultFontFace,
	}
	for declared, want := range cases {
		if got := FontFace(declared); got != want {
			t.Fatalf("FontFace(%q) = %q, want %q", declared, got, want)
		}
	}
}
