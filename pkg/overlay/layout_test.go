package overlay

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// fixedMeasure gives every character a fixed width so wrap points are
// predictable without real font metrics.
func fixedMeasure(perChar float64) MeasureFunc {
	return func(text string, _ float64) float64 {
		return float64(len(text)) * perChar
	}
}

func textLines(ops []Op) []string {
	var out []string
	for _, op := range ops {
		if t, ok := op.(TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func TestLayout_SkipsAbsentAndEmpty(t *testing.T) {
	s := &schema.Schema{Fields: []schema.FieldSpec{
		{Name: "a", Type: schema.FieldTypeText, Position: schema.Position{X: 1, Y: 1}},
		{Name: "b", Type: schema.FieldTypeText, Position: schema.Position{X: 1, Y: 2}},
		{Name: "c", Type: schema.FieldTypeText, Position: schema.Position{X: 1, Y: 3}},
		{Name: "d", Type: schema.FieldTypeText, Position: schema.Position{X: 1, Y: 4}},
	}}
	values := map[string]any{
		"a": "present",
		"b": nil,
		"c": "   ",
		// d absent entirely
	}
	ops := Layout(s, values, a4HeightPt, fixedMeasure(5))
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %#v", len(ops), ops)
	}
	if got := ops[0].(TextOp).Text; got != "present" {
		t.Fatalf("text = %q", got)
	}
}

func TestLayout_SingleLinePlacement(t *testing.T) {
	field := schema.FieldSpec{
		Name: "name", Type: schema.FieldTypeText, FontSize: 10,
		Position: schema.Position{X: 2, Y: 3, Width: 8, Height: 0.7},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	ops := Layout(s, map[string]any{"name": "Ada"}, a4HeightPt, fixedMeasure(5))
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(ops))
	}
	op := ops[0].(TextOp)
	wantX, wantY := Baseline(field.Position, 10, a4HeightPt)
	if !near(op.X, wantX) || !near(op.Y, wantY) {
		t.Fatalf("placed at (%.4f, %.4f), want (%.4f, %.4f)", op.X, op.Y, wantX, wantY)
	}
	if op.Size != 10 {
		t.Fatalf("size = %v", op.Size)
	}
}

func TestLayout_WrapsMultiline(t *testing.T) {
	// Width 2cm = 56.7pt; at 10pt/char the limit is ~5 characters per line.
	field := schema.FieldSpec{
		Name: "notes", Type: schema.FieldTypeMultilineText, FontSize: 12,
		Position: schema.Position{X: 0, Y: 5, Width: 2},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	ops := Layout(s, map[string]any{"notes": "one two three"}, a4HeightPt, fixedMeasure(10))

	want := []string{"one", "two", "three"}
	if diff := cmp.Diff(want, textLines(ops)); diff != "" {
		t.Fatalf("wrapped lines (-want +got):\n%s", diff)
	}
	// Consecutive lines advance by fontSize+2.
	first := ops[0].(TextOp)
	second := ops[1].(TextOp)
	if !near(first.Y-second.Y, 12+2) {
		t.Fatalf("line advance = %.4f, want %v", first.Y-second.Y, 12+2)
	}
	if !near(first.X, second.X) {
		t.Fatal("wrapped lines must share the left edge")
	}
}

func TestLayout_WrapsOverflowingSingleLineText(t *testing.T) {
	field := schema.FieldSpec{
		Name: "title", Type: schema.FieldTypeText, FontSize: 12,
		Position: schema.Position{X: 0, Y: 5, Width: 2},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	ops := Layout(s, map[string]any{"title": "alpha beta"}, a4HeightPt, fixedMeasure(10))
	if got := textLines(ops); len(got) != 2 {
		t.Fatalf("expected overflowing text to wrap, got %v", got)
	}
}

func TestLayout_OverlongWordStaysUnbroken(t *testing.T) {
	field := schema.FieldSpec{
		Name: "code", Type: schema.FieldTypeMultilineText,
		Position: schema.Position{X: 0, Y: 5, Width: 1},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	ops := Layout(s, map[string]any{"code": "supercalifragilistic"}, a4HeightPt, fixedMeasure(10))
	want := []string{"supercalifragilistic"}
	if diff := cmp.Diff(want, textLines(ops)); diff != "" {
		t.Fatalf("overlong word (-want +got):\n%s", diff)
	}
}

func TestLayout_CheckboxTruthy(t *testing.T) {
	field := schema.FieldSpec{
		Name: "consent", Type: schema.FieldTypeBoolean,
		Position: schema.Position{X: 2, Y: 4, Width: 0.5},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	ops := Layout(s, map[string]any{"consent": true}, a4HeightPt, nil)
	if len(ops) != 3 {
		t.Fatalf("expected rect + 2 check segments, got %d ops", len(ops))
	}
	rect, ok := ops[0].(RectOp)
	if !ok {
		t.Fatalf("first op is %T, want RectOp", ops[0])
	}
	side := 0.5 * PointsPerCM
	if !near(rect.W, side) || !near(rect.H, side) {
		t.Fatalf("box %v x %v, want %v square", rect.W, rect.H, side)
	}
	if !near(rect.X, 2*PointsPerCM) || !near(rect.Y, a4HeightPt-4*PointsPerCM-side) {
		t.Fatalf("box at (%.4f, %.4f)", rect.X, rect.Y)
	}
	seg1, ok1 := ops[1].(LineOp)
	seg2, ok2 := ops[2].(LineOp)
	if !ok1 || !ok2 {
		t.Fatalf("check mark ops are %T, %T", ops[1], ops[2])
	}
	// Segments join at the mark's lowest point.
	if !near(seg1.X2, seg2.X1) || !near(seg1.Y2, seg2.Y1) {
		t.Fatal("check mark segments do not join")
	}
}

func TestLayout_CheckboxFalsyDrawsNothing(t *testing.T) {
	field := schema.FieldSpec{
		Name: "consent", Type: schema.FieldTypeBoolean,
		Position: schema.Position{X: 2, Y: 4},
	}
	s := &schema.Schema{Fields: []schema.FieldSpec{field}}
	for _, value := range []any{false, "false", "no", 0, nil, ""} {
		if ops := Layout(s, map[string]any{"consent": value}, a4HeightPt, nil); len(ops) != 0 {
			t.Fatalf("value %v produced %d ops", value, len(ops))
		}
	}
}

func TestLayout_DateFormatting(t *testing.T) {
	s := &schema.Schema{Fields: []schema.FieldSpec{
		{Name: "dob", Type: schema.FieldTypeDate, Position: schema.Position{X: 1, Y: 1}},
		{Name: "seen", Type: schema.FieldTypeDatetime, Position: schema.Position{X: 1, Y: 2}},
	}}
	values := map[string]any{
		"dob":  "2024-05-17",
		"seen": time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC),
	}
	got := textLines(Layout(s, values, a4HeightPt, nil))
	want := []string{"17/05/2024", "01/12/2023"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("date rendering (-want +got):\n%s", diff)
	}
}

func TestLayout_ListValuesJoin(t *testing.T) {
	s := &schema.Schema{Fields: []schema.FieldSpec{
		{Name: "symptoms", Type: schema.FieldTypeMultipleChoice, Position: schema.Position{X: 1, Y: 1}},
	}}
	got := textLines(Layout(s, map[string]any{"symptoms": []any{"fever", nil, "cough"}}, a4HeightPt, nil))
	want := []string{"fever, cough"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list rendering (-want +got):\n%s", diff)
	}
}
