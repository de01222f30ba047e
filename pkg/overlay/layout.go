package overlay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// Op is one drawing instruction in PDF coordinates (points, bottom-left
// origin). Layout emits ops; the renderer translates them into page content.
type Op interface{ op() }

// TextOp draws a single line of text with its baseline at (X, Y).
type TextOp struct {
	X, Y float64
	Size float64
	Text string
}

// RectOp strokes a rectangle outline; (X, Y) is the bottom-left corner.
type RectOp struct {
	X, Y, W, H float64
}

// LineOp strokes a straight segment.
type LineOp struct {
	X1, Y1, X2, Y2 float64
}

func (TextOp) op() {}
func (RectOp) op() {}
func (LineOp) op() {}

// MeasureFunc reports the rendered width in points of text at a font size.
// The renderer supplies one backed by real font metrics; tests can supply a
// deterministic fake.
type MeasureFunc func(text string, fontSize float64) float64

// Layout computes the drawing instructions for the given values against a
// schema on a page of the given height. Fields absent from values, or whose
// value is empty after trimming, draw nothing. Layout is pure: it touches no
// PDF state and is safe for concurrent use.
func Layout(s *schema.Schema, values map[string]any, pageHeight float64, measure MeasureFunc) []Op {
	if s == nil {
		return nil
	}
	var ops []Op
	for _, field := range s.Fields {
		value, ok := values[field.Name]
		if !ok || value == nil {
			continue
		}
		ops = append(ops, layoutField(field, value, pageHeight, measure)...)
	}
	return ops
}

func layoutField(field schema.FieldSpec, value any, pageHeight float64, measure MeasureFunc) []Op {
	if field.Type == schema.FieldTypeBoolean {
		return layoutCheckbox(field, value, pageHeight)
	}

	text := displayText(field, value)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	size := fontSizeOf(field)
	x, y := Baseline(field.Position, size, pageHeight)

	maxWidth := field.Position.Width * PointsPerCM
	wrap := field.Type == schema.FieldTypeMultilineText
	if !wrap && maxWidth > 0 && measure != nil && measure(text, size) > maxWidth {
		wrap = true
	}
	if !wrap || maxWidth <= 0 || measure == nil {
		return []Op{TextOp{X: x, Y: y, Size: size, Text: text}}
	}

	lines := wrapText(text, maxWidth, size, measure)
	ops := make([]Op, 0, len(lines))
	for i, line := range lines {
		ops = append(ops, TextOp{
			X:    x,
			Y:    y - float64(i)*(size+2),
			Size: size,
			Text: line,
		})
	}
	return ops
}

// layoutCheckbox draws a square outline with an inscribed two-segment check
// mark for truthy values. Falsy values draw nothing at all.
func layoutCheckbox(field schema.FieldSpec, value any, pageHeight float64) []Op {
	if !truthy(value) {
		return nil
	}
	side := field.Position.Width
	if side <= 0 {
		side = DefaultCheckboxSideCM
	}
	sidePt := side * PointsPerCM
	x := field.Position.X * PointsPerCM
	top := pageHeight - field.Position.Y*PointsPerCM
	bottom := top - sidePt

	return []Op{
		RectOp{X: x, Y: bottom, W: sidePt, H: sidePt},
		LineOp{
			X1: x + 0.18*sidePt, Y1: bottom + 0.52*sidePt,
			X2: x + 0.42*sidePt, Y2: bottom + 0.22*sidePt,
		},
		LineOp{
			X1: x + 0.42*sidePt, Y1: bottom + 0.22*sidePt,
			X2: x + 0.82*sidePt, Y2: bottom + 0.78*sidePt,
		},
	}
}

// wrapText wraps greedily at word boundaries. A single word wider than the
// limit is placed on its own line unbroken.
func wrapText(text string, maxWidth, size float64, measure MeasureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate, size) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func displayText(field schema.FieldSpec, value any) string {
	switch field.Type {
	case schema.FieldTypeDate, schema.FieldTypeDatetime:
		return formatDate(value)
	default:
		if t, ok := value.(time.Time); ok {
			return formatDate(t)
		}
		return valueText(value)
	}
}

// formatDate renders date-like values as dd/mm/yyyy, the display convention
// of the documents this engine fills. Anything unparseable is stringified.
func formatDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("02/01/2006")
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("02/01/2006")
			}
		}
		return s
	default:
		return valueText(value)
	}
}

func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			parts = append(parts, valueText(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, ok := schema.AsBool(v)
		return ok && b
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
