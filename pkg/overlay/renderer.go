// Package overlay draws field values onto a transparent page sized to match
// the target document, honouring per-type rendering rules. The output is a
// standalone one-page PDF the compositor stamps onto the base document.
package overlay

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

// DefaultFontFace is used when the schema declares no face or declares one
// the renderer does not carry. Face fallback never fails a render.
const DefaultFontFace = "Helvetica"

// coreFaces maps declared faces onto the built-in PDF font set.
var coreFaces = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"courier":   "Courier",
	"times":     "Times",
}

// FontFace resolves a schema-declared face name, falling back to the default
// when the face is unknown.
func FontFace(declared string) string {
	if face, ok := coreFaces[strings.ToLower(strings.TrimSpace(declared))]; ok {
		return face
	}
	return DefaultFontFace
}

// Render produces the overlay page for the given values: a single
// transparent page of exactly pageWidth x pageHeight points with every
// non-empty field value drawn at its schema position.
func Render(s *schema.Schema, values map[string]any, pageWidth, pageHeight float64) ([]byte, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("overlay: invalid page size %.2fx%.2f", pageWidth, pageHeight)
	}

	face := FontFace(fontOf(s))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(face, "", DefaultFontSize)
	pdf.SetLineWidth(0.9)

	measure := func(text string, size float64) float64 {
		pdf.SetFontSize(size)
		return pdf.GetStringWidth(text)
	}

	for _, op := range Layout(s, values, pageHeight, measure) {
		switch o := op.(type) {
		case TextOp:
			pdf.SetFontSize(o.Size)
			pdf.Text(o.X, pageHeight-o.Y, o.Text)
		case RectOp:
			pdf.Rect(o.X, pageHeight-(o.Y+o.H), o.W, o.H, "D")
		case LineOp:
			pdf.Line(o.X1, pageHeight-o.Y1, o.X2, pageHeight-o.Y2)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("overlay: render page: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("overlay: write page: %w", err)
	}
	return buf.Bytes(), nil
}

func fontOf(s *schema.Schema) string {
	if s == nil {
		return ""
	}
	return s.Font
}
