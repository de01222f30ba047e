// Package testsupport holds shared fixtures for the engine's test suites:
// throwaway PDF documents built with real font metrics and schema documents
// loaded from disk.
package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/go-pdf/fpdf"
)

// A4 page box in points.
const (
	A4WidthPt  = 595.28
	A4HeightPt = 841.89
)

// BasePDF builds an n-page A4 document with one line of text per page,
// standing in for a scanned form template.
func BasePDF(t *testing.T, pages int) []byte {
	t.Helper()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("base page %d", i+1))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("build base document: %v", err)
	}
	return buf.Bytes()
}

// SinglePagePDF builds a one-page document of the given size in points.
func SinglePagePDF(t *testing.T, width, height float64) []byte {
	t.Helper()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(100, 100, "fixture page")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("build fixture document: %v", err)
	}
	return buf.Bytes()
}

// MustLoadSchema reads a schema document fixture from disk.
func MustLoadSchema(t *testing.T, path string) []byte {
	t.Helper()

	data, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return data
}

// LoadSchema reads a schema fixture without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadSchema(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schema: %w", err)
	}
	return data, nil
}
