// Package compose merges a rendered overlay page onto the base document and
// answers page-geometry questions about base documents. It is the only
// package that writes final output bytes; nothing here is ever cached or
// persisted, the merged document is rebuilt on every request.
package compose

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// CompositionError marks a base document that cannot be composed onto:
// unreadable, encrypted, or page-less. It always aborts the whole render.
type CompositionError struct {
	Reason string
	Err    error
}

func (e *CompositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compose: %s: %v", e.Reason, e.Err)
	}
	return "compose: " + e.Reason
}

func (e *CompositionError) Unwrap() error { return e.Err }

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func readBase(base []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(base), configuration())
	if err != nil {
		return nil, &CompositionError{Reason: "base document cannot be parsed", Err: err}
	}
	if ctx.E != nil {
		return nil, &CompositionError{Reason: "base document is encrypted"}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &CompositionError{Reason: "base document page count unavailable", Err: err}
	}
	if ctx.PageCount == 0 {
		return nil, &CompositionError{Reason: "base document has no pages"}
	}
	return ctx, nil
}

// PageSize reports the page box of page 1 in points together with the page
// count. The renderer must be given this size before Compose runs; the two
// steps are sequenced, not independent.
func PageSize(base []byte) (PageDim, int, error) {
	ctx, err := readBase(base)
	if err != nil {
		return PageDim{}, 0, err
	}
	dims, err := ctx.PageDims()
	if err != nil || len(dims) == 0 {
		return PageDim{}, 0, &CompositionError{Reason: "base document page box unavailable", Err: err}
	}
	return PageDim{Width: dims[0].Width, Height: dims[0].Height}, ctx.PageCount, nil
}

// Compose stamps overlay page 1 on top of base page 1 and carries any
// remaining base pages through unmodified and in order. No partial output:
// any failure returns only an error.
func Compose(base, overlay []byte) ([]byte, error) {
	if _, err := readBase(base); err != nil {
		return nil, err
	}
	if len(overlay) == 0 {
		return nil, &CompositionError{Reason: "overlay is empty"}
	}

	// pdfcpu reads PDF stamp sources from a file path.
	tmp, err := os.CreateTemp("", "overlay-*.pdf")
	if err != nil {
		return nil, &CompositionError{Reason: "stage overlay", Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(overlay); err != nil {
		tmp.Close()
		return nil, &CompositionError{Reason: "stage overlay", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &CompositionError{Reason: "stage overlay", Err: err}
	}

	// Overlay and base share a page size, so an unscaled bottom-left anchored
	// stamp aligns the two coordinate spaces exactly.
	wm, err := api.PDFWatermark(tmp.Name(), "scalefactor:1 abs, pos:bl, rot:0", true, false, types.POINTS)
	if err != nil {
		return nil, &CompositionError{Reason: "build overlay stamp", Err: err}
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(base), &out, []string{"1"}, wm, configuration()); err != nil {
		return nil, &CompositionError{Reason: "merge overlay onto base", Err: err}
	}
	return out.Bytes(), nil
}
