// Package docinfo inspects base documents at the store boundary: page count,
// page-1 box, PDF version, and an encryption probe. It deliberately uses a
// lightweight reader; authoritative geometry for composition comes from the
// compose package.
package docinfo

import (
	"bytes"
	"fmt"

	pdfreader "github.com/ledongthuc/pdf"
)

// Info summarises a base document.
type Info struct {
	PageCount int     `json:"pageCount"`
	Width     float64 `json:"width"`  // page 1, points
	Height    float64 `json:"height"` // page 1, points
	Version   string  `json:"version,omitempty"`
	Encrypted bool    `json:"encrypted,omitempty"`
}

// Inspect reads document facts from raw bytes. An encrypted document yields
// Encrypted=true with no page details and no error; the caller decides
// whether that is fatal for its operation.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("docinfo: document is empty")
	}
	info := Info{Version: headerVersion(data)}

	reader, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if bytes.Contains(data, []byte("/Encrypt")) {
			info.Encrypted = true
			return info, nil
		}
		return Info{}, fmt.Errorf("docinfo: parse document: %w", err)
	}

	info.PageCount = reader.NumPage()
	if info.PageCount > 0 {
		if w, h, ok := pageBox(reader.Page(1)); ok {
			info.Width, info.Height = w, h
		}
	}
	return info, nil
}

// headerVersion pulls the version out of the %PDF-x.y header.
func headerVersion(data []byte) string {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return ""
	}
	end := bytes.IndexAny(data[:min(len(data), 16)], "\r\n")
	if end < 0 {
		return ""
	}
	return string(data[5:end])
}

// pageBox resolves the MediaBox, walking up the page tree when the page
// inherits it from an ancestor node.
func pageBox(page pdfreader.Page) (w, h float64, ok bool) {
	node := page.V
	for !node.IsNull() {
		box := node.Key("MediaBox")
		if !box.IsNull() && box.Len() == 4 {
			llx := box.Index(0).Float64()
			lly := box.Index(1).Float64()
			urx := box.Index(2).Float64()
			ury := box.Index(3).Float64()
			return urx - llx, ury - lly, true
		}
		node = node.Key("Parent")
	}
	return 0, 0, false
}
