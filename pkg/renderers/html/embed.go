package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want
// to override individual templates while keeping the rest.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
