// Package html renders a generated form definition into a static HTML
// preview: sections as fieldsets, one widget per field following the
// generator's widget table. Template editors use the preview to sanity-check
// a schema before publishing it.
package html

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"

	"github.com/carlosapgomes/eqmd-sub001/pkg/form"
)

const formTemplate = "templates/form.html.tpl"

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithTemplatesFS overrides the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// Renderer turns form definitions into HTML documents.
type Renderer struct {
	set *pongo2.TemplateSet
}

// New constructs a Renderer backed by a pongo2 template set.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{templates: embeddedTemplates}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	set := pongo2.NewSet("formfill-html", pongo2.NewFSLoader(cfg.templates))
	return &Renderer{set: set}, nil
}

// Render produces the HTML preview for a form definition.
func (r *Renderer) Render(def *form.Definition, title string) ([]byte, error) {
	if r == nil || r.set == nil {
		return nil, errors.New("html: renderer is not initialised")
	}
	if def == nil {
		return nil, errors.New("html: form definition is nil")
	}
	tpl, err := r.set.FromFile(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("html: load template: %w", err)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context{
		"form":  def,
		"title": title,
	})
	if err != nil {
		return nil, fmt.Errorf("html: execute template: %w", err)
	}
	return out, nil
}
