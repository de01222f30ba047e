// Package formfill is a configuration-driven engine that turns a declarative
// field schema plus submitted data into a filled PDF document, and generates
// the runtime input form from the same schema. The root package wires the
// pipeline: validate a schema, build a form, sanitize values, render the
// overlay, and compose it onto the base document. Nothing rendered is ever
// stored; output is rebuilt from schema plus values on every request.
package formfill

import (
	"fmt"

	"github.com/carlosapgomes/eqmd-sub001/pkg/compose"
	"github.com/carlosapgomes/eqmd-sub001/pkg/form"
	"github.com/carlosapgomes/eqmd-sub001/pkg/lookup"
	"github.com/carlosapgomes/eqmd-sub001/pkg/overlay"
	"github.com/carlosapgomes/eqmd-sub001/pkg/sanitize"
	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
	"github.com/carlosapgomes/eqmd-sub001/pkg/validation"
	"github.com/carlosapgomes/eqmd-sub001/pkg/widgets"
)

// Option configures an Engine.
type Option func(*Engine)

// WithDimCache injects a shared page-dimension cache. Hosts serving many
// templates pass one cache per process.
func WithDimCache(cache *compose.DimCache) Option {
	return func(e *Engine) {
		if cache != nil {
			e.dims = cache
		}
	}
}

// WithWidgetRegistry overrides the widget registry used for form building.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.widgets = registry
		}
	}
}

// Engine drives the schema-to-document pipeline. All methods are safe for
// concurrent use; the only shared state is the dimension cache, which locks
// internally.
type Engine struct {
	dims    *compose.DimCache
	widgets *widgets.Registry
}

// New constructs an Engine with a private dimension cache and the built-in
// widget table.
func New(options ...Option) *Engine {
	e := &Engine{
		dims:    compose.NewDimCache(compose.DefaultDimCacheSize),
		widgets: widgets.NewRegistry(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ValidateSchema decodes and validates a schema document, reporting every
// violation in one pass. A decode failure is returned as an error; a decoded
// document with violations is returned as an invalid Result with nil error.
func (e *Engine) ValidateSchema(doc []byte) (validation.Result, error) {
	raw, err := schema.DecodeRaw(doc)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(raw), nil
}

// LoadSchema decodes, validates, and normalizes a schema document. A schema
// with violations fails with a *validation.SchemaError carrying the full
// list.
func (e *Engine) LoadSchema(doc []byte) (*schema.Schema, error) {
	raw, err := schema.DecodeRaw(doc)
	if err != nil {
		return nil, err
	}
	if result := validation.Validate(raw); !result.Valid {
		return nil, result.Err()
	}
	return schema.Normalize(raw)
}

// BuildForm generates the typed input-form definition for a schema. The
// context provider supplies auto-fill initial values for a fresh form;
// submitted values, when present, win over auto-fill.
func (e *Engine) BuildForm(s *schema.Schema, ctx lookup.ContextProvider, submitted map[string]any) (*form.Definition, error) {
	return form.Build(s, form.Options{
		Context:   ctx,
		Submitted: submitted,
		Widgets:   e.widgets,
	})
}

// RenderRequest names the inputs of one document render.
type RenderRequest struct {
	Schema *schema.Schema
	Values map[string]any
	Base   []byte
	// BaseRef identifies the base document revision for dimension caching.
	// A zero BaseRef bypasses the cache.
	BaseRef compose.DimKey
}

// Render sanitizes the submitted values, draws the overlay sized to the base
// document's first page, and composes the two into the final output bytes.
func (e *Engine) Render(req RenderRequest) ([]byte, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("formfill: schema is required")
	}

	load := func() (compose.PageDim, error) {
		dim, _, err := compose.PageSize(req.Base)
		return dim, err
	}
	var dim compose.PageDim
	var err error
	if req.BaseRef == (compose.DimKey{}) {
		dim, err = load()
	} else {
		dim, err = e.dims.Load(req.BaseRef, load)
	}
	if err != nil {
		return nil, err
	}

	values := sanitize.Values(req.Values)
	page, err := overlay.Render(req.Schema, values, dim.Width, dim.Height)
	if err != nil {
		return nil, err
	}
	return compose.Compose(req.Base, page)
}

// FillDocument is the one-shot entry point: schema document in, filled PDF
// out. Hosts with many renders per template should hold an Engine instead so
// the dimension cache is shared.
func FillDocument(schemaDoc []byte, values map[string]any, base []byte) ([]byte, error) {
	engine := New()
	s, err := engine.LoadSchema(schemaDoc)
	if err != nil {
		return nil, err
	}
	return engine.Render(RenderRequest{Schema: s, Values: values, Base: base})
}
