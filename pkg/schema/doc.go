// Package schema holds the declarative description of a fillable document:
// named fields with page positions, display sections, and lookup tables. It
// owns the document wire format (legacy flat mappings and the sectioned
// shape) and normalizes both into one canonical Schema at the loader
// boundary.
package schema
