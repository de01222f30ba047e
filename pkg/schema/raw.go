package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RawField is one field's configuration before validation, values untyped.
type RawField map[string]any

// Coordinates returns the mapping carrying the field's x/y/width/height
// properties: the nested "position" object when one is present, the field
// mapping itself otherwise (legacy flat coordinates).
func (f RawField) Coordinates() map[string]any {
	if pos, ok := f["position"].(map[string]any); ok {
		return pos
	}
	return f
}

// RawSchema is the decoded but not yet validated form of a schema document.
// Legacy documents (a flat mapping of field name to field config) and
// sectioned documents (top-level "sections"/"fields"/"data_sources" keys)
// both normalize into this shape; the distinction does not travel further.
type RawSchema struct {
	Legacy     bool
	FieldNames []string // definition order from the source document
	Fields     map[string]RawField
	Sections   map[string]map[string]any
	Sources    map[string][]map[string]any
	Font       string
}

// DecodeRaw parses a schema document. JSON is the owned wire format; YAML is
// accepted for hand-authored documents. Shape detection follows the loader
// contract: a document carrying both "sections" and "fields" top-level keys
// is sectioned, anything else is legacy.
func DecodeRaw(data []byte) (*RawSchema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("schema: document is empty")
	}
	if json.Valid(data) {
		return decodeRawJSON(data)
	}
	return decodeRawYAML(data)
}

func decodeRawJSON(data []byte) (*RawSchema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("schema: decode document: %w", err)
	}

	_, hasSections := top["sections"]
	fieldsRaw, hasFields := top["fields"]
	if !hasSections || !hasFields {
		return decodeLegacyJSON(data)
	}

	raw := &RawSchema{
		Fields:   map[string]RawField{},
		Sections: map[string]map[string]any{},
		Sources:  map[string][]map[string]any{},
	}
	if err := json.Unmarshal(fieldsRaw, &raw.Fields); err != nil {
		return nil, fmt.Errorf("schema: decode fields: %w", err)
	}
	names, err := jsonObjectKeys(fieldsRaw)
	if err != nil {
		return nil, fmt.Errorf("schema: decode fields: %w", err)
	}
	raw.FieldNames = names

	if sectionsRaw, ok := top["sections"]; ok {
		if err := json.Unmarshal(sectionsRaw, &raw.Sections); err != nil {
			return nil, fmt.Errorf("schema: decode sections: %w", err)
		}
	}
	if sourcesRaw, ok := top["data_sources"]; ok {
		if err := json.Unmarshal(sourcesRaw, &raw.Sources); err != nil {
			return nil, fmt.Errorf("schema: decode data_sources: %w", err)
		}
	}
	if fontRaw, ok := top["font"]; ok {
		_ = json.Unmarshal(fontRaw, &raw.Font)
	}
	return raw, nil
}

func decodeLegacyJSON(data []byte) (*RawSchema, error) {
	raw := &RawSchema{
		Legacy:   true,
		Fields:   map[string]RawField{},
		Sections: map[string]map[string]any{},
		Sources:  map[string][]map[string]any{},
	}
	if err := json.Unmarshal(data, &raw.Fields); err != nil {
		return nil, fmt.Errorf("schema: decode legacy document: %w", err)
	}
	names, err := jsonObjectKeys(data)
	if err != nil {
		return nil, fmt.Errorf("schema: decode legacy document: %w", err)
	}
	raw.FieldNames = names
	return raw, nil
}

// jsonObjectKeys returns the keys of a JSON object in document order.
func jsonObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected an object key")
		}
		keys = append(keys, key)
		if err := skipJSONValue(dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return keys, nil
}

func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	for dec.More() {
		if err := skipJSONValue(dec); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing delimiter
	return err
}

func decodeRawYAML(data []byte) (*RawSchema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode document: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errors.New("schema: document is empty")
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("schema: document must be a mapping")
	}

	topKeys := yamlMappingKeys(root)
	hasSections := yamlMappingValue(root, "sections") != nil
	fieldsNode := yamlMappingValue(root, "fields")

	if !hasSections || fieldsNode == nil {
		raw := &RawSchema{
			Legacy:   true,
			Fields:   map[string]RawField{},
			Sections: map[string]map[string]any{},
			Sources:  map[string][]map[string]any{},
		}
		if err := root.Decode(&raw.Fields); err != nil {
			return nil, fmt.Errorf("schema: decode legacy document: %w", err)
		}
		raw.FieldNames = topKeys
		return raw, nil
	}

	raw := &RawSchema{
		Fields:   map[string]RawField{},
		Sections: map[string]map[string]any{},
		Sources:  map[string][]map[string]any{},
	}
	if err := fieldsNode.Decode(&raw.Fields); err != nil {
		return nil, fmt.Errorf("schema: decode fields: %w", err)
	}
	raw.FieldNames = yamlMappingKeys(fieldsNode)
	if node := yamlMappingValue(root, "sections"); node != nil {
		if err := node.Decode(&raw.Sections); err != nil {
			return nil, fmt.Errorf("schema: decode sections: %w", err)
		}
	}
	if node := yamlMappingValue(root, "data_sources"); node != nil {
		if err := node.Decode(&raw.Sources); err != nil {
			return nil, fmt.Errorf("schema: decode data_sources: %w", err)
		}
	}
	if node := yamlMappingValue(root, "font"); node != nil {
		_ = node.Decode(&raw.Font)
	}
	return raw, nil
}

func yamlMappingKeys(node *yaml.Node) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

func yamlMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
