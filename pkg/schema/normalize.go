package schema

import (
	"errors"
	"fmt"
)

// Normalize converts a decoded raw document into the canonical Schema.
// Callers are expected to have run validation first; Normalize is lenient
// about value shapes it can coerce and errors only on structures it cannot
// represent at all.
func Normalize(raw *RawSchema) (*Schema, error) {
	if raw == nil {
		return nil, errors.New("schema: nil raw schema")
	}

	s := &Schema{
		Fields:   make([]FieldSpec, 0, len(raw.FieldNames)),
		Sections: make(map[string]SectionSpec, len(raw.Sections)),
		Sources:  make(map[string]DataSource, len(raw.Sources)),
		Font:     raw.Font,
	}

	for _, name := range raw.FieldNames {
		cfg, ok := raw.Fields[name]
		if !ok {
			continue
		}
		field, err := normalizeField(name, cfg)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, field)
	}

	for key, cfg := range raw.Sections {
		s.Sections[key] = normalizeSection(key, cfg)
	}

	for name, rows := range raw.Sources {
		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, Record(row))
		}
		s.Sources[name] = DataSource{Name: name, Records: records}
	}

	return s, nil
}

func normalizeField(name string, cfg RawField) (FieldSpec, error) {
	typ, _ := AsString(cfg["type"])
	field := FieldSpec{
		Name: name,
		Type: FieldType(typ),
	}
	if !field.Type.Valid() {
		return FieldSpec{}, fmt.Errorf("schema: field %q: unknown type %q", name, typ)
	}

	field.Label, _ = AsString(cfg["label"])
	field.HelpText, _ = AsString(cfg["help_text"])
	field.Section, _ = AsString(cfg["section"])
	field.DataSource, _ = AsString(cfg["data_source"])
	field.DataSourceKey, _ = AsString(cfg["data_source_key"])
	field.AutoFill, _ = AsString(cfg["auto_fill"])

	if v, ok := AsBool(cfg["required"]); ok {
		field.Required = v
	}
	if v, ok := AsBool(cfg["linked_readonly"]); ok {
		field.LinkedReadonly = v
	}
	if v, ok := AsBool(cfg["is_primary"]); ok {
		field.IsPrimary = v
	}
	if v, ok := AsInt(cfg["max_length"]); ok {
		field.MaxLength = v
	}
	if v, ok := AsInt(cfg["font_size"]); ok {
		field.FontSize = v
	}
	if v, ok := AsInt(cfg["field_order"]); ok {
		field.FieldOrder = v
	}
	if v, ok := AsStringList(cfg["choices"]); ok {
		field.Choices = v
	}
	coords := cfg.Coordinates()
	if v, ok := AsNumber(coords["x"]); ok {
		field.Position.X = v
	}
	if v, ok := AsNumber(coords["y"]); ok {
		field.Position.Y = v
	}
	if v, ok := AsNumber(coords["width"]); ok {
		field.Position.Width = v
	}
	if v, ok := AsNumber(coords["height"]); ok {
		field.Position.Height = v
	}
	return field, nil
}

func normalizeSection(key string, cfg map[string]any) SectionSpec {
	sec := SectionSpec{Key: key}
	sec.Label, _ = AsString(cfg["label"])
	sec.Description, _ = AsString(cfg["description"])
	sec.Icon, _ = AsString(cfg["icon"])
	if v, ok := AsInt(cfg["order"]); ok {
		sec.Order = v
	}
	if v, ok := AsBool(cfg["collapsed"]); ok {
		sec.Collapsed = v
	}
	return sec
}
