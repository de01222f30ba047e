package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carlosapgomes/eqmd-sub001/pkg/form"
	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
	"github.com/carlosapgomes/eqmd-sub001/pkg/widgets"
)

// Fill walks a form definition prompting for every editable field and
// returns the collected raw values. Callers are expected to sanitize the
// result before persisting or rendering it.
func Fill(ctx context.Context, def *form.Definition, driver PromptDriver) (map[string]any, error) {
	if def == nil {
		return nil, fmt.Errorf("tui: form definition is nil")
	}
	if driver == nil {
		driver = NewSurveyDriver()
	}

	values := map[string]any{}
	if def.Sectioned {
		for _, section := range def.Sections {
			if err := driver.Info(ctx, "── "+section.Label+" ──"); err != nil {
				return nil, err
			}
			if err := fillFields(ctx, section.Fields, driver, values); err != nil {
				return nil, err
			}
		}
	}
	if err := fillFields(ctx, def.Fields, driver, values); err != nil {
		return nil, err
	}
	return values, nil
}

func fillFields(ctx context.Context, fields []form.Field, driver PromptDriver, values map[string]any) error {
	for _, field := range fields {
		if field.ReadOnly {
			continue
		}
		value, skip, err := promptField(ctx, field, driver)
		if err != nil {
			return err
		}
		if !skip {
			values[field.Name] = value
		}
	}
	return nil
}

func promptField(ctx context.Context, field form.Field, driver PromptDriver) (any, bool, error) {
	label := field.Label
	if label == "" {
		label = field.Name
	}

	switch field.Widget {
	case widgets.WidgetCheckbox:
		def, _ := schema.AsBool(fmt.Sprintf("%v", field.Initial))
		value, err := driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: field.HelpText})
		return value, false, err

	case widgets.WidgetSelect:
		if len(field.Choices) == 0 {
			return nil, true, nil
		}
		cfg := SelectConfig{Message: label, Options: field.Choices, Help: field.HelpText, DefaultIndex: -1}
		if initial, ok := field.Initial.(string); ok {
			cfg.DefaultIndex = indexOf(field.Choices, initial)
		}
		idx, err := driver.Select(ctx, cfg)
		if err != nil || idx < 0 {
			return nil, idx < 0, err
		}
		return field.Choices[idx], false, nil

	case widgets.WidgetMultiSelect:
		if len(field.Choices) == 0 {
			return nil, true, nil
		}
		indices, err := driver.MultiSelect(ctx, SelectConfig{Message: label, Options: field.Choices, Help: field.HelpText})
		if err != nil {
			return nil, false, err
		}
		chosen := make([]any, 0, len(indices))
		for _, idx := range indices {
			chosen = append(chosen, field.Choices[idx])
		}
		if len(chosen) == 0 {
			return nil, true, nil
		}
		return chosen, false, nil

	case widgets.WidgetTextarea:
		value, err := driver.TextArea(ctx, TextAreaConfig{Message: label, Default: initialString(field), Help: field.HelpText})
		if err != nil {
			return nil, false, err
		}
		return value, strings.TrimSpace(value) == "" && !field.Required, nil

	case widgets.WidgetNumber:
		value, err := driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   initialString(field),
			Help:      field.HelpText,
			Validator: numberValidator(field),
		})
		if err != nil {
			return nil, false, err
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, true, nil
		}
		if field.Type == schema.FieldTypeInteger {
			n, _ := strconv.Atoi(trimmed)
			return n, false, nil
		}
		n, _ := strconv.ParseFloat(trimmed, 64)
		return n, false, nil

	case widgets.WidgetDatePicker, widgets.WidgetDatetimePicker:
		value, err := driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   initialString(field),
			Help:      dateHelp(field),
			Validator: dateValidator(field),
		})
		if err != nil {
			return nil, false, err
		}
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed == "", nil

	default:
		value, err := driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   initialString(field),
			Help:      field.HelpText,
			Validator: textValidator(field),
		})
		if err != nil {
			return nil, false, err
		}
		return value, strings.TrimSpace(value) == "" && !field.Required, nil
	}
}

func initialString(field form.Field) string {
	if field.Initial == nil {
		return ""
	}
	return fmt.Sprintf("%v", field.Initial)
}

func textValidator(field form.Field) func(string) error {
	return func(s string) error {
		trimmed := strings.TrimSpace(s)
		if field.Required && trimmed == "" {
			return fmt.Errorf("%s is required", field.Name)
		}
		if field.MaxLength > 0 && len(trimmed) > field.MaxLength {
			return fmt.Errorf("%s must be at most %d characters", field.Name, field.MaxLength)
		}
		return nil
	}
}

func numberValidator(field form.Field) func(string) error {
	return func(s string) error {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			if field.Required {
				return fmt.Errorf("%s is required", field.Name)
			}
			return nil
		}
		if field.Type == schema.FieldTypeInteger {
			if _, err := strconv.Atoi(trimmed); err != nil {
				return fmt.Errorf("%s must be an integer", field.Name)
			}
			return nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("%s must be a number", field.Name)
		}
		return nil
	}
}

func dateValidator(field form.Field) func(string) error {
	layout := "2006-01-02"
	if field.Type == schema.FieldTypeDatetime {
		layout = time.RFC3339
	}
	return func(s string) error {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			if field.Required {
				return fmt.Errorf("%s is required", field.Name)
			}
			return nil
		}
		if _, err := time.Parse(layout, trimmed); err != nil {
			return fmt.Errorf("%s must match %s", field.Name, layout)
		}
		return nil
	}
}

func dateHelp(field form.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	if field.Type == schema.FieldTypeDatetime {
		return "RFC 3339, e.g. 2024-05-17T14:30:00Z"
	}
	return "ISO date, e.g. 2024-05-17"
}
