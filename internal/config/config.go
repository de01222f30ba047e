// Package config holds CLI configuration resolved from flags, environment
// variables, and defaults, in that order of precedence.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Modes the CLI can run in.
const (
	ModeValidate = "validate"
	ModeForm     = "form"
	ModePreview  = "preview"
	ModeFill     = "fill"
	ModeRender   = "render"
	ModeInfo     = "info"
)

var modes = map[string]struct{}{
	ModeValidate: {},
	ModeForm:     {},
	ModePreview:  {},
	ModeFill:     {},
	ModeRender:   {},
	ModeInfo:     {},
}

// Config holds all configuration for the formfill CLI.
type Config struct {
	Mode        string
	SchemaPath  string
	ValuesPath  string
	ContextPath string
	BasePath    string
	OutPath     string
	Title       string
	Verbose     bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:    ModeValidate,
		OutPath: "out.pdf",
		Title:   "Form preview",
	}
}

// LoadFromFlags parses command line flags and environment variables.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetEnvPrefix("FORMFILL")
	viper.AutomaticEnv()
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("out", cfg.OutPath)
	viper.SetDefault("title", cfg.Title)

	pflag.String("mode", cfg.Mode, "Operation: validate, form, preview, fill, render, info")
	pflag.String("schema", "", "Path to the schema document (JSON or YAML)")
	pflag.String("values", "", "Path to the submitted values JSON")
	pflag.String("context", "", "Path to the context record JSON used for auto-fill")
	pflag.String("base", "", "Path to the base PDF document")
	pflag.String("out", cfg.OutPath, "Output path for render/fill/preview modes")
	pflag.String("title", cfg.Title, "Document title for the HTML preview")
	pflag.Bool("verbose", false, "Log progress to stderr")

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	pflag.Parse()

	cfg.Mode = viper.GetString("mode")
	cfg.SchemaPath = expand(viper.GetString("schema"))
	cfg.ValuesPath = expand(viper.GetString("values"))
	cfg.ContextPath = expand(viper.GetString("context"))
	cfg.BasePath = expand(viper.GetString("base"))
	cfg.OutPath = expand(viper.GetString("out"))
	cfg.Title = viper.GetString("title")
	cfg.Verbose = viper.GetBool("verbose")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks mode-specific requirements.
func (c *Config) Validate() error {
	if _, ok := modes[c.Mode]; !ok {
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Mode != ModeInfo && c.SchemaPath == "" {
		return fmt.Errorf("config: --schema is required for mode %q", c.Mode)
	}
	switch c.Mode {
	case ModeRender, ModeFill, ModeInfo:
		if c.BasePath == "" {
			return fmt.Errorf("config: --base is required for mode %q", c.Mode)
		}
	}
	if c.Mode == ModeRender && c.ValuesPath == "" {
		return fmt.Errorf("config: --values is required for mode %q", c.Mode)
	}
	return nil
}

func expand(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
