package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	formfill "github.com/carlosapgomes/eqmd-sub001"
	"github.com/carlosapgomes/eqmd-sub001/internal/config"
	"github.com/carlosapgomes/eqmd-sub001/pkg/compose"
	"github.com/carlosapgomes/eqmd-sub001/pkg/docinfo"
	"github.com/carlosapgomes/eqmd-sub001/pkg/lookup"
	"github.com/carlosapgomes/eqmd-sub001/pkg/renderers/html"
	"github.com/carlosapgomes/eqmd-sub001/pkg/renderers/tui"
	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		os.Exit(2)
	}

	log.SetFlags(0)
	if !cfg.Verbose {
		log.SetOutput(devNull())
	} else {
		log.SetOutput(os.Stderr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		// Validation problems are already itemized on stdout.
		if !errors.Is(err, errSchemaInvalid) {
			fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		}
		os.Exit(1)
	}
}

// errSchemaInvalid signals a validate run that found violations; main turns
// it into a non-zero exit after deferred cleanup has run.
var errSchemaInvalid = errors.New("schema is invalid")

func run(ctx context.Context, cfg *config.Config) error {
	engine := formfill.New()

	if cfg.Mode == config.ModeInfo {
		return runInfo(cfg)
	}

	doc, err := os.ReadFile(cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if cfg.Mode == config.ModeValidate {
		return runValidate(engine, doc)
	}

	s, err := engine.LoadSchema(doc)
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case config.ModeForm:
		return runForm(engine, s, cfg)
	case config.ModePreview:
		return runPreview(engine, s, cfg)
	case config.ModeFill:
		return runFill(ctx, engine, s, cfg)
	case config.ModeRender:
		return runRender(engine, s, cfg)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func runValidate(engine *formfill.Engine, doc []byte) error {
	result, err := engine.ValidateSchema(doc)
	if err != nil {
		return err
	}
	if result.Valid {
		fmt.Println("schema is valid")
		return nil
	}
	fmt.Printf("schema has %d problem(s):\n", len(result.Violations))
	for _, violation := range result.Violations {
		fmt.Printf("  - %s\n", violation)
	}
	return errSchemaInvalid
}

func runInfo(cfg *config.Config) error {
	base, err := os.ReadFile(cfg.BasePath)
	if err != nil {
		return fmt.Errorf("read base document: %w", err)
	}
	info, err := docinfo.Inspect(base)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runForm(engine *formfill.Engine, s *schema.Schema, cfg *config.Config) error {
	def, err := engine.BuildForm(s, contextProvider(cfg), nil)
	if err != nil {
		return err
	}
	return printJSON(def)
}

func runPreview(engine *formfill.Engine, s *schema.Schema, cfg *config.Config) error {
	def, err := engine.BuildForm(s, contextProvider(cfg), nil)
	if err != nil {
		return err
	}
	renderer, err := html.New()
	if err != nil {
		return err
	}
	page, err := renderer.Render(def, cfg.Title)
	if err != nil {
		return err
	}
	return writeOut(cfg.OutPath, page)
}

func runFill(ctx context.Context, engine *formfill.Engine, s *schema.Schema, cfg *config.Config) error {
	def, err := engine.BuildForm(s, contextProvider(cfg), nil)
	if err != nil {
		return err
	}
	values, err := tui.Fill(ctx, def, nil)
	if err != nil {
		return err
	}
	return renderTo(engine, s, values, cfg)
}

func runRender(engine *formfill.Engine, s *schema.Schema, cfg *config.Config) error {
	raw, err := os.ReadFile(cfg.ValuesPath)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	return renderTo(engine, s, values, cfg)
}

func renderTo(engine *formfill.Engine, s *schema.Schema, values map[string]any, cfg *config.Config) error {
	base, err := os.ReadFile(cfg.BasePath)
	if err != nil {
		return fmt.Errorf("read base document: %w", err)
	}
	baseRef := compose.DimKey{ID: cfg.BasePath}
	if stat, err := os.Stat(cfg.BasePath); err == nil {
		baseRef.ModTime = stat.ModTime()
	} else {
		baseRef.ModTime = time.Now()
	}

	out, err := engine.Render(formfill.RenderRequest{
		Schema:  s,
		Values:  values,
		Base:    base,
		BaseRef: baseRef,
	})
	if err != nil {
		return err
	}
	log.Printf("rendered %d bytes", len(out))
	return writeOut(cfg.OutPath, out)
}

func contextProvider(cfg *config.Config) lookup.ContextProvider {
	if cfg.ContextPath == "" {
		return nil
	}
	raw, err := os.ReadFile(cfg.ContextPath)
	if err != nil {
		log.Printf("context record unavailable: %v", err)
		return nil
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Printf("context record unreadable: %v", err)
		return nil
	}
	return lookup.MapContext(record)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeOut(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func devNull() *os.File {
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return os.Stderr
	}
	return f
}
