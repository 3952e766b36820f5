// Package config loads the precision-reuse settings of a verification run.
//
// Settings come from a YAML file layered over Default, then from the
// environment. Validate checks the result before any codec is built.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/refine"
)

// Environment variables read by FromEnv.
const (
	EnvVerifierName    = "VERIFIER_NAME"
	EnvVerifierVersion = "VERIFIER_VERSION"
	EnvFormat          = "PRECREUSE_FORMAT"
	EnvKind            = "PRECREUSE_KIND"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("criterion", validateCriterion)
}

// validateCriterion accepts an empty string or a CEL expression that
// compiles to a boolean.
func validateCriterion(fl validator.FieldLevel) bool {
	expr := fl.Field().String()
	if expr == "" {
		return true
	}
	_, err := refine.CompileCriterion(expr)
	return err == nil
}

// Config is the full settings tree.
type Config struct {
	Format string `yaml:"format" validate:"oneof=proprietary witness"`
	Kind   string `yaml:"kind" validate:"oneof=explicit predicate"`
	// Input is the precision file read at start-up. Empty disables loading.
	Input string `yaml:"input,omitempty"`
	// OutputDir receives prec.txt or prec.yml. Empty disables writing.
	OutputDir string `yaml:"output_dir,omitempty"`
	// Universe is a variable-universe YAML file.
	Universe string   `yaml:"universe,omitempty"`
	Task     Task     `yaml:"task"`
	Producer Producer `yaml:"producer"`
	Refine   Refine   `yaml:"refine"`
	History  History  `yaml:"history"`
}

// Task is the verification task named in witness metadata.
type Task struct {
	InputFile    string `yaml:"input_file,omitempty"`
	Property     string `yaml:"property,omitempty"`
	Architecture string `yaml:"architecture,omitempty" validate:"omitempty,oneof=ILP32 LP64"`
}

// Producer names the verifier.
type Producer struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// Refine configures the stagnation monitor.
type Refine struct {
	Threshold int `yaml:"threshold" validate:"gte=1"`
	// Criterion is an optional CEL stopping condition.
	Criterion string `yaml:"criterion,omitempty" validate:"criterion"`
}

// History configures the SQLite run log.
type History struct {
	// Path of the database. Empty disables history.
	Path string `yaml:"path,omitempty"`
}

// Default returns the built-in settings: proprietary explicit precisions,
// stagnation after 10 non-growing iterations, no history.
func Default() Config {
	return Config{
		Format: string(codec.Proprietary),
		Kind:   string(ir.KindExplicit),
		Refine: Refine{Threshold: refine.DefaultThreshold},
	}
}

// Load reads a YAML file over Default and applies the environment. Unknown
// keys are rejected. The result is validated, and relative paths in it are
// taken relative to the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg.RelativeTo(filepath.Dir(path)), nil
}

// RelativeTo returns a copy of c whose relative file settings are joined to
// dir.
func (c Config) RelativeTo(dir string) Config {
	for _, p := range []*string{&c.Input, &c.OutputDir, &c.Universe, &c.History.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return c
}

// Parse decodes YAML over Default, applies the environment and validates.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	cfg = cfg.FromEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv returns a copy of c with environment overrides applied. lookup
// is normally os.LookupEnv; set-but-empty variables are ignored.
func (c Config) FromEnv(lookup func(string) (string, bool)) Config {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Producer.Name, EnvVerifierName)
	set(&c.Producer.Version, EnvVerifierVersion)
	set(&c.Format, EnvFormat)
	set(&c.Kind, EnvKind)
	return c
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CodecFormat returns the configured format.
func (c Config) CodecFormat() (codec.Format, error) {
	return codec.ParseFormat(c.Format)
}

// PrecisionKind returns the configured kind.
func (c Config) PrecisionKind() (ir.Kind, error) {
	return ir.ParseKind(c.Kind)
}

// CodecTask converts the task and producer settings for codec.Deps.
func (c Config) CodecTask() codec.Task {
	return codec.Task{
		InputFile:       c.Task.InputFile,
		Property:        c.Task.Property,
		Architecture:    c.Task.Architecture,
		ProducerName:    c.Producer.Name,
		ProducerVersion: c.Producer.Version,
	}
}

// Criterion compiles the stopping condition, or returns nil when none is
// configured.
func (c Config) Criterion() (refine.Criterion, error) {
	if c.Refine.Criterion == "" {
		return nil, nil
	}
	return refine.CompileCriterion(c.Refine.Criterion)
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return buf.Bytes(), nil
}
