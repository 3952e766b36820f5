// Package witness implements the YAML verification-witness precision
// format.
//
// A witness is a list holding one precision entry: a metadata header
// describing the producer and the verification task, and one content item
// per scope. Each item lists C expressions: "&name" for a tracked variable
// or a predicate over simple variable names.
//
// Reading resolves every simple name against the live variables of the
// current run, preferring the declaration whose scope best matches the
// scope the entry was saved under (see scope.FilterInScope).
package witness

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
)

// Environment variables naming the producer.
const (
	EnvVerifierName    = "VERIFIER_NAME"
	EnvVerifierVersion = "VERIFIER_VERSION"
)

// Fallbacks recorded when the producer or task is unknown.
const (
	DefaultProducerName    = "Theta"
	DefaultProducerVersion = "no version found"
	Unknown                = "unknown"
)

// Data models recorded in task metadata.
const (
	DataModelILP32 = "ILP32"
	DataModelLP64  = "LP64"
)

func init() {
	codec.Register(codec.Witness, ir.KindExplicit, func(deps codec.Deps) (codec.Codec, error) {
		return NewExplicit(fromDeps(deps)...), nil
	})
	codec.Register(codec.Witness, ir.KindPredicate, func(deps codec.Deps) (codec.Codec, error) {
		return NewPredicate(fromDeps(deps)...), nil
	})
}

func fromDeps(deps codec.Deps) []Option {
	opts := []Option{WithLogger(deps.Logger), WithTask(deps.Task)}
	if deps.Metadata != nil {
		opts = append(opts, WithMetadata(deps.Metadata))
	}
	return opts
}

// Clock supplies witness creation times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// IDGenerator supplies witness UUIDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type options struct {
	logger *slog.Logger
	meta   metadata.Lookup
	task   codec.Task
	clock  Clock
	ids    IDGenerator
}

// Option configures a witness codec.
type Option func(*options)

// WithLogger sets the logger drops are reported to. A nil logger keeps
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetadata sets the source of line, column, C-name and internal facts.
// Without it every variable has only its leaf name.
func WithMetadata(m metadata.Lookup) Option {
	return func(o *options) {
		o.meta = m
	}
}

// WithTask sets the task and producer recorded in the header.
func WithTask(t codec.Task) Option {
	return func(o *options) {
		o.task = t
	}
}

// WithClock replaces the wall clock used for creation_time.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		meta:   (*metadata.Table)(nil),
		clock:  systemClock{},
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// header builds the metadata of a freshly written witness.
func (o *options) header() Metadata {
	inputName, inputPath := Unknown, Unknown
	if o.task.InputFile != "" {
		inputName = filepath.Base(o.task.InputFile)
		inputPath = o.task.InputFile
	}
	dataModel := DataModelILP32
	if o.task.Architecture != "" && o.task.Architecture != DataModelILP32 {
		dataModel = DataModelLP64
	}
	return Metadata{
		FormatVersion: ir.WitnessFormatVersion,
		UUID:          o.ids.Generate(),
		CreationTime:  o.clock.Now().Format(time.RFC3339),
		Producer: Producer{
			Name:    firstNonEmpty(o.task.ProducerName, os.Getenv(EnvVerifierName), DefaultProducerName),
			Version: firstNonEmpty(o.task.ProducerVersion, os.Getenv(EnvVerifierVersion), DefaultProducerVersion),
		},
		Task: Task{
			InputFiles:      []string{inputName},
			InputFileHashes: map[string]string{inputPath: inputHash(inputPath)},
			Specification:   firstNonEmpty(o.task.Property, Unknown),
			DataModel:       dataModel,
			Language:        "C",
		},
	}
}

// inputHash is the SHA-256 of the file at path, or of the path itself when
// the file cannot be read.
func inputHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.ContentHash([]byte(path))
	}
	return ir.ContentHash(data)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
