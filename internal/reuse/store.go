// Package reuse persists the precision of one verification run so a later
// run can start from it.
//
// A Store is disabled until Enable binds a codec. While disabled, WriteTo
// writes nothing; Load and Save are wiring errors. One Store serves one run
// and is not safe for concurrent use.
package reuse

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
)

// Archive keeps every written precision document. The history database
// implements it.
type Archive interface {
	Archive(ctx context.Context, format codec.Format, kind ir.Kind, body string) (hash string, err error)
}

// Store holds the codec, the input binding and the staged precision of a
// run.
type Store struct {
	codec   codec.Codec
	input   string
	staged  ir.Precision
	logger  *slog.Logger
	archive Archive
	hash    string

	parseDuration     time.Duration
	serializeDuration time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithArchive archives every document WriteTo produces.
func WithArchive(a Archive) Option {
	return func(s *Store) {
		s.archive = a
	}
}

// New returns a disabled store.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enable activates persistence through c.
func (s *Store) Enable(c codec.Codec) {
	s.codec = c
}

// Enabled reports whether a codec is bound.
func (s *Store) Enabled() bool {
	return s.codec != nil
}

// Codec returns the bound codec, or nil.
func (s *Store) Codec() codec.Codec {
	return s.codec
}

// SetInput binds the file Load reads.
func (s *Store) SetInput(path string) {
	s.input = path
}

// Save stages p for the next WriteTo, replacing any staged precision.
func (s *Store) Save(p ir.Precision) error {
	if !s.Enabled() {
		return notEnabled("save")
	}
	s.staged = p
	return nil
}

// Staged returns the staged precision, or nil.
func (s *Store) Staged() ir.Precision {
	return s.staged
}

// Load reads the bound input and decodes it against currentVars. A
// missing input file reads as the empty document. It fails with a
// *codec.ConfigError when the store is not enabled, no input is bound, or
// the codec produces a precision other than P.
func Load[P ir.Precision](ctx context.Context, s *Store, currentVars []ir.VarDecl) (P, error) {
	var zero P
	p, err := s.load(ctx, currentVars)
	if err != nil {
		return zero, err
	}
	typed, ok := p.(P)
	if !ok {
		return zero, &codec.ConfigError{
			Code:    codec.ErrCodeKindMismatch,
			Message: fmt.Sprintf("codec produced %s precision, caller expects %T", p.Kind(), zero),
		}
	}
	return typed, nil
}

func (s *Store) load(ctx context.Context, currentVars []ir.VarDecl) (p ir.Precision, err error) {
	if !s.Enabled() {
		return nil, notEnabled("load")
	}
	if s.input == "" {
		return nil, &codec.ConfigError{Code: codec.ErrCodeNoInput, Message: "load: no input file bound"}
	}

	ctx, span := startSpan(ctx, "Load", s.codec)
	defer func() { endSpan(span, err) }()

	text, err := readInput(s.input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p, err = s.codec.Parse(text, currentVars)
	s.parseDuration = time.Since(start)
	report := s.codec.LastReport()
	recordParse(ctx, s.codec, s.parseDuration, report.Len())

	if err != nil {
		var de *codec.DecodeError
		if errors.As(err, &de) && de.Input == "" {
			de.Input = s.input
		}
		return nil, err
	}
	s.logger.Debug("precision loaded",
		"input", s.input,
		"format", string(s.codec.Format()),
		"kind", string(s.codec.Kind()),
		"size", p.Size(),
		"dropped", report.Len(),
		"duration", s.parseDuration)
	return p, nil
}

// readInput returns the file content, or "" when it does not exist.
func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reuse: read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteTo writes the staged precision into outputDir under the format's
// file name and returns the path. Nothing staged writes an empty file. A
// disabled store writes nothing and returns "".
//
// The document is written to a temporary file in outputDir and renamed
// into place, so an interrupted write never leaves a truncated file.
func (s *Store) WriteTo(ctx context.Context, outputDir string) (path string, err error) {
	if !s.Enabled() {
		return "", nil
	}
	ctx, span := startSpan(ctx, "WriteTo", s.codec)
	defer func() { endSpan(span, err) }()
	s.hash = ""

	body := ""
	if s.staged != nil {
		start := time.Now()
		body, err = s.codec.Serialize(s.staged)
		s.serializeDuration = time.Since(start)
		recordSerialize(ctx, s.codec, s.serializeDuration, s.codec.LastReport().Len())
		if err != nil {
			return "", err
		}
	}

	path = filepath.Join(outputDir, s.codec.Format().FileName())
	if err := writeAtomic(path, body); err != nil {
		return "", err
	}

	if s.archive != nil && s.staged != nil {
		hash, err := s.archive.Archive(ctx, s.codec.Format(), s.codec.Kind(), body)
		if err != nil {
			return "", fmt.Errorf("reuse: archive: %w", err)
		}
		s.hash = hash
		s.logger.Debug("precision archived", "hash", hash)
	}
	s.logger.Debug("precision written",
		"path", path,
		"bytes", len(body),
		"duration", s.serializeDuration)
	return path, nil
}

func writeAtomic(path, body string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".prec-*")
	if err != nil {
		return fmt.Errorf("reuse: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return fmt.Errorf("reuse: write %s: %w", tmp.Name(), err)
	}
	// CreateTemp makes the file owner-only.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("reuse: chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("reuse: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("reuse: rename to %s: %w", path, err)
	}
	return nil
}

// ArchiveHash is the hash under which the last WriteTo archived its
// document, or "" when nothing was archived.
func (s *Store) ArchiveHash() string {
	return s.hash
}

// ParseDuration is the wall-clock time of the last codec Parse. It is for
// diagnostics only.
func (s *Store) ParseDuration() time.Duration {
	return s.parseDuration
}

// SerializeDuration is the wall-clock time of the last codec Serialize.
// It is for diagnostics only.
func (s *Store) SerializeDuration() time.Duration {
	return s.serializeDuration
}

func notEnabled(op string) error {
	return &codec.ConfigError{Code: codec.ErrCodeNotEnabled, Message: op + ": precision store not enabled"}
}
