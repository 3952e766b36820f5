package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/config"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
	"github.com/roach88/precreuse/internal/reuse"
)

// CodecOptions are the flags shared by commands that read or write
// precision files.
type CodecOptions struct {
	Config   string
	Universe string
	Kind     string
}

func (o *CodecOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Config, "config", "", "settings file (YAML)")
	cmd.Flags().StringVar(&o.Universe, "vars", "", "variable universe file; default from settings")
	cmd.Flags().StringVar(&o.Kind, "kind", "", "precision kind (explicit|predicate); default from settings")
}

// settings loads the config file, or the defaults plus environment when
// none is given.
func settings(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default().FromEnv(os.LookupEnv)
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

var (
	errNoUniverse = errors.New("no variable universe: pass --vars or set universe in the settings file")
	errNoInput    = errors.New("no precision file: pass one or set input in the settings file")
	errNoOutput   = errors.New("no output directory: pass one or set output_dir in the settings file")
)

// orSetting returns value, or setting when value is empty.
func orSetting(value, setting string) string {
	if value != "" {
		return value
	}
	return setting
}

// argAt returns args[i], or "" when fewer arguments were given.
func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// session is everything a command needs to run a codec.
type session struct {
	cfg      config.Config
	universe *metadata.Universe
	kind     ir.Kind
	logger   *slog.Logger
}

func openSession(o *CodecOptions, logger *slog.Logger) (*session, error) {
	cfg, err := settings(o.Config)
	if err != nil {
		return nil, err
	}
	if o.Kind != "" {
		cfg.Kind = o.Kind
	}
	kind, err := cfg.PrecisionKind()
	if err != nil {
		return nil, err
	}
	path := orSetting(o.Universe, cfg.Universe)
	if path == "" {
		return nil, errNoUniverse
	}
	u, err := metadata.LoadUniverse(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("universe loaded", "path", path, "vars", len(u.Vars))
	return &session{cfg: cfg, universe: u, kind: kind, logger: logger}, nil
}

// codec builds the codec for format, or the configured format when empty.
func (s *session) codec(format string) (codec.Codec, error) {
	f, err := s.cfg.CodecFormat()
	if format != "" {
		f, err = codec.ParseFormat(format)
	}
	if err != nil {
		return nil, err
	}
	return codec.New(f, s.kind, codec.Deps{
		Logger:   s.logger,
		Metadata: s.universe.Table,
		Task:     s.cfg.CodecTask(),
	})
}

// load reads path through a store bound to c.
func (s *session) load(ctx context.Context, c codec.Codec, path string) (ir.Precision, error) {
	store := reuse.New(reuse.WithLogger(s.logger))
	store.Enable(c)
	store.SetInput(path)
	return loadPrecision(ctx, store, c.Kind(), s.universe.Vars)
}

// loadPrecision dispatches reuse.Load on the runtime kind.
func loadPrecision(ctx context.Context, store *reuse.Store, kind ir.Kind, vars []ir.VarDecl) (ir.Precision, error) {
	switch kind {
	case ir.KindExplicit:
		return reuse.Load[*ir.ExplPrec](ctx, store, vars)
	case ir.KindPredicate:
		return reuse.Load[*ir.PredPrec](ctx, store, vars)
	}
	return nil, fmt.Errorf("unknown precision kind %q", kind)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
