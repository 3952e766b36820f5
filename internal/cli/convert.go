package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/history"
	"github.com/roach88/precreuse/internal/reuse"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	CodecOptions
	From     string
	To       string
	Database string
}

// ConvertResult is the outcome of one conversion.
type ConvertResult struct {
	Input       string       `json:"input"`
	Output      string       `json:"output"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Kind        string       `json:"kind"`
	Size        int          `json:"size"`
	ReadDrops   []codec.Drop `json:"read_drops,omitempty"`
	WriteDrops  []codec.Drop `json:"write_drops,omitempty"`
	ArchiveHash string       `json:"archive_hash,omitempty"`
}

func (r ConvertResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) -> %s (%s): %d %s entries", r.Input, r.From, r.Output, r.To, r.Size, r.Kind)
	for _, d := range r.ReadDrops {
		fmt.Fprintf(&b, "\n  skipped on read: %s (%s)", d.Value, d.Reason)
	}
	for _, d := range r.WriteDrops {
		fmt.Fprintf(&b, "\n  skipped on write: %s (%s)", d.Value, d.Reason)
	}
	if r.ArchiveHash != "" {
		fmt.Fprintf(&b, "\n  archived as %s", r.ArchiveHash)
	}
	return b.String()
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [input] [output-dir]",
		Short: "Re-encode a precision file in another format",
		Long: `Read a precision file, bind it to the variables of a universe file and
write it again, possibly in the other format.

Entries that cannot be resolved or re-encoded are skipped and listed. The
input, output directory, universe and history database default to the
input, output_dir, universe and history.path settings.

Examples:
  precreuse convert --vars vars.yml --from proprietary --to witness prec.txt out/
  precreuse convert --vars vars.yml --kind predicate --to witness --db runs.db prec.txt out/
  precreuse convert --config precreuse.yml`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, argAt(args, 0), argAt(args, 1), cmd)
		},
	}

	opts.CodecOptions.register(cmd)
	cmd.Flags().StringVar(&opts.From, "from", "", "input format (proprietary|witness); default from settings")
	cmd.Flags().StringVar(&opts.To, "to", "", "output format (proprietary|witness); default from settings")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the written document in this history database; default from settings")

	return cmd
}

func runConvert(opts *ConvertOptions, input, outputDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	sess, err := openSession(&opts.CodecOptions, logger)
	if err != nil {
		return formatter.Fail("failed to load settings", err)
	}
	input = orSetting(input, sess.cfg.Input)
	if input == "" {
		return formatter.Fail("missing input", errNoInput)
	}
	outputDir = orSetting(outputDir, sess.cfg.OutputDir)
	if outputDir == "" {
		return formatter.Fail("missing output directory", errNoOutput)
	}
	src, err := sess.codec(opts.From)
	if err != nil {
		return formatter.Fail("failed to build input codec", err)
	}
	dst, err := sess.codec(opts.To)
	if err != nil {
		return formatter.Fail("failed to build output codec", err)
	}

	prec, err := sess.load(ctx, src, input)
	if err != nil {
		return formatter.Fail("failed to read precision", err)
	}
	readDrops := src.LastReport().Dropped

	storeOpts := []reuse.Option{reuse.WithLogger(logger)}
	var archive *history.RunRecorder
	if db := orSetting(opts.Database, sess.cfg.History.Path); db != "" {
		hist, err := history.Open(db, history.WithLogger(logger))
		if err != nil {
			return formatter.Fail("failed to open history", err)
		}
		defer func() {
			if closeErr := hist.Close(); closeErr != nil {
				logger.Error("error closing history", "error", closeErr)
			}
		}()
		run, err := hist.BeginRun(ctx, history.Run{
			Format:    dst.Format(),
			Kind:      dst.Kind(),
			Input:     input,
			Threshold: sess.cfg.Refine.Threshold,
		})
		if err != nil {
			return formatter.Fail("failed to start run", err)
		}
		archive = hist.Recorder(ctx, run.ID)
		storeOpts = append(storeOpts, reuse.WithArchive(archive))
	}

	store := reuse.New(storeOpts...)
	store.Enable(dst)
	if err := store.Save(prec); err != nil {
		return formatter.Fail("failed to stage precision", err)
	}
	path, err := store.WriteTo(ctx, outputDir)
	if err != nil {
		return formatter.Fail("failed to write precision", err)
	}

	result := ConvertResult{
		Input:      input,
		Output:     path,
		From:       string(src.Format()),
		To:         string(dst.Format()),
		Kind:       string(sess.kind),
		Size:       prec.Size(),
		ReadDrops:  readDrops,
		WriteDrops: dst.LastReport().Dropped,
	}
	if archive != nil {
		result.ArchiveHash = store.ArchiveHash()
	}
	return formatter.Success(result)
}
