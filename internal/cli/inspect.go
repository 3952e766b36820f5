package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	CodecOptions
	From string
}

// InspectResult describes a decoded precision file.
type InspectResult struct {
	File    string       `json:"file"`
	Format  string       `json:"format"`
	Kind    string       `json:"kind"`
	Size    int          `json:"size"`
	Entries []string     `json:"entries"`
	Dropped []codec.Drop `json:"dropped,omitempty"`
}

func (r InspectResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d %s entries", r.File, r.Format, r.Size, r.Kind)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\n  %s", e)
	}
	for _, d := range r.Dropped {
		fmt.Fprintf(&b, "\n  skipped: %s (%s)", d.Value, d.Reason)
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Decode a precision file and list its entries",
		Long: `Decode a precision file against a universe file and print the tracked
variables or predicates that resolve, plus every skipped entry. Without a
file argument the input setting is read.

Examples:
  precreuse inspect --vars vars.yml prec.txt
  precreuse inspect --vars vars.yml --from witness --kind predicate --format json prec.yml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, argAt(args, 0), cmd)
		},
	}

	opts.CodecOptions.register(cmd)
	cmd.Flags().StringVar(&opts.From, "from", "", "file format (proprietary|witness); default from settings")

	return cmd
}

func runInspect(opts *InspectOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())

	sess, err := openSession(&opts.CodecOptions, logger)
	if err != nil {
		return formatter.Fail("failed to load settings", err)
	}
	file = orSetting(file, sess.cfg.Input)
	if file == "" {
		return formatter.Fail("missing input", errNoInput)
	}
	c, err := sess.codec(opts.From)
	if err != nil {
		return formatter.Fail("failed to build codec", err)
	}
	prec, err := sess.load(commandContext(cmd), c, file)
	if err != nil {
		return formatter.Fail("failed to read precision", err)
	}

	return formatter.Success(InspectResult{
		File:    file,
		Format:  string(c.Format()),
		Kind:    string(c.Kind()),
		Size:    prec.Size(),
		Entries: ir.Entries(prec),
		Dropped: c.LastReport().Dropped,
	})
}
