package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/precreuse/internal/history"
	"github.com/roach88/precreuse/internal/refine"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID        string `json:"id"`
	Format    string `json:"format"`
	Kind      string `json:"kind"`
	Input     string `json:"input"`
	Threshold int    `json:"threshold"`
	StartedAt string `json:"started_at"`
}

// RunList is the output of history without a run id.
type RunList struct {
	Runs []RunSummary `json:"runs"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs recorded."
	}
	var b strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s  %s/%s  %s", r.ID, r.StartedAt, r.Format, r.Kind, r.Input)
	}
	return b.String()
}

// RunDetail is the output of history for one run.
type RunDetail struct {
	RunID      string             `json:"run_id"`
	Iterations []refine.Iteration `json:"iterations"`
	Archived   []string           `json:"archived"`
}

func (d RunDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d iterations", d.RunID, len(d.Iterations))
	for _, it := range d.Iterations {
		fmt.Fprintf(&b, "\n%3d  %-6d non-growth=%d", it.Index, it.Size, it.NonGrowth)
		if it.Stuck {
			b.WriteString(" stuck")
		}
	}
	for _, h := range d.Archived {
		fmt.Fprintf(&b, "\narchived %s", h)
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded refinement runs",
		Long: `List the runs recorded in a history database, or show the iterations and
archived precisions of one run.

Examples:
  precreuse history --db runs.db
  precreuse history --db runs.db 0190a5c4-7d1e-7c3a-9f00-2b1e4c5d6e7f --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	hist, err := history.Open(opts.Database, history.WithLogger(logger))
	if err != nil {
		return formatter.Fail("failed to open history", err)
	}
	defer hist.Close()

	if runID == "" {
		runs, err := hist.Runs(ctx)
		if err != nil {
			return formatter.Fail("failed to list runs", err)
		}
		list := RunList{Runs: make([]RunSummary, len(runs))}
		for i, r := range runs {
			list.Runs[i] = RunSummary{
				ID:        r.ID,
				Format:    string(r.Format),
				Kind:      string(r.Kind),
				Input:     r.Input,
				Threshold: r.Threshold,
				StartedAt: r.StartedAt.Format(time.RFC3339),
			}
		}
		return formatter.Success(list)
	}

	its, err := hist.Iterations(ctx, runID)
	if err != nil {
		return formatter.Fail("failed to read iterations", err)
	}
	docs, err := hist.Precisions(ctx, runID)
	if err != nil {
		return formatter.Fail("failed to read archive", err)
	}
	detail := RunDetail{RunID: runID, Iterations: its, Archived: make([]string, len(docs))}
	for i, d := range docs {
		detail.Archived[i] = d.Hash
	}
	return formatter.Success(detail)
}
