package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/precreuse/internal/history"
	"github.com/roach88/precreuse/internal/refine"
)

// MonitorOptions holds flags for the monitor command.
type MonitorOptions struct {
	*RootOptions
	CodecOptions
	From      string
	Threshold int
	Criterion string
	Database  string
}

// Snapshot is the monitor's view of one precision file.
type Snapshot struct {
	File      string `json:"file"`
	Size      int    `json:"size"`
	NonGrowth int    `json:"non_growth"`
	Stuck     bool   `json:"stuck"`
	Satisfied bool   `json:"criterion"`
}

// MonitorResult summarises a sequence of refinement snapshots.
type MonitorResult struct {
	Threshold int        `json:"threshold"`
	Snapshots []Snapshot `json:"snapshots"`
	// StoppedAt is the 1-based snapshot at which refinement would stop,
	// or 0.
	StoppedAt int    `json:"stopped_at"`
	Reason    string `json:"reason,omitempty"`
	RunID     string `json:"run_id,omitempty"`
}

func (r MonitorResult) String() string {
	var b strings.Builder
	for i, s := range r.Snapshots {
		fmt.Fprintf(&b, "%3d  %-6d non-growth=%d", i+1, s.Size, s.NonGrowth)
		if s.Stuck {
			b.WriteString(" stuck")
		}
		if s.Satisfied {
			b.WriteString(" criterion")
		}
		fmt.Fprintf(&b, "  %s\n", s.File)
	}
	if r.StoppedAt == 0 {
		fmt.Fprintf(&b, "refinement continues (threshold %d)", r.Threshold)
	} else {
		fmt.Fprintf(&b, "refinement stops at snapshot %d (%s)", r.StoppedAt, r.Reason)
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "\nrecorded as run %s", r.RunID)
	}
	return b.String()
}

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MonitorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "monitor <file>...",
		Short: "Replay precision snapshots through the stagnation monitor",
		Long: `Decode one precision file per refinement iteration, in order, and report
where refinement stagnates or the stopping criterion first holds.

The criterion is a CEL expression over size, kind and vars.

Examples:
  precreuse monitor --vars vars.yml --threshold 3 it1/prec.txt it2/prec.txt it3/prec.txt
  precreuse monitor --vars vars.yml --criterion 'size >= 40' --db runs.db it*/prec.txt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(opts, args, cmd)
		},
	}

	opts.CodecOptions.register(cmd)
	cmd.Flags().StringVar(&opts.From, "from", "", "file format (proprietary|witness); default from settings")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", 0, "non-growth threshold; default from settings")
	cmd.Flags().StringVar(&opts.Criterion, "criterion", "", "CEL stopping criterion; default from settings")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the iterations in this history database; default from settings")

	return cmd
}

func runMonitor(opts *MonitorOptions, files []string, cmd *cobra.Command) error {
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
	if opts.Threshold != 0 {
		sess.cfg.Refine.Threshold = opts.Threshold
	}
	if opts.Criterion != "" {
		sess.cfg.Refine.Criterion = opts.Criterion
	}
	if err := sess.cfg.Validate(); err != nil {
		return formatter.Fail("invalid monitor settings", err)
	}
	crit, err := sess.cfg.Criterion()
	if err != nil {
		return formatter.Fail("invalid criterion", err)
	}
	c, err := sess.codec(opts.From)
	if err != nil {
		return formatter.Fail("failed to build codec", err)
	}

	monitorOpts := []refine.Option{
		refine.WithThreshold(sess.cfg.Refine.Threshold),
		refine.WithLogger(logger),
	}
	if crit != nil {
		monitorOpts = append(monitorOpts, refine.WithCriterion(crit))
	}

	result := MonitorResult{Threshold: sess.cfg.Refine.Threshold, Snapshots: []Snapshot{}}
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
			Format:    c.Format(),
			Kind:      c.Kind(),
			Input:     files[0],
			Threshold: sess.cfg.Refine.Threshold,
		})
		if err != nil {
			return formatter.Fail("failed to start run", err)
		}
		result.RunID = run.ID
		monitorOpts = append(monitorOpts, refine.WithRecorder(hist.Recorder(ctx, run.ID)))
	}

	m := refine.NewMonitor(monitorOpts...)
	for i, file := range files {
		prec, err := sess.load(ctx, c, file)
		if err != nil {
			return formatter.Fail("failed to read precision", err)
		}
		stuck := m.Observe(prec.Size())
		satisfied := m.ShouldStop(prec)
		if result.StoppedAt == 0 && (stuck || satisfied) {
			result.StoppedAt = i + 1
			result.Reason = "stagnation"
			if satisfied {
				result.Reason = "criterion"
			}
		}
		result.Snapshots = append(result.Snapshots, Snapshot{
			File:      file,
			Size:      prec.Size(),
			NonGrowth: m.NonGrowth(),
			Stuck:     stuck,
			Satisfied: satisfied,
		})
	}

	return formatter.Success(result)
}
