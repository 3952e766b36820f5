package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/refine"
)

type uuidV7 struct{}

func (uuidV7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Run describes one verification run.
type Run struct {
	ID        string
	Format    codec.Format
	Kind      ir.Kind
	Input     string
	Threshold int
	StartedAt time.Time
}

// BeginRun records a new run and returns it with ID and StartedAt filled
// in. A caller-supplied ID is kept.
func (s *Store) BeginRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	run.StartedAt = s.clock.Now().UTC()
	if run.Threshold == 0 {
		run.Threshold = refine.DefaultThreshold
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, format, kind, input, threshold, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Format),
		string(run.Kind),
		run.Input,
		run.Threshold,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	s.logger.Debug("run started", "run", run.ID, "format", run.Format, "kind", run.Kind)
	return run, nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, format, kind, input, threshold, started_at
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run       Run
			format    string
			kind      string
			startedAt string
		)
		if err := rows.Scan(&run.ID, &format, &kind, &run.Input, &run.Threshold, &startedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Format = codec.Format(format)
		run.Kind = ir.Kind(kind)
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("scan run %s: started_at: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RecordIteration stores one monitor observation for runID. Re-recording
// an iteration index is ignored.
func (s *Store) RecordIteration(ctx context.Context, runID string, it refine.Iteration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO iterations (run_id, iteration, size, non_growth, stuck)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, iteration) DO NOTHING
	`,
		runID,
		it.Index,
		it.Size,
		it.NonGrowth,
		boolToInt(it.Stuck),
	)
	if err != nil {
		return fmt.Errorf("record iteration: %w", err)
	}
	return nil
}

// Iterations returns the observations of runID in order. Unknown runs
// yield an empty slice.
func (s *Store) Iterations(ctx context.Context, runID string) ([]refine.Iteration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iteration, size, non_growth, stuck
		FROM iterations
		WHERE run_id = ?
		ORDER BY iteration ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query iterations: %w", err)
	}
	defer rows.Close()

	its := []refine.Iteration{}
	for rows.Next() {
		var (
			it    refine.Iteration
			stuck int
		)
		if err := rows.Scan(&it.Index, &it.Size, &it.NonGrowth, &stuck); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		it.Stuck = stuck != 0
		its = append(its, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate iterations: %w", err)
	}
	return its, nil
}

// Recorder binds a run so a refine.Monitor can log into it.
func (s *Store) Recorder(ctx context.Context, runID string) *RunRecorder {
	return &RunRecorder{store: s, ctx: ctx, runID: runID}
}

// RunRecorder implements refine.Recorder and reuse.Archive for one run.
type RunRecorder struct {
	store *Store
	ctx   context.Context
	runID string
}

// RunID returns the bound run.
func (r *RunRecorder) RunID() string {
	return r.runID
}

// RecordIteration implements refine.Recorder.
func (r *RunRecorder) RecordIteration(it refine.Iteration) error {
	return r.store.RecordIteration(r.ctx, r.runID, it)
}

// Archive implements reuse.Archive, attributing the document to the run.
func (r *RunRecorder) Archive(ctx context.Context, format codec.Format, kind ir.Kind, body string) (string, error) {
	return r.store.archive(ctx, r.runID, format, kind, body)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
