package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/refine"
	"github.com/roach88/precreuse/internal/testutil"
)

func TestBeginRun(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run, err := s.BeginRun(ctx, Run{Format: codec.Witness, Kind: ir.KindPredicate, Input: "prec.yml"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, testutil.Epoch, run.StartedAt)
	assert.Equal(t, refine.DefaultThreshold, run.Threshold)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])
}

func TestBeginRun_GeneratedID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator("run-1")))
	require.NoError(t, err)
	defer s.Close()

	run, err := s.BeginRun(context.Background(), Run{Format: codec.Proprietary, Kind: ir.KindExplicit})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
}

func TestBeginRun_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.BeginRun(ctx, Run{ID: "a", Format: codec.Proprietary, Kind: ir.KindExplicit})
	require.NoError(t, err)
	_, err = s.BeginRun(ctx, Run{ID: "a", Format: codec.Proprietary, Kind: ir.KindExplicit})
	assert.Error(t, err)
}

func TestRuns_Ordered(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, id := range []string{"b", "a", "c"} {
		_, err := s.BeginRun(ctx, Run{ID: id, Format: codec.Proprietary, Kind: ir.KindExplicit})
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids, "ordered by start time")
}

func TestRecordIteration_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	err := s.RecordIteration(context.Background(), "missing", refine.Iteration{Index: 1, Size: 3})
	assert.Error(t, err, "foreign key on run_id")
}

func TestIterations_Empty(t *testing.T) {
	s := createTestStore(t)

	its, err := s.Iterations(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, its)
	assert.Empty(t, its)
}

func TestRecorder_WithMonitor(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run, err := s.BeginRun(ctx, Run{ID: "r", Format: codec.Proprietary, Kind: ir.KindExplicit, Threshold: 2})
	require.NoError(t, err)

	m := refine.NewMonitor(refine.WithThreshold(run.Threshold), refine.WithRecorder(s.Recorder(ctx, run.ID)))
	for _, size := range []int{1, 4, 4, 4} {
		m.Observe(size)
	}

	its, err := s.Iterations(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []refine.Iteration{
		{Index: 1, Size: 1, NonGrowth: 1},
		{Index: 2, Size: 4, NonGrowth: 0},
		{Index: 3, Size: 4, NonGrowth: 1},
		{Index: 4, Size: 4, NonGrowth: 2, Stuck: true},
	}, its)
}

func TestRecordIteration_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	_, err := s.BeginRun(ctx, Run{ID: "r", Format: codec.Proprietary, Kind: ir.KindExplicit})
	require.NoError(t, err)

	require.NoError(t, s.RecordIteration(ctx, "r", refine.Iteration{Index: 1, Size: 1}))
	require.NoError(t, s.RecordIteration(ctx, "r", refine.Iteration{Index: 1, Size: 9}))

	its, err := s.Iterations(ctx, "r")
	require.NoError(t, err)
	require.Len(t, its, 1)
	assert.Equal(t, 1, its[0].Size, "first write wins")
}
