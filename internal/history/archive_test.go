package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/codec/proprietary"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/reuse"
)

func TestArchive_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	hash, err := s.Archive(ctx, codec.Proprietary, ir.KindExplicit, "x\ny")
	require.NoError(t, err)
	assert.Equal(t, ir.PrecisionHash("proprietary", ir.KindExplicit, "x\ny"), hash)

	got, err := s.Precision(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, Archived{
		Hash:   hash,
		Format: codec.Proprietary,
		Kind:   ir.KindExplicit,
		Body:   "x\ny",
	}, got)
}

func TestArchive_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	h1, err := s.Archive(ctx, codec.Proprietary, ir.KindExplicit, "x")
	require.NoError(t, err)
	h2, err := s.Archive(ctx, codec.Proprietary, ir.KindExplicit, "x")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM precisions").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestArchive_KindSeparatesHashes(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	h1, err := s.Archive(ctx, codec.Proprietary, ir.KindExplicit, "")
	require.NoError(t, err)
	h2, err := s.Archive(ctx, codec.Proprietary, ir.KindPredicate, "")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestPrecision_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Precision(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRunRecorder_ArchivesFromStore(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run, err := s.BeginRun(ctx, Run{ID: "r", Format: codec.Proprietary, Kind: ir.KindExplicit})
	require.NoError(t, err)

	x := ir.Var("main::x", ir.Int())
	store := reuse.New(reuse.WithArchive(s.Recorder(ctx, run.ID)))
	store.Enable(proprietary.NewExplicit())
	require.NoError(t, store.Save(ir.NewExplPrec(x)))

	_, err = store.WriteTo(ctx, t.TempDir())
	require.NoError(t, err)

	docs, err := s.Precisions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "|main::x|", docs[0].Body)
	assert.Equal(t, "r", docs[0].RunID)
}
