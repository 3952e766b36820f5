package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
)

func fixture() ([]ir.VarDecl, *metadata.Table) {
	g := ir.Var("g", ir.Int())
	fx := ir.Var("main::x", ir.Int())
	lx := ir.Var("main::loop::x", ir.Int())
	ly := ir.Var("main::loop::y", ir.Int())
	nx := ir.Var("main::blk::x", ir.Int())

	meta := metadata.NewTable()
	meta.Set(lx.Name, metadata.Info{Line: 10, Column: 5})
	meta.Set(ly.Name, metadata.Info{Line: 11})
	return []ir.VarDecl{g, fx, lx, ly, nx}, meta
}

func TestOf(t *testing.T) {
	vars, meta := fixture()

	assert.Equal(t, GlobalScope(), Of(vars[0], meta))
	assert.Equal(t, FunctionScope("main"), Of(vars[1], meta))
	assert.Equal(t, LocationScope("main", 10, 5), Of(vars[2], meta))
	assert.Equal(t, LocationScope("main", 11, 0), Of(vars[3], meta), "unknown column")
	assert.Equal(t, FunctionScope("main"), Of(vars[4], meta), "no line falls back to function")
}

func TestScopeOrder(t *testing.T) {
	assert.Less(t, int(Global), int(Function))
	assert.Less(t, int(Function), int(Location))

	for _, ty := range []Type{Global, Function, Location} {
		parsed, err := ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	_, err := ParseType("block")
	assert.Error(t, err)
}

func TestGroupVars(t *testing.T) {
	vars, meta := fixture()
	g, fx, lx, ly, nx := vars[0], vars[1], vars[2], vars[3], vars[4]

	groups := GroupVars([]ir.VarDecl{fx, g, lx, nx, ly}, meta)

	require.Len(t, groups, 4)
	assert.Equal(t, Group{Scope: FunctionScope("main"), Vars: []ir.VarDecl{fx, nx}}, groups[0])
	assert.Equal(t, Group{Scope: GlobalScope(), Vars: []ir.VarDecl{g}}, groups[1])
	assert.Equal(t, LocationScope("main", 10, 5), groups[2].Scope)
	assert.Equal(t, LocationScope("main", 11, 0), groups[3].Scope)
}

func TestTightest(t *testing.T) {
	vars, meta := fixture()
	g, fx, lx, ly := vars[0], vars[1], vars[2], vars[3]
	groups := GroupVars(vars, meta)

	tests := []struct {
		name string
		used []ir.VarDecl
		want Scope
	}{
		{"global only", []ir.VarDecl{g}, GlobalScope()},
		{"function beats global", []ir.VarDecl{g, fx}, FunctionScope("main")},
		{"location beats function", []ir.VarDecl{fx, lx}, LocationScope("main", 10, 5)},
		{"first location wins ties", []ir.VarDecl{ly, lx}, LocationScope("main", 10, 5)},
		{"no variables", nil, GlobalScope()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tightest(groups, tt.used))
		})
	}
}

func TestScore(t *testing.T) {
	vars, meta := fixture()
	g, fx, lx, ly := vars[0], vars[1], vars[2], vars[3]

	assert.Equal(t, 1, Score(g, GlobalScope(), meta))
	assert.Equal(t, 0, Score(fx, GlobalScope(), meta))
	assert.Equal(t, 1, Score(fx, FunctionScope("main"), meta))
	assert.Equal(t, 0, Score(fx, FunctionScope("other"), meta))

	loc := LocationScope("main", 10, 5)
	assert.Equal(t, 3, Score(lx, loc, meta))
	assert.Equal(t, 2, Score(lx, LocationScope("main", 10, 9), meta))
	assert.Equal(t, 1, Score(ly, loc, meta))
	assert.Equal(t, 0, Score(g, loc, meta))
}

func TestScoreWithoutFunction(t *testing.T) {
	vars, meta := fixture()
	fx, lx, ly := vars[1], vars[2], vars[3]

	noFn := LocationScope("", 99, 1)
	assert.Equal(t, 0, Score(fx, noFn, meta))
	assert.Equal(t, 0, Score(ly, noFn, meta))
	assert.Equal(t, 3, Score(lx, LocationScope("", 10, 5), meta), "line and column still match")
	assert.Equal(t, 0, Score(fx, FunctionScope(""), meta))
}

func TestFilterInScopeTieBreak(t *testing.T) {
	vars, meta := fixture()
	g, fx, lx, nx := vars[0], vars[1], vars[2], vars[4]

	// Location match (3) beats the function-level x (1) seen earlier.
	c := FilterInScope([]ir.VarDecl{fx, lx, nx, g}, LocationScope("main", 10, 5), meta)
	v, ok := c.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, lx, v)
	assert.Equal(t, 2, c.Len(), "one candidate per simple name")
}

func TestFilterInScopeTiesKeepFirst(t *testing.T) {
	vars, meta := fixture()
	fx, nx := vars[1], vars[4]

	c := FilterInScope([]ir.VarDecl{fx, nx}, FunctionScope("main"), meta)
	v, ok := c.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, fx, v)

	c = FilterInScope([]ir.VarDecl{nx, fx}, FunctionScope("main"), meta)
	v, _ = c.Resolve("x")
	assert.Equal(t, nx, v)
}

func TestFilterInScopeKeepsZeroScores(t *testing.T) {
	vars, meta := fixture()
	fx := vars[1]

	c := FilterInScope([]ir.VarDecl{fx}, FunctionScope("other"), meta)
	v, ok := c.Resolve("x")
	assert.True(t, ok)
	assert.Equal(t, fx, v)
}

func TestFilterInScopeUsesCName(t *testing.T) {
	a := ir.Var("main::__arr_7", ir.Array(ir.Int(), ir.Int()))
	meta := metadata.NewTable()
	meta.Set(a.Name, metadata.Info{CName: "buffer"})

	c := FilterInScope([]ir.VarDecl{a}, FunctionScope("main"), meta)
	v, ok := c.Resolve("buffer")
	assert.True(t, ok)
	assert.Equal(t, a, v)
	_, ok = c.Resolve("__arr_7")
	assert.False(t, ok)
	assert.Equal(t, []ir.VarDecl{a}, c.Vars())
}
