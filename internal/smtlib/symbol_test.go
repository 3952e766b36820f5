package smtlib

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/precreuse/internal/ir"
)

func TestEncodeSymbol(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "x", "x"},
		{"simple with punctuation", "tmp_1.x", "tmp_1.x"},
		{"scoped", "main::x", "|main::x|"},
		{"leading digit", "1x", "|1x|"},
		{"reserved word", "let", "|let|"},
		{"space", "a b", "|a b|"},
		{"pipe", "a|b", "|a_b|"},
		{"backslash", `a\b`, "|a_b|"},
		{"nfc", "cafe\u0301", "|caf\u00e9|"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeSymbol(tt.in))
		})
	}
}

func TestEncodeSymbolDeterministic(t *testing.T) {
	assert.Equal(t, EncodeSymbol("f::g::x"), EncodeSymbol("f::g::x"))
}

func TestSymbolTable(t *testing.T) {
	x := ir.Var("main::x", ir.Int())
	y := ir.Var("main::y", ir.Int())

	table := NewSymbolTable()
	table.Put(x, "main::x")

	sym, ok := table.Symbol(x)
	assert.True(t, ok)
	assert.Equal(t, "main::x", sym)

	v, ok := table.Lookup("main::x")
	assert.True(t, ok)
	assert.Equal(t, x, v)
	assert.True(t, table.DefinesSymbol("main::x"))
	assert.False(t, table.DefinesSymbol("main::y"))

	assert.Panics(t, func() { table.Put(x, "other") }, "variable already bound")
	assert.Panics(t, func() { table.Put(y, "main::x") }, "symbol already bound")
	assert.Equal(t, 1, table.Len())
}

func TestTableFor(t *testing.T) {
	x := ir.Var("main::x", ir.Int())
	b := ir.Var("flag", ir.Bool())

	table := TableFor([]ir.VarDecl{x, b, x})

	assert.Equal(t, []ir.VarDecl{x, b}, table.Vars())
	v, ok := table.Lookup("main::x")
	assert.True(t, ok)
	assert.Equal(t, x, v)
	v, ok = table.Lookup("flag")
	assert.True(t, ok)
	assert.Equal(t, b, v)
}
