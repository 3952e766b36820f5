package smtlib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/precreuse/internal/ir"
)

var (
	vx   = ir.Var("main::x", ir.Int())
	vy   = ir.Var("main::y", ir.Int())
	vr   = ir.Var("r", ir.Rat())
	vbv  = ir.Var("main::bits", ir.Bv(8))
	vwd  = ir.Var("main::wide", ir.Bv(128))
	varr = ir.Var("arr", ir.Array(ir.Int(), ir.Int()))
	vb   = ir.Var("flag", ir.Bool())
)

func testTable() *SymbolTable {
	return TableFor([]ir.VarDecl{vx, vy, vr, vbv, vwd, varr, vb})
}

func TestToTerm(t *testing.T) {
	tr := Transformer{}
	tests := []struct {
		name string
		in   ir.Expr
		want string
	}{
		{"comparison", ir.Gt(vx.Ref(), ir.IntLit(0)), "(> |main::x| 0)"},
		{"negative literal", ir.Eq(vx.Ref(), ir.IntLit(-3)), "(= |main::x| (- 3))"},
		{"negation", ir.Eq(ir.Must(ir.NewUnary(ir.OpNeg, vx.Ref())), vy.Ref()), "(= (- |main::x|) |main::y|)"},
		{"rational", ir.Lt(vr.Ref(), ir.NewRatLit(-1, 2)), "(< r (- (/ 1.0 2.0)))"},
		{"whole rational", ir.Lt(vr.Ref(), ir.NewRatLit(3, 1)), "(< r 3.0)"},
		{"bit-vector", ir.Must(ir.NewBinary(ir.OpBvULt, vbv.Ref(), ir.NewBvLit(5, 8))), "(bvult |main::bits| #b00000101)"},
		{"array read", ir.Eq(ir.Read(varr.Ref(), ir.IntLit(1)), vx.Ref()), "(= (select arr 1) |main::x|)"},
		{"nary", ir.And(vb.Ref(), ir.Not(vb.Ref()), ir.True), "(and flag (not flag) true)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.ToTerm(tt.in, testTable())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToTermUnboundVariable(t *testing.T) {
	_, err := Transformer{}.ToTerm(ir.Gt(vx.Ref(), ir.IntLit(0)), NewSymbolTable())
	assert.True(t, errors.Is(err, ErrUnknownSymbol))
}

func TestToExpr(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"(> |main::x| 0)", "(> |main::x| 0)"},
		{"(- |main::x|)", "(neg |main::x|)"},
		{"(- |main::x| 1 2)", "(- (- |main::x| 1) 2)"},
		{"(< 0 |main::x| |main::y|)", "(and (< 0 |main::x|) (< |main::x| |main::y|))"},
		{"(distinct |main::x| |main::y| 0)", "(and (distinct |main::x| |main::y|) (distinct |main::x| 0) (distinct |main::y| 0))"},
		{"(=> flag flag flag)", "(=> |flag| (=> |flag| |flag|))"},
		{"(< r 1)", "(< |r| 1/1)"},
		{"(/ 1 2)", "(/ 1/1 2/1)"},
		{"(bvadd |main::bits| (_ bv3 8))", "(bvadd |main::bits| (bv 3 8))"},
		{"(= |main::bits| #x0f)", "(= |main::bits| (bv 15 8))"},
		{"(= |main::wide| (_ bv5 128))", "(= |main::wide| (bv 5 128))"},
		{"(= |main::wide| #x000000000000000000000000000000ff)", "(= |main::wide| (bv 255 128))"},
		{"(= (store arr 0 1) arr)", "(= (store |arr| 0 1) |arr|)"},
		{"(ite flag |main::x| 2)", "(ite |flag| |main::x| 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			n, err := ParseOne(tt.term)
			require.NoError(t, err)
			got, err := Transformer{}.ToExpr(n, testTable())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestToExprErrors(t *testing.T) {
	tests := []struct {
		term   string
		target error
	}{
		{"(> unknown 0)", ErrUnknownSymbol},
		{"(let ((a 1)) (> a 0))", ErrUnsupported},
		{"(exp |main::x|)", ErrUnsupported},
		{"((_ extract 3 0) |main::bits|)", ErrUnsupported},
		{"(= |main::wide| #x100000000000000000000000000000000)", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			n, err := ParseOne(tt.term)
			require.NoError(t, err)
			_, err = Transformer{}.ToExpr(n, testTable())
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestToExprTypeError(t *testing.T) {
	n, err := ParseOne("(and flag |main::x|)")
	require.NoError(t, err)

	_, err = Transformer{}.ToExpr(n, testTable())
	var te *ir.TypeError
	assert.True(t, errors.As(err, &te), "got %v", err)
}

func TestTermRoundTrip(t *testing.T) {
	preds := []ir.Expr{
		ir.Gt(ir.Add(vx.Ref(), vy.Ref()), ir.IntLit(-4)),
		ir.Lt(vr.Ref(), ir.NewRatLit(-1, 2)),
		ir.Or(vb.Ref(), ir.Eq(ir.Read(varr.Ref(), vx.Ref()), ir.IntLit(0))),
		ir.Must(ir.NewBinary(ir.OpBvSLe, vbv.Ref(), ir.NewBvLit(200, 8))),
		ir.Eq(vwd.Ref(), ir.NewBvLit(^uint64(0), 128)),
	}
	table := testTable()
	for _, p := range preds {
		t.Run(p.String(), func(t *testing.T) {
			term, err := Transformer{}.ToTerm(p, table)
			require.NoError(t, err)
			n, err := ParseOne(term)
			require.NoError(t, err)
			back, err := Transformer{}.ToExpr(n, table)
			require.NoError(t, err)
			assert.True(t, ir.Equal(ir.Simplify(p), ir.Simplify(back)), "%s != %s", p, back)
		})
	}
}
