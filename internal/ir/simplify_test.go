package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplify(t *testing.T) {
	gt := Gt(x.Ref(), IntLit(0))

	tests := []struct {
		name string
		in   Expr
		want string
	}{
		{"double negation", Not(Not(b.Ref())), "|flag|"},
		{"not literal", Not(False), "true"},
		{"int compare", Lt(IntLit(1), IntLit(2)), "true"},
		{"rat compare", Must(NewBinary(OpGeq, NewRatLit(1, 3), NewRatLit(1, 2))), "false"},
		{"neq literals", Neq(IntLit(1), IntLit(0)), "true"},
		{"eq same operands", Eq(x.Ref(), x.Ref()), "true"},
		{"and drops true", And(True, gt), "(> |main::x| 0)"},
		{"and with false", And(gt, False), "false"},
		{"or with true", Or(gt, True), "true"},
		{"and flattens and dedups", And(gt, And(gt, b.Ref())), "(and (> |main::x| 0) |flag|)"},
		{"implies false premise", Must(NewBinary(OpImply, False, b.Ref())), "true"},
		{"implies true premise", Must(NewBinary(OpImply, True, b.Ref())), "|flag|"},
		{"add folds constants", Add(IntLit(1), x.Ref(), IntLit(2)), "(+ |main::x| 3)"},
		{"add zero", Add(x.Ref(), IntLit(0)), "|main::x|"},
		{"mul literals", Mul(IntLit(3), IntLit(4)), "12"},
		{"sub literals", Sub(IntLit(3), IntLit(4)), "-1"},
		{"neg literal", Must(NewUnary(OpNeg, IntLit(4))), "-4"},
		{"euclidean div", Must(NewBinary(OpDiv, IntLit(-7), IntLit(2))), "-4"},
		{"euclidean mod", Must(NewBinary(OpMod, IntLit(-7), IntLit(2))), "1"},
		{"div by zero kept", Must(NewBinary(OpDiv, IntLit(1), IntLit(0))), "(div 1 0)"},
		{"rational division", Must(NewBinary(OpRatDiv, NewRatLit(1, 1), NewRatLit(-2, 1))), "-1/2"},
		{"ite literal cond", Must(NewIte(True, x.Ref(), y.Ref())), "|main::x|"},
		{"ite equal branches", Must(NewIte(b.Ref(), x.Ref(), x.Ref())), "|main::x|"},
		{"nested fold", Gt(Add(IntLit(1), IntLit(1)), IntLit(1)), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.in)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.in.Type(), got.Type(), "type preserved")
		})
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	exprs := []Expr{
		And(Gt(x.Ref(), IntLit(0)), Or(b.Ref(), False), Not(Not(b.Ref()))),
		Add(IntLit(2), Mul(x.Ref(), IntLit(1)), IntLit(-2)),
		Must(NewIte(Lt(x.Ref(), y.Ref()), Add(x.Ref(), IntLit(0)), y.Ref())),
	}
	for _, e := range exprs {
		once := Simplify(e)
		assert.True(t, Equal(once, Simplify(once)), "Simplify must be idempotent for %s", e)
	}
}
