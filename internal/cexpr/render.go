// Package cexpr converts between ir expressions and C expression text as
// used in witness precision entries.
//
// Rendering is lossless for the fragment it accepts: parsing a rendered
// expression against the same variables yields an expression equal to the
// original after ir.Simplify. Everything outside that fragment (rationals,
// array updates, unsigned and bitwise bit-vector operators) is rejected
// with ErrUnsupported.
package cexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/precreuse/internal/ir"
)

// ErrUnsupported marks an expression or syntax outside the C fragment.
var ErrUnsupported = errors.New("cexpr: unsupported")

// NameFunc chooses the C identifier printed for a variable.
type NameFunc func(ir.VarDecl) string

// LeafNames prints each variable by its last scope segment.
func LeafNames(v ir.VarDecl) string {
	return v.LeafName()
}

var binaryOps = map[ir.Op]string{
	ir.OpEq: "==", ir.OpNeq: "!=",
	ir.OpLt: "<", ir.OpLeq: "<=", ir.OpGt: ">", ir.OpGeq: ">=",
	ir.OpSub: "-", ir.OpDiv: "/", ir.OpMod: "%",
	ir.OpBvSub: "-", ir.OpBvSDiv: "/", ir.OpBvSRem: "%",
	ir.OpBvSLt: "<", ir.OpBvSLe: "<=", ir.OpBvSGt: ">", ir.OpBvSGe: ">=",
}

var naryOps = map[ir.Op]string{
	ir.OpAnd: "&&", ir.OpOr: "||",
	ir.OpAdd: "+", ir.OpMul: "*",
	ir.OpBvAdd: "+", ir.OpBvMul: "*",
}

// Render prints e as a fully parenthesised C expression.
func Render(e ir.Expr, name NameFunc) (string, error) {
	var sb strings.Builder
	if err := render(&sb, e, name); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func render(sb *strings.Builder, e ir.Expr, name NameFunc) error {
	switch n := e.(type) {
	case ir.BoolLit:
		if n {
			sb.WriteString("1")
		} else {
			sb.WriteString("0")
		}
	case ir.IntLit:
		sb.WriteString(strconv.FormatInt(int64(n), 10))
	case ir.BvLit:
		sb.WriteString(strconv.FormatUint(n.Value, 10))
	case ir.Ref:
		sb.WriteString(name(n.Decl))
	case ir.Unary:
		switch n.Op {
		case ir.OpNot:
			sb.WriteString("!")
		case ir.OpNeg, ir.OpBvNeg:
			sb.WriteString("-")
		default:
			return unsupported(e)
		}
		sb.WriteString("(")
		if err := render(sb, n.X, name); err != nil {
			return err
		}
		sb.WriteString(")")
	case ir.Binary:
		if n.Op == ir.OpRead {
			if err := render(sb, n.X, name); err != nil {
				return err
			}
			sb.WriteString("[")
			if err := render(sb, n.Y, name); err != nil {
				return err
			}
			sb.WriteString("]")
			return nil
		}
		op, ok := binaryOps[n.Op]
		if !ok {
			return unsupported(e)
		}
		return renderInfix(sb, op, name, n.X, n.Y)
	case ir.Nary:
		op, ok := naryOps[n.Op]
		if !ok {
			return unsupported(e)
		}
		return renderInfix(sb, op, name, n.Args...)
	case ir.Ite:
		sb.WriteString("(")
		if err := render(sb, n.Cond, name); err != nil {
			return err
		}
		sb.WriteString(" ? ")
		if err := render(sb, n.Then, name); err != nil {
			return err
		}
		sb.WriteString(" : ")
		if err := render(sb, n.Else, name); err != nil {
			return err
		}
		sb.WriteString(")")
	default:
		return unsupported(e)
	}
	return nil
}

func renderInfix(sb *strings.Builder, op string, name NameFunc, args ...ir.Expr) error {
	sb.WriteString("(")
	for i, a := range args {
		if i > 0 {
			sb.WriteString(" " + op + " ")
		}
		if err := render(sb, a, name); err != nil {
			return err
		}
	}
	sb.WriteString(")")
	return nil
}

func unsupported(e ir.Expr) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, e)
}
