package cexpr

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/roach88/precreuse/internal/ir"
)

// ErrUnknownIdentifier marks an identifier the resolver cannot bind.
var ErrUnknownIdentifier = errors.New("cexpr: unknown identifier")

// Resolver binds a C identifier to a live variable.
type Resolver func(name string) (ir.VarDecl, bool)

// Parse converts C expression text to an ir expression of any sort.
// Integer constants above math.MaxInt64 read as 64-bit bit-vectors.
func Parse(src string, resolve Resolver) (ir.Expr, error) {
	text, sub, err := rewrite(src)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("cexpr: parse %q: %w", src, err)
	}
	c := &converter{resolve: resolve, sub: sub}
	return c.convert(tree.Node)
}

// ParseBool converts C expression text to a predicate. Integer and
// bit-vector results are read as C truth values (e != 0).
func ParseBool(src string, resolve Resolver) (ir.Expr, error) {
	e, err := Parse(src, resolve)
	if err != nil {
		return nil, err
	}
	return asBool(e)
}

type converter struct {
	resolve Resolver
	sub     *substitution
}

func (c *converter) convert(n ast.Node) (ir.Expr, error) {
	switch node := n.(type) {
	case *ast.IdentifierNode:
		if lit, ok := c.sub.wide[node.Value]; ok {
			return ir.NewBvLit(lit, ir.MaxBvLitWidth), nil
		}
		name, ok := c.sub.idents[node.Value]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, node.Value)
		}
		v, ok := c.resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownIdentifier, name)
		}
		return v.Ref(), nil
	case *ast.IntegerNode:
		return ir.IntLit(node.Value), nil
	case *ast.BoolNode:
		return ir.BoolLit(node.Value), nil
	case *ast.UnaryNode:
		x, err := c.convert(node.Node)
		if err != nil {
			return nil, err
		}
		return unary(node.Operator, x)
	case *ast.BinaryNode:
		x, err := c.convert(node.Left)
		if err != nil {
			return nil, err
		}
		y, err := c.convert(node.Right)
		if err != nil {
			return nil, err
		}
		return binary(node.Operator, x, y)
	case *ast.ConditionalNode:
		cond, err := c.convert(node.Cond)
		if err != nil {
			return nil, err
		}
		if cond, err = asBool(cond); err != nil {
			return nil, err
		}
		then, err := c.convert(node.Exp1)
		if err != nil {
			return nil, err
		}
		els, err := c.convert(node.Exp2)
		if err != nil {
			return nil, err
		}
		then, els = unify(then, els)
		return ir.NewIte(cond, then, els)
	case *ast.MemberNode:
		if node.Optional || node.Method {
			break
		}
		arr, err := c.convert(node.Node)
		if err != nil {
			return nil, err
		}
		idx, err := c.convert(node.Property)
		if err != nil {
			return nil, err
		}
		if at, ok := arr.Type().(ir.ArrayType); ok {
			idx = coerce(idx, at.Index)
		}
		return ir.NewBinary(ir.OpRead, arr, idx)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, n.String())
}

func unary(op string, x ir.Expr) (ir.Expr, error) {
	switch op {
	case "!":
		b, err := asBool(x)
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(ir.OpNot, b)
	case "-":
		if lit, ok := x.(ir.IntLit); ok {
			return -lit, nil
		}
		if _, ok := x.Type().(ir.BvType); ok {
			return ir.NewUnary(ir.OpBvNeg, x)
		}
		return ir.NewUnary(ir.OpNeg, x)
	case "+":
		return x, nil
	}
	return nil, fmt.Errorf("%w operator %q", ErrUnsupported, op)
}

type opPair struct{ num, bv ir.Op }

var arith = map[string]opPair{
	"+":  {ir.OpAdd, ir.OpBvAdd},
	"-":  {ir.OpSub, ir.OpBvSub},
	"*":  {ir.OpMul, ir.OpBvMul},
	"/":  {ir.OpDiv, ir.OpBvSDiv},
	"%":  {ir.OpMod, ir.OpBvSRem},
	"<":  {ir.OpLt, ir.OpBvSLt},
	"<=": {ir.OpLeq, ir.OpBvSLe},
	">":  {ir.OpGt, ir.OpBvSGt},
	">=": {ir.OpGeq, ir.OpBvSGe},
}

func binary(op string, x, y ir.Expr) (ir.Expr, error) {
	switch op {
	case "&&", "||":
		bx, err := asBool(x)
		if err != nil {
			return nil, err
		}
		by, err := asBool(y)
		if err != nil {
			return nil, err
		}
		if op == "&&" {
			return ir.NewNary(ir.OpAnd, flatten(ir.OpAnd, bx, by)...)
		}
		return ir.NewNary(ir.OpOr, flatten(ir.OpOr, bx, by)...)
	case "==", "!=":
		x, y = unify(x, y)
		if op == "==" {
			return ir.NewBinary(ir.OpEq, x, y)
		}
		return ir.NewBinary(ir.OpNeq, x, y)
	}
	pair, ok := arith[op]
	if !ok {
		return nil, fmt.Errorf("%w operator %q", ErrUnsupported, op)
	}
	x, y = unify(x, y)
	irOp := pair.num
	if _, isBv := x.Type().(ir.BvType); isBv {
		irOp = pair.bv
	}
	if irOp.IsNary() {
		return ir.NewNary(irOp, flatten(irOp, x, y)...)
	}
	return ir.NewBinary(irOp, x, y)
}

// flatten keeps left-nested associative chains flat, so "a && b && c"
// reads back as one n-ary node.
func flatten(op ir.Op, x, y ir.Expr) []ir.Expr {
	if n, ok := x.(ir.Nary); ok && n.Op == op {
		return append(append([]ir.Expr(nil), n.Args...), y)
	}
	return []ir.Expr{x, y}
}

// unify converts a literal operand to the sort of the other operand where
// C would do so implicitly.
func unify(x, y ir.Expr) (ir.Expr, ir.Expr) {
	if x.Type() == y.Type() {
		return x, y
	}
	if isLiteral(x) {
		return coerce(x, y.Type()), y
	}
	if isLiteral(y) {
		return x, coerce(y, x.Type())
	}
	return x, y
}

func isLiteral(e ir.Expr) bool {
	switch e.(type) {
	case ir.IntLit, ir.BvLit:
		return true
	}
	return false
}

func coerce(e ir.Expr, to ir.Type) ir.Expr {
	if bv, ok := e.(ir.BvLit); ok {
		// Wide constants zero-extend into wider sorts.
		if t, ok := to.(ir.BvType); ok && t.Width > bv.Width {
			return ir.NewBvLit(bv.Value, t.Width)
		}
		return e
	}
	lit, ok := e.(ir.IntLit)
	if !ok {
		return e
	}
	switch t := to.(type) {
	case ir.BvType:
		if lit < 0 && t.Width > ir.MaxBvLitWidth {
			// Sign extension past the literal width is not representable.
			return e
		}
		return ir.NewBvLit(uint64(lit), t.Width)
	case ir.RatType:
		return ir.NewRatLit(int64(lit), 1)
	case ir.BoolType:
		return ir.BoolLit(lit != 0)
	}
	return e
}

func asBool(e ir.Expr) (ir.Expr, error) {
	switch t := e.Type().(type) {
	case ir.BoolType:
		return e, nil
	case ir.IntType:
		if lit, ok := e.(ir.IntLit); ok {
			return ir.BoolLit(lit != 0), nil
		}
		return ir.NewBinary(ir.OpNeq, e, ir.IntLit(0))
	case ir.BvType:
		return ir.NewBinary(ir.OpNeq, e, ir.NewBvLit(0, t.Width))
	}
	return nil, &ir.TypeError{Op: ir.OpNeq, Operands: []ir.Type{e.Type()}, Message: "no truth value"}
}
