package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a sealed interface for immutable, typed expression trees.
// Leaves are literals or variable references; interior nodes are Unary,
// Binary, Nary, Ite and ArrayWrite.
//
// A Bool-typed Expr is a predicate.
type Expr interface {
	// Type returns the sort of the expression.
	Type() Type
	// String returns the canonical prefix form. Two expressions are
	// structurally equal iff their canonical forms are equal.
	String() string
	isExpr() // Sealed
}

// TypeError reports an operator applied to operands of the wrong sort.
type TypeError struct {
	Op       Op
	Operands []Type
	Message  string
}

func (e *TypeError) Error() string {
	sorts := make([]string, len(e.Operands))
	for i, t := range e.Operands {
		sorts[i] = t.String()
	}
	return fmt.Sprintf("ir: %s(%s): %s", e.Op, strings.Join(sorts, ", "), e.Message)
}

// BoolLit is a boolean literal.
type BoolLit bool

func (BoolLit) isExpr()    {}
func (BoolLit) Type() Type { return BoolType{} }
func (b BoolLit) String() string {
	if b {
		return "true"
	}
	return "false"
}

// True and False are the boolean literals.
const (
	True  = BoolLit(true)
	False = BoolLit(false)
)

// IntLit is an integer literal.
type IntLit int64

func (IntLit) isExpr()    {}
func (IntLit) Type() Type { return IntType{} }
func (i IntLit) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// RatLit is a rational literal Num/Den in lowest terms with Den > 0.
// Construct it with NewRatLit.
type RatLit struct {
	Num int64
	Den int64
}

// NewRatLit normalises num/den. It panics when den is zero.
func NewRatLit(num, den int64) RatLit {
	if den == 0 {
		panic("ir: rational literal with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num, den = num/g, den/g
	}
	return RatLit{Num: num, Den: den}
}

func (RatLit) isExpr()    {}
func (RatLit) Type() Type { return RatType{} }
func (r RatLit) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// BvLit is a bit-vector literal. Value is truncated to Width bits by
// NewBvLit. Width may exceed MaxBvLitWidth; the bits above Value are then
// zero.
type BvLit struct {
	Value uint64
	Width int
}

// MaxBvLitWidth is the number of bits a BvLit value can hold.
const MaxBvLitWidth = 64

// NewBvLit truncates value to width bits.
func NewBvLit(value uint64, width int) BvLit {
	if width < 64 {
		value &= (uint64(1) << uint(width)) - 1
	}
	return BvLit{Value: value, Width: width}
}

func (BvLit) isExpr() {}
func (b BvLit) Type() Type {
	return BvType{Width: b.Width}
}
func (b BvLit) String() string {
	return fmt.Sprintf("(bv %d %d)", b.Value, b.Width)
}

// Ref references a variable.
type Ref struct {
	Decl VarDecl
}

func (Ref) isExpr() {}
func (r Ref) Type() Type {
	return r.Decl.Type
}
func (r Ref) String() string {
	return "|" + r.Decl.Name + "|"
}

// Unary applies a unary operator.
type Unary struct {
	Op Op
	X  Expr
}

func (Unary) isExpr() {}
func (u Unary) Type() Type {
	switch u.Op.class() {
	case classBoolUnary:
		return BoolType{}
	case classToRat:
		return RatType{}
	}
	return u.X.Type()
}
func (u Unary) String() string {
	return "(" + string(u.Op) + " " + u.X.String() + ")"
}

// Binary applies a binary operator.
type Binary struct {
	Op Op
	X  Expr
	Y  Expr
}

func (Binary) isExpr() {}
func (b Binary) Type() Type {
	switch b.Op.class() {
	case classBoolBinary, classEquality, classNumCompare, classBvCompare:
		return BoolType{}
	case classRead:
		return b.X.Type().(ArrayType).Elem
	}
	return b.X.Type()
}
func (b Binary) String() string {
	return "(" + string(b.Op) + " " + b.X.String() + " " + b.Y.String() + ")"
}

// Nary applies an associative operator to one or more operands.
type Nary struct {
	Op   Op
	Args []Expr
}

func (Nary) isExpr() {}
func (n Nary) Type() Type {
	if n.Op.class() == classBoolNary {
		return BoolType{}
	}
	return n.Args[0].Type()
}
func (n Nary) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(string(n.Op))
	for _, a := range n.Args {
		sb.WriteString(" ")
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Ite is the conditional expression.
type Ite struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (Ite) isExpr() {}
func (i Ite) Type() Type {
	return i.Then.Type()
}
func (i Ite) String() string {
	return "(ite " + i.Cond.String() + " " + i.Then.String() + " " + i.Else.String() + ")"
}

// ArrayWrite is the functional array update (store a i v).
type ArrayWrite struct {
	Array Expr
	Index Expr
	Value Expr
}

func (ArrayWrite) isExpr() {}
func (w ArrayWrite) Type() Type {
	return w.Array.Type()
}
func (w ArrayWrite) String() string {
	return "(store " + w.Array.String() + " " + w.Index.String() + " " + w.Value.String() + ")"
}

// NewUnary type-checks and builds a Unary node.
func NewUnary(op Op, x Expr) (Expr, error) {
	t := x.Type()
	fail := func(msg string) (Expr, error) {
		return nil, &TypeError{Op: op, Operands: []Type{t}, Message: msg}
	}
	switch op.class() {
	case classBoolUnary:
		if t != Bool() {
			return fail("expected Bool operand")
		}
	case classNumUnary:
		if !isNumeric(t) {
			return fail("expected Int or Real operand")
		}
	case classBvUnary:
		if !isBv(t) {
			return fail("expected bit-vector operand")
		}
	case classToRat:
		if t != Int() {
			return fail("expected Int operand")
		}
	default:
		return fail("not a unary operator")
	}
	return Unary{Op: op, X: x}, nil
}

// NewBinary type-checks and builds a Binary node.
func NewBinary(op Op, x, y Expr) (Expr, error) {
	tx, ty := x.Type(), y.Type()
	fail := func(msg string) (Expr, error) {
		return nil, &TypeError{Op: op, Operands: []Type{tx, ty}, Message: msg}
	}
	switch op.class() {
	case classBoolBinary:
		if tx != Bool() || ty != Bool() {
			return fail("expected Bool operands")
		}
	case classEquality:
		if tx != ty {
			return fail("operand sorts differ")
		}
	case classNumCompare, classNumBinary:
		if !isNumeric(tx) || tx != ty {
			return fail("expected two Int or two Real operands")
		}
	case classIntBinary:
		if tx != Int() || ty != Int() {
			return fail("expected Int operands")
		}
	case classRatBinary:
		if tx != Rat() || ty != Rat() {
			return fail("expected Real operands")
		}
	case classBvBinary, classBvCompare:
		if !isBv(tx) || tx != ty {
			return fail("expected bit-vectors of equal width")
		}
	case classRead:
		at, ok := tx.(ArrayType)
		if !ok || at.Index != ty {
			return fail("expected array and matching index")
		}
	default:
		return fail("not a binary operator")
	}
	return Binary{Op: op, X: x, Y: y}, nil
}

// NewNary type-checks and builds a Nary node. A single operand is returned
// unchanged.
func NewNary(op Op, args ...Expr) (Expr, error) {
	types := make([]Type, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	fail := func(msg string) (Expr, error) {
		return nil, &TypeError{Op: op, Operands: types, Message: msg}
	}
	if !op.IsNary() {
		return fail("not an n-ary operator")
	}
	if len(args) == 0 {
		return fail("no operands")
	}
	first := types[0]
	for _, t := range types {
		switch op.class() {
		case classBoolNary:
			if t != Bool() {
				return fail("expected Bool operands")
			}
		case classNumNary:
			if !isNumeric(t) || t != first {
				return fail("expected Int or Real operands of one sort")
			}
		case classBvNary:
			if !isBv(t) || t != first {
				return fail("expected bit-vectors of equal width")
			}
		}
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return Nary{Op: op, Args: append([]Expr(nil), args...)}, nil
}

// NewIte type-checks and builds an Ite node.
func NewIte(cond, then, els Expr) (Expr, error) {
	if cond.Type() != Bool() || then.Type() != els.Type() {
		return nil, &TypeError{
			Op:       "ite",
			Operands: []Type{cond.Type(), then.Type(), els.Type()},
			Message:  "expected Bool condition and branches of one sort",
		}
	}
	return Ite{Cond: cond, Then: then, Else: els}, nil
}

// NewArrayWrite type-checks and builds an ArrayWrite node.
func NewArrayWrite(array, index, value Expr) (Expr, error) {
	at, ok := array.Type().(ArrayType)
	if !ok || at.Index != index.Type() || at.Elem != value.Type() {
		return nil, &TypeError{
			Op:       "store",
			Operands: []Type{array.Type(), index.Type(), value.Type()},
			Message:  "expected array with matching index and element",
		}
	}
	return ArrayWrite{Array: array, Index: index, Value: value}, nil
}

// Equal reports structural equality of two expressions.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
