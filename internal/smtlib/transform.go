package smtlib

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/roach88/precreuse/internal/ir"
)

var (
	// ErrUnknownSymbol marks a term mentioning a symbol absent from the
	// symbol table.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUnsupported marks a term or expression outside the supported
	// fragment.
	ErrUnsupported = errors.New("unsupported")
)

// Transformer converts between SMT-LIB terms and ir expressions, resolving
// variables through a SymbolTable.
type Transformer struct{}

// ToTerm renders e as an SMT-LIB term. Every variable of e must be bound
// in table.
func (Transformer) ToTerm(e ir.Expr, table *SymbolTable) (string, error) {
	var sb strings.Builder
	if err := writeTerm(&sb, e, table); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ToExpr converts a term to an expression. Symbols resolve through table.
func (Transformer) ToExpr(n Node, table *SymbolTable) (ir.Expr, error) {
	return toExpr(n, table)
}

func writeTerm(sb *strings.Builder, e ir.Expr, table *SymbolTable) error {
	switch n := e.(type) {
	case ir.BoolLit:
		sb.WriteString(n.String())
	case ir.IntLit:
		if n < 0 {
			fmt.Fprintf(sb, "(- %d)", -int64(n))
		} else {
			fmt.Fprintf(sb, "%d", int64(n))
		}
	case ir.RatLit:
		num := n.Num
		if num < 0 {
			sb.WriteString("(- ")
			num = -num
		}
		if n.Den == 1 {
			fmt.Fprintf(sb, "%d.0", num)
		} else {
			fmt.Fprintf(sb, "(/ %d.0 %d.0)", num, n.Den)
		}
		if n.Num < 0 {
			sb.WriteString(")")
		}
	case ir.BvLit:
		bits := strconv.FormatUint(n.Value, 2)
		sb.WriteString("#b")
		sb.WriteString(strings.Repeat("0", n.Width-len(bits)))
		sb.WriteString(bits)
	case ir.Ref:
		sym, ok := table.Symbol(n.Decl)
		if !ok {
			return fmt.Errorf("smtlib: %w %s", ErrUnknownSymbol, n.Decl.Name)
		}
		sb.WriteString(quoteSymbol(sym))
	case ir.Unary:
		op := string(n.Op)
		if n.Op == ir.OpNeg {
			op = "-"
		}
		return writeApp(sb, op, table, n.X)
	case ir.Binary:
		return writeApp(sb, string(n.Op), table, n.X, n.Y)
	case ir.Nary:
		return writeApp(sb, string(n.Op), table, n.Args...)
	case ir.Ite:
		return writeApp(sb, "ite", table, n.Cond, n.Then, n.Else)
	case ir.ArrayWrite:
		return writeApp(sb, "store", table, n.Array, n.Index, n.Value)
	default:
		return fmt.Errorf("smtlib: %w expression %T", ErrUnsupported, e)
	}
	return nil
}

func writeApp(sb *strings.Builder, op string, table *SymbolTable, args ...ir.Expr) error {
	sb.WriteString("(")
	sb.WriteString(op)
	for _, a := range args {
		sb.WriteString(" ")
		if err := writeTerm(sb, a, table); err != nil {
			return err
		}
	}
	sb.WriteString(")")
	return nil
}

func quoteSymbol(text string) string {
	if isSimpleSymbol(text) {
		return text
	}
	return "|" + text + "|"
}

var bvOps = map[string]ir.Op{
	"bvnot": ir.OpBvNot, "bvneg": ir.OpBvNeg,
	"bvadd": ir.OpBvAdd, "bvsub": ir.OpBvSub, "bvmul": ir.OpBvMul,
	"bvudiv": ir.OpBvUDiv, "bvsdiv": ir.OpBvSDiv, "bvurem": ir.OpBvURem, "bvsrem": ir.OpBvSRem,
	"bvand": ir.OpBvAnd, "bvor": ir.OpBvOr, "bvxor": ir.OpBvXor,
	"bvshl": ir.OpBvShl, "bvlshr": ir.OpBvLShr, "bvashr": ir.OpBvAShr,
	"bvult": ir.OpBvULt, "bvule": ir.OpBvULe, "bvugt": ir.OpBvUGt, "bvuge": ir.OpBvUGe,
	"bvslt": ir.OpBvSLt, "bvsle": ir.OpBvSLe, "bvsgt": ir.OpBvSGt, "bvsge": ir.OpBvSGe,
}

var chainable = map[string]ir.Op{
	"=": ir.OpEq, "<": ir.OpLt, "<=": ir.OpLeq, ">": ir.OpGt, ">=": ir.OpGeq,
}

var leftAssoc = map[string]ir.Op{
	"xor": ir.OpXor, "div": ir.OpDiv, "mod": ir.OpMod, "rem": ir.OpRem, "/": ir.OpRatDiv,
}

func toExpr(n Node, table *SymbolTable) (ir.Expr, error) {
	switch t := n.(type) {
	case Atom:
		return atomExpr(t, table)
	case List:
		return appExpr(t, table)
	}
	return nil, fmt.Errorf("smtlib: %w node %T", ErrUnsupported, n)
}

func atomExpr(a Atom, table *SymbolTable) (ir.Expr, error) {
	switch a.Kind {
	case Numeral:
		v, err := strconv.ParseInt(a.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("smtlib: numeral %s: %w", a.Text, err)
		}
		return ir.IntLit(v), nil
	case Decimal:
		r, ok := new(big.Rat).SetString(a.Text)
		if !ok || !r.Num().IsInt64() || !r.Denom().IsInt64() {
			return nil, fmt.Errorf("smtlib: decimal %s out of range", a.Text)
		}
		return ir.NewRatLit(r.Num().Int64(), r.Denom().Int64()), nil
	case Binary, Hex:
		base, width := 2, len(a.Text)
		if a.Kind == Hex {
			base, width = 16, 4*len(a.Text)
		}
		digits := strings.TrimLeft(a.Text, "0")
		if digits == "" {
			digits = "0"
		}
		v, err := strconv.ParseUint(digits, base, ir.MaxBvLitWidth)
		if err != nil {
			return nil, fmt.Errorf("smtlib: %w literal %s: %w", ErrUnsupported, a, err)
		}
		return ir.NewBvLit(v, width), nil
	case Symbol:
		if !a.Quoted {
			switch a.Text {
			case "true":
				return ir.True, nil
			case "false":
				return ir.False, nil
			}
		}
		v, ok := table.Lookup(a.Text)
		if !ok {
			return nil, fmt.Errorf("smtlib: %w %s", ErrUnknownSymbol, a)
		}
		return v.Ref(), nil
	}
	return nil, fmt.Errorf("smtlib: %w atom %s", ErrUnsupported, a)
}

func appExpr(l List, table *SymbolTable) (ir.Expr, error) {
	head := l.Head()
	if head == "" {
		return nil, fmt.Errorf("smtlib: %w application %s", ErrUnsupported, l)
	}
	if head == "_" {
		return indexedLiteral(l)
	}
	args := make([]ir.Expr, 0, len(l.Items)-1)
	for _, item := range l.Items[1:] {
		e, err := toExpr(item, table)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("smtlib: %w nullary application %s", ErrUnsupported, l)
	}

	arity := func(want int) error {
		if len(args) != want {
			return fmt.Errorf("smtlib: %s expects %d arguments, got %d", head, want, len(args))
		}
		return nil
	}

	switch head {
	case "not":
		if err := arity(1); err != nil {
			return nil, err
		}
		return ir.NewUnary(ir.OpNot, args[0])
	case "and":
		return ir.NewNary(ir.OpAnd, args...)
	case "or":
		return ir.NewNary(ir.OpOr, args...)
	case "=>":
		acc := args[len(args)-1]
		for i := len(args) - 2; i >= 0; i-- {
			var err error
			if acc, err = ir.NewBinary(ir.OpImply, args[i], acc); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case "distinct":
		args = coerceNumeric(args)
		var pairs []ir.Expr
		for i := range args {
			for j := i + 1; j < len(args); j++ {
				p, err := ir.NewBinary(ir.OpNeq, args[i], args[j])
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, p)
			}
		}
		if len(pairs) == 0 {
			return ir.True, nil
		}
		return ir.NewNary(ir.OpAnd, pairs...)
	case "+":
		return ir.NewNary(ir.OpAdd, coerceNumeric(args)...)
	case "*":
		return ir.NewNary(ir.OpMul, coerceNumeric(args)...)
	case "-":
		args = coerceNumeric(args)
		if len(args) == 1 {
			return ir.NewUnary(ir.OpNeg, args[0])
		}
		return foldLeft(ir.OpSub, args)
	case "to_real":
		if err := arity(1); err != nil {
			return nil, err
		}
		return ir.NewUnary(ir.OpToRat, args[0])
	case "ite":
		if err := arity(3); err != nil {
			return nil, err
		}
		then, els := args[1], args[2]
		if c := coerceNumeric([]ir.Expr{then, els}); len(c) == 2 {
			then, els = c[0], c[1]
		}
		return ir.NewIte(args[0], then, els)
	case "select":
		if err := arity(2); err != nil {
			return nil, err
		}
		return ir.NewBinary(ir.OpRead, args[0], args[1])
	case "store":
		if err := arity(3); err != nil {
			return nil, err
		}
		return ir.NewArrayWrite(args[0], args[1], args[2])
	}

	if op, ok := chainable[head]; ok {
		return chain(op, coerceNumeric(args))
	}
	if op, ok := leftAssoc[head]; ok {
		if op == ir.OpRatDiv {
			args = toRational(args)
		}
		return foldLeft(op, args)
	}
	if op, ok := bvOps[head]; ok {
		switch {
		case op.IsUnary():
			if err := arity(1); err != nil {
				return nil, err
			}
			return ir.NewUnary(op, args[0])
		case op.IsNary():
			return ir.NewNary(op, args...)
		default:
			if err := arity(2); err != nil {
				return nil, err
			}
			return ir.NewBinary(op, args[0], args[1])
		}
	}
	return nil, fmt.Errorf("smtlib: %w operator %q", ErrUnsupported, head)
}

// indexedLiteral handles (_ bvN w).
func indexedLiteral(l List) (ir.Expr, error) {
	if len(l.Items) == 3 {
		name, ok1 := l.Items[1].(Atom)
		width, ok2 := l.Items[2].(Atom)
		if ok1 && ok2 && strings.HasPrefix(name.Text, "bv") && width.Kind == Numeral {
			v, err1 := strconv.ParseUint(strings.TrimPrefix(name.Text, "bv"), 10, 64)
			w, err2 := strconv.Atoi(width.Text)
			if err1 == nil && err2 == nil && w > 0 {
				return ir.NewBvLit(v, w), nil
			}
		}
	}
	return nil, fmt.Errorf("smtlib: %w indexed term %s", ErrUnsupported, l)
}

func foldLeft(op ir.Op, args []ir.Expr) (ir.Expr, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("smtlib: %s expects at least 2 arguments", op)
	}
	acc := args[0]
	for _, a := range args[1:] {
		var err error
		if acc, err = ir.NewBinary(op, acc, a); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// chain expands (< a b c) into (and (< a b) (< b c)).
func chain(op ir.Op, args []ir.Expr) (ir.Expr, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("smtlib: %s expects at least 2 arguments", op)
	}
	links := make([]ir.Expr, 0, len(args)-1)
	for i := 0; i+1 < len(args); i++ {
		link, err := ir.NewBinary(op, args[i], args[i+1])
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return ir.NewNary(ir.OpAnd, links...)
}

// coerceNumeric promotes integer literals to rationals when another
// operand is Real, as SMT-LIB numerals denote reals in a Real context.
func coerceNumeric(args []ir.Expr) []ir.Expr {
	for _, a := range args {
		if a.Type() == ir.Rat() {
			return toRational(args)
		}
	}
	return args
}

func toRational(args []ir.Expr) []ir.Expr {
	out := make([]ir.Expr, len(args))
	for i, a := range args {
		if v, ok := a.(ir.IntLit); ok {
			out[i] = ir.NewRatLit(int64(v), 1)
		} else {
			out[i] = a
		}
	}
	return out
}
