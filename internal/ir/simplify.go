package ir

// Simplify performs local constant folding and boolean normalisation.
//
// The result is equivalent to e and has the same type. Simplify is
// idempotent: Simplify(Simplify(e)) is structurally equal to Simplify(e).
func Simplify(e Expr) Expr {
	switch n := e.(type) {
	case Unary:
		return simplifyUnary(n.Op, Simplify(n.X))
	case Binary:
		return simplifyBinary(n.Op, Simplify(n.X), Simplify(n.Y))
	case Nary:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Simplify(a)
		}
		return simplifyNary(n.Op, args)
	case Ite:
		cond, then, els := Simplify(n.Cond), Simplify(n.Then), Simplify(n.Else)
		if b, ok := cond.(BoolLit); ok {
			if b {
				return then
			}
			return els
		}
		if Equal(then, els) {
			return then
		}
		return Ite{Cond: cond, Then: then, Else: els}
	case ArrayWrite:
		return ArrayWrite{Array: Simplify(n.Array), Index: Simplify(n.Index), Value: Simplify(n.Value)}
	}
	return e
}

func simplifyUnary(op Op, x Expr) Expr {
	switch op {
	case OpNot:
		switch v := x.(type) {
		case BoolLit:
			return !v
		case Unary:
			if v.Op == OpNot {
				return v.X
			}
		}
	case OpNeg:
		switch v := x.(type) {
		case IntLit:
			return -v
		case RatLit:
			return NewRatLit(-v.Num, v.Den)
		}
	case OpToRat:
		if v, ok := x.(IntLit); ok {
			return NewRatLit(int64(v), 1)
		}
	}
	return Unary{Op: op, X: x}
}

func simplifyBinary(op Op, x, y Expr) Expr {
	switch op {
	case OpEq, OpNeq:
		// Literals are normalised, so structural equality decides them.
		if isLiteral(x) && isLiteral(y) || Equal(x, y) {
			return BoolLit(Equal(x, y) == (op == OpEq))
		}
	case OpLt, OpLeq, OpGt, OpGeq:
		if c, ok := compareLiterals(x, y); ok {
			switch op {
			case OpLt:
				return BoolLit(c < 0)
			case OpLeq:
				return BoolLit(c <= 0)
			case OpGt:
				return BoolLit(c > 0)
			default:
				return BoolLit(c >= 0)
			}
		}
	case OpImply:
		if b, ok := x.(BoolLit); ok {
			if !b {
				return True
			}
			return y
		}
		if b, ok := y.(BoolLit); ok && bool(b) {
			return True
		}
	case OpXor:
		a, okA := x.(BoolLit)
		b, okB := y.(BoolLit)
		if okA && okB {
			return BoolLit(a != b)
		}
	case OpSub:
		a, okA := x.(IntLit)
		b, okB := y.(IntLit)
		if okA && okB {
			return a - b
		}
	case OpDiv, OpMod:
		a, okA := x.(IntLit)
		b, okB := y.(IntLit)
		if okA && okB && b != 0 {
			q, r := euclid(int64(a), int64(b))
			if op == OpDiv {
				return IntLit(q)
			}
			return IntLit(r)
		}
	case OpRatDiv:
		a, okA := x.(RatLit)
		b, okB := y.(RatLit)
		if okA && okB && b.Num != 0 {
			return NewRatLit(a.Num*b.Den, a.Den*b.Num)
		}
	}
	return Binary{Op: op, X: x, Y: y}
}

func simplifyNary(op Op, args []Expr) Expr {
	switch op {
	case OpAnd, OpOr:
		unit, zero := BoolLit(op == OpAnd), BoolLit(op != OpAnd)
		var kept []Expr
		seen := make(map[string]bool)
		var add func(a Expr) bool
		add = func(a Expr) bool {
			if n, ok := a.(Nary); ok && n.Op == op {
				for _, inner := range n.Args {
					if !add(inner) {
						return false
					}
				}
				return true
			}
			if b, ok := a.(BoolLit); ok {
				return b != zero
			}
			if key := a.String(); !seen[key] {
				seen[key] = true
				kept = append(kept, a)
			}
			return true
		}
		for _, a := range args {
			if !add(a) {
				return zero
			}
		}
		switch len(kept) {
		case 0:
			return unit
		case 1:
			return kept[0]
		}
		return Nary{Op: op, Args: kept}
	case OpAdd, OpMul:
		if _, ok := args[0].Type().(IntType); !ok {
			break
		}
		acc := IntLit(0)
		if op == OpMul {
			acc = 1
		}
		var kept []Expr
		for _, a := range args {
			if v, ok := a.(IntLit); ok {
				if op == OpAdd {
					acc += v
				} else {
					acc *= v
				}
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			return acc
		}
		if (op == OpAdd && acc != 0) || (op == OpMul && acc != 1) {
			kept = append(kept, acc)
		}
		if len(kept) == 1 {
			return kept[0]
		}
		return Nary{Op: op, Args: kept}
	}
	return Nary{Op: op, Args: args}
}

func isLiteral(e Expr) bool {
	switch e.(type) {
	case BoolLit, IntLit, RatLit, BvLit:
		return true
	}
	return false
}

// compareLiterals orders two Int or two Rat literals.
func compareLiterals(x, y Expr) (int, bool) {
	switch a := x.(type) {
	case IntLit:
		b, ok := y.(IntLit)
		if !ok {
			return 0, false
		}
		return cmpInt64(int64(a), int64(b)), true
	case RatLit:
		b, ok := y.(RatLit)
		if !ok {
			return 0, false
		}
		return cmpInt64(a.Num*b.Den, b.Num*a.Den), true
	}
	return 0, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// euclid implements SMT-LIB integer division: a = b*q + r with 0 <= r < |b|.
func euclid(a, b int64) (q, r int64) {
	q, r = a/b, a%b
	if r < 0 {
		if b > 0 {
			q--
			r += b
		} else {
			q++
			r -= b
		}
	}
	return q, r
}
