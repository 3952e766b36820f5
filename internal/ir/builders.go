package ir

// Must panics on a type error. It is meant for fixtures and literals
// known to be well-typed.
func Must(e Expr, err error) Expr {
	if err != nil {
		panic(err)
	}
	return e
}

// Not builds (not x).
func Not(x Expr) Expr { return Must(NewUnary(OpNot, x)) }

// And builds (and args...).
func And(args ...Expr) Expr { return Must(NewNary(OpAnd, args...)) }

// Or builds (or args...).
func Or(args ...Expr) Expr { return Must(NewNary(OpOr, args...)) }

// Eq builds (= x y).
func Eq(x, y Expr) Expr { return Must(NewBinary(OpEq, x, y)) }

// Neq builds (distinct x y).
func Neq(x, y Expr) Expr { return Must(NewBinary(OpNeq, x, y)) }

// Lt builds (< x y).
func Lt(x, y Expr) Expr { return Must(NewBinary(OpLt, x, y)) }

// Leq builds (<= x y).
func Leq(x, y Expr) Expr { return Must(NewBinary(OpLeq, x, y)) }

// Gt builds (> x y).
func Gt(x, y Expr) Expr { return Must(NewBinary(OpGt, x, y)) }

// Geq builds (>= x y).
func Geq(x, y Expr) Expr { return Must(NewBinary(OpGeq, x, y)) }

// Add builds (+ args...).
func Add(args ...Expr) Expr { return Must(NewNary(OpAdd, args...)) }

// Sub builds (- x y).
func Sub(x, y Expr) Expr { return Must(NewBinary(OpSub, x, y)) }

// Mul builds (* args...).
func Mul(args ...Expr) Expr { return Must(NewNary(OpMul, args...)) }

// Read builds (select a i).
func Read(a, i Expr) Expr { return Must(NewBinary(OpRead, a, i)) }
