package ir

// Vars returns the variables referenced by e in order of first occurrence.
func Vars(e Expr) []VarDecl {
	var out []VarDecl
	seen := make(map[VarDecl]bool)
	walk(e, func(n Expr) {
		if r, ok := n.(Ref); ok && !seen[r.Decl] {
			seen[r.Decl] = true
			out = append(out, r.Decl)
		}
	})
	return out
}

// VarsOf returns the variables referenced by any of exprs, in order of
// first occurrence.
func VarsOf(exprs []Expr) []VarDecl {
	var out []VarDecl
	seen := make(map[VarDecl]bool)
	for _, e := range exprs {
		for _, v := range Vars(e) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func walk(e Expr, visit func(Expr)) {
	visit(e)
	switch n := e.(type) {
	case Unary:
		walk(n.X, visit)
	case Binary:
		walk(n.X, visit)
		walk(n.Y, visit)
	case Nary:
		for _, a := range n.Args {
			walk(a, visit)
		}
	case Ite:
		walk(n.Cond, visit)
		walk(n.Then, visit)
		walk(n.Else, visit)
	case ArrayWrite:
		walk(n.Array, visit)
		walk(n.Index, visit)
		walk(n.Value, visit)
	}
}

// ChangeVars replaces every reference to a key of lookup with a reference
// to its value. Variables absent from lookup are kept. The replacement
// must have the same type as the original.
func ChangeVars(e Expr, lookup map[VarDecl]VarDecl) Expr {
	return rewrite(e, func(n Expr) (Expr, bool) {
		if r, ok := n.(Ref); ok {
			if to, found := lookup[r.Decl]; found {
				return to.Ref(), true
			}
			return r, true
		}
		return nil, false
	})
}

// rewrite rebuilds e bottom-up. leaf is consulted first for every node; if
// it reports handled, its result replaces the node.
func rewrite(e Expr, leaf func(Expr) (Expr, bool)) Expr {
	if out, ok := leaf(e); ok {
		return out
	}
	switch n := e.(type) {
	case Unary:
		return Unary{Op: n.Op, X: rewrite(n.X, leaf)}
	case Binary:
		return Binary{Op: n.Op, X: rewrite(n.X, leaf), Y: rewrite(n.Y, leaf)}
	case Nary:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = rewrite(a, leaf)
		}
		return Nary{Op: n.Op, Args: args}
	case Ite:
		return Ite{Cond: rewrite(n.Cond, leaf), Then: rewrite(n.Then, leaf), Else: rewrite(n.Else, leaf)}
	case ArrayWrite:
		return ArrayWrite{Array: rewrite(n.Array, leaf), Index: rewrite(n.Index, leaf), Value: rewrite(n.Value, leaf)}
	}
	return e
}
