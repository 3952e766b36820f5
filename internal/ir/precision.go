package ir

import "fmt"

// Kind names a Precision variant.
type Kind string

const (
	// KindExplicit is a set of tracked variables.
	KindExplicit Kind = "explicit"
	// KindPredicate is a set of predicates.
	KindPredicate Kind = "predicate"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindExplicit, KindPredicate:
		return k, nil
	}
	return "", fmt.Errorf("ir: unknown precision kind %q", s)
}

// Precision is a sealed sum type. Only *ExplPrec and *PredPrec implement it;
// callers match it with an exhaustive type switch.
//
// Precisions are immutable once constructed.
type Precision interface {
	Kind() Kind
	// Size is the number of tracked variables or predicates.
	Size() int
	// UsedVars returns the distinct variables the precision mentions, in
	// order of first appearance.
	UsedVars() []VarDecl
	isPrecision() // Sealed
}

// ExplPrec tracks the values of a set of variables.
type ExplPrec struct {
	vars []VarDecl
}

// NewExplPrec builds an explicit precision. Duplicates are dropped; the
// first occurrence fixes the order.
func NewExplPrec(vars ...VarDecl) *ExplPrec {
	seen := make(map[VarDecl]bool, len(vars))
	out := make([]VarDecl, 0, len(vars))
	for _, v := range vars {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return &ExplPrec{vars: out}
}

func (*ExplPrec) isPrecision() {}
func (*ExplPrec) Kind() Kind   { return KindExplicit }
func (p *ExplPrec) Size() int  { return len(p.vars) }

// Vars returns a copy of the tracked variables.
func (p *ExplPrec) Vars() []VarDecl {
	return append([]VarDecl(nil), p.vars...)
}

func (p *ExplPrec) UsedVars() []VarDecl {
	return p.Vars()
}

// Contains reports whether v is tracked.
func (p *ExplPrec) Contains(v VarDecl) bool {
	for _, w := range p.vars {
		if w == v {
			return true
		}
	}
	return false
}

// PredPrec tracks a set of predicates.
type PredPrec struct {
	preds []Expr
}

// NewPredPrec builds a predicate precision. Structurally equal predicates
// are collapsed. It panics if a predicate is not Bool-typed.
func NewPredPrec(preds ...Expr) *PredPrec {
	seen := make(map[string]bool, len(preds))
	out := make([]Expr, 0, len(preds))
	for _, p := range preds {
		if p.Type() != Bool() {
			panic(fmt.Sprintf("ir: predicate %s has type %s", p, p.Type()))
		}
		key := p.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	return &PredPrec{preds: out}
}

func (*PredPrec) isPrecision() {}
func (*PredPrec) Kind() Kind   { return KindPredicate }
func (p *PredPrec) Size() int  { return len(p.preds) }

// Preds returns a copy of the predicates.
func (p *PredPrec) Preds() []Expr {
	return append([]Expr(nil), p.preds...)
}

func (p *PredPrec) UsedVars() []VarDecl {
	return VarsOf(p.preds)
}

// Empty returns the empty precision of kind k.
func Empty(k Kind) Precision {
	if k == KindPredicate {
		return NewPredPrec()
	}
	return NewExplPrec()
}

// PrecEqual reports set equality: same variant, same elements, regardless
// of order.
func PrecEqual(a, b Precision) bool {
	switch pa := a.(type) {
	case *ExplPrec:
		pb, ok := b.(*ExplPrec)
		if !ok || pa.Size() != pb.Size() {
			return false
		}
		for _, v := range pa.vars {
			if !pb.Contains(v) {
				return false
			}
		}
		return true
	case *PredPrec:
		pb, ok := b.(*PredPrec)
		if !ok || pa.Size() != pb.Size() {
			return false
		}
		keys := make(map[string]bool, pb.Size())
		for _, p := range pb.preds {
			keys[p.String()] = true
		}
		for _, p := range pa.preds {
			if !keys[p.String()] {
				return false
			}
		}
		return true
	}
	return false
}

// Entries renders the elements of p: variable names for an explicit
// precision, predicate terms for a predicate precision.
func Entries(p Precision) []string {
	switch p := p.(type) {
	case *ExplPrec:
		out := make([]string, len(p.vars))
		for i, v := range p.vars {
			out[i] = v.Name
		}
		return out
	case *PredPrec:
		out := make([]string, len(p.preds))
		for i, e := range p.preds {
			out[i] = e.String()
		}
		return out
	}
	return nil
}
