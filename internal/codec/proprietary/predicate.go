package proprietary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/smtlib"
)

var errNotBool = errors.New("assertion is not Bool-typed")

// Predicate is the proprietary codec for predicate precisions.
type Predicate struct {
	rec *codec.Recorder
	tr  TermTransformer
}

var _ codec.Codec = (*Predicate)(nil)

// NewPredicate returns a predicate-precision codec.
func NewPredicate(opts ...Option) *Predicate {
	o := buildOptions(opts)
	return &Predicate{
		rec: codec.NewRecorder(o.logger, codec.Proprietary, ir.KindPredicate),
		tr:  o.transformer,
	}
}

func (*Predicate) Kind() ir.Kind              { return ir.KindPredicate }
func (*Predicate) Format() codec.Format       { return codec.Proprietary }
func (c *Predicate) LastReport() codec.Report { return c.rec.Report() }

// Serialize declares every variable of the encodable predicates and
// asserts each of them. Variables are renamed onto their encoded symbols;
// a predicate the transformer rejects is dropped.
func (c *Predicate) Serialize(p ir.Precision) (string, error) {
	c.rec.Reset()
	if err := codec.CheckKind(p, ir.KindPredicate); err != nil {
		return "", err
	}
	table := smtlib.TableFor(p.UsedVars())

	var kept []ir.Expr
	var asserts []string
	for _, pred := range p.(*ir.PredPrec).Preds() {
		term, err := c.tr.ToTerm(pred, table)
		if err != nil {
			c.rec.Drop("serialize", pred.String(), err)
			continue
		}
		kept = append(kept, pred)
		asserts = append(asserts, "(assert "+term+")")
	}
	if len(kept) == 0 {
		return "", nil
	}

	used := ir.VarsOf(kept)
	decls := make([]string, len(used))
	for i, v := range used {
		sym, _ := table.Symbol(v)
		decls[i] = smtlib.DeclareFun(smtlib.EncodeSymbol(sym), v.Type)
	}
	return strings.Join(decls, "\n") + "\n\n" + strings.Join(asserts, "\n"), nil
}

// Parse reads declarations and assertions. A declared symbol is bound to
// the live variable whose encoded symbol and sort match it; assertions
// that mention unbound symbols, fall outside the supported fragment or are
// not Bool-typed are dropped. Survivors are simplified.
func (c *Predicate) Parse(input string, currentVars []ir.VarDecl) (ir.Precision, error) {
	c.rec.Reset()
	resp, err := smtlib.ParseResponse(stripScopes(input))
	if err != nil {
		return nil, classify(err)
	}

	live := smtlib.TableFor(currentVars)
	table := smtlib.NewSymbolTable()
	declared := make(map[string]bool, len(resp.Decls))
	for _, d := range resp.Decls {
		if declared[d.Symbol] {
			return nil, decodeError(codec.ErrCodeSyntax, fmt.Sprintf("symbol %q declared twice", d.Symbol), nil)
		}
		declared[d.Symbol] = true
		v, ok := live.Lookup(d.Symbol)
		if !ok || v.Type != d.Type {
			c.rec.Logger().Debug("declaration has no live counterpart", "declaration", d.Text)
			continue
		}
		table.Put(v, d.Symbol)
	}

	var preds []ir.Expr
	for _, n := range resp.Asserts {
		e, err := c.tr.ToExpr(n, table)
		if err != nil {
			c.rec.Drop("parse", n.String(), err)
			continue
		}
		if e.Type() != ir.Bool() {
			c.rec.Drop("parse", n.String(), errNotBool)
			continue
		}
		preds = append(preds, ir.Simplify(e))
	}
	return ir.NewPredPrec(preds...), nil
}

func classify(err error) *codec.DecodeError {
	var syntaxErr *smtlib.SyntaxError
	var solverErr *smtlib.SolverError
	var sortErr *smtlib.SortError
	switch {
	case errors.As(err, &solverErr):
		return decodeError(codec.ErrCodeSolverError, "solver reported an error", err)
	case errors.As(err, &sortErr):
		return decodeError(codec.ErrCodeUnknownSort, "unsupported sort", err)
	case errors.As(err, &syntaxErr):
		return decodeError(codec.ErrCodeSyntax, "could not parse precision", err)
	}
	return decodeError(codec.ErrCodeSyntax, "could not parse precision", err)
}
