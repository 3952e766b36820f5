package witness

import (
	"errors"

	"github.com/roach88/precreuse/internal/cexpr"
	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/scope"
)

var errInternalVar = errors.New("predicate references an internal variable")

// Predicate is the witness codec for predicate precisions.
type Predicate struct {
	opts options
	rec  *codec.Recorder
}

var _ codec.Codec = (*Predicate)(nil)

// NewPredicate returns a predicate-precision codec.
func NewPredicate(opts ...Option) *Predicate {
	o := buildOptions(opts)
	return &Predicate{opts: o, rec: codec.NewRecorder(o.logger, codec.Witness, ir.KindPredicate)}
}

func (*Predicate) Kind() ir.Kind              { return ir.KindPredicate }
func (*Predicate) Format() codec.Format       { return codec.Witness }
func (c *Predicate) LastReport() codec.Report { return c.rec.Report() }

// Serialize files each predicate under the tightest scope among its
// variables and renders it as a C expression over simple names.
// Predicates over internal variables and predicates outside the C fragment
// are dropped.
func (c *Predicate) Serialize(p ir.Precision) (string, error) {
	c.rec.Reset()
	if err := codec.CheckKind(p, ir.KindPredicate); err != nil {
		return "", err
	}
	meta := c.opts.meta
	groups := scope.GroupVars(p.UsedVars(), meta)

	var order []scope.Scope
	values := make(map[scope.Scope][]string)
	for _, pred := range p.(*ir.PredPrec).Preds() {
		used := ir.Vars(pred)
		if anyInternal(used, meta.IsInternal) {
			c.rec.Drop("serialize", pred.String(), errInternalVar)
			continue
		}
		text, err := cexpr.Render(pred, meta.SimpleName)
		if err != nil {
			c.rec.Drop("serialize", pred.String(), err)
			continue
		}
		s := scope.Tightest(groups, used)
		if _, ok := values[s]; !ok {
			order = append(order, s)
		}
		values[s] = append(values[s], text)
	}

	content := make([]ContentItem, len(order))
	for i, s := range order {
		content[i] = ContentItem{Precision: PrecisionEntry{
			Format: FormatCExpression,
			Scope:  scopeNode(s),
			Type:   string(ir.KindPredicate),
			Values: values[s],
		}}
	}
	return encode(Entry{EntryType: EntryTypePrecision, Metadata: c.opts.header(), Content: content})
}

// Parse reads every predicate value as a C condition over the candidates
// of its scope. Values that do not parse or name unknown variables are
// dropped; the rest are simplified.
func (c *Predicate) Parse(input string, currentVars []ir.VarDecl) (ir.Precision, error) {
	c.rec.Reset()
	if input == "" {
		return ir.NewPredPrec(), nil
	}
	entries, err := decode(input, ir.KindPredicate)
	if err != nil {
		return nil, err
	}

	var preds []ir.Expr
	for _, e := range entries {
		s, err := e.Scope.Scope()
		if err != nil {
			return nil, decodeError(codec.ErrCodeSchema, "invalid scope", err)
		}
		cands := scope.FilterInScope(currentVars, s, c.opts.meta)
		for _, value := range e.Values {
			pred, err := cexpr.ParseBool(value, cands.Resolve)
			if err != nil {
				c.rec.Drop("parse", value, err)
				continue
			}
			preds = append(preds, ir.Simplify(pred))
		}
	}
	return ir.NewPredPrec(preds...), nil
}

func anyInternal(vars []ir.VarDecl, internal func(ir.VarDecl) bool) bool {
	for _, v := range vars {
		if internal(v) {
			return true
		}
	}
	return false
}
