package witness

import (
	"strings"

	"github.com/roach88/precreuse/internal/cexpr"
	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/scope"
)

// Explicit is the witness codec for explicit precisions.
type Explicit struct {
	opts options
	rec  *codec.Recorder
}

var _ codec.Codec = (*Explicit)(nil)

// NewExplicit returns an explicit-precision codec.
func NewExplicit(opts ...Option) *Explicit {
	o := buildOptions(opts)
	return &Explicit{opts: o, rec: codec.NewRecorder(o.logger, codec.Witness, ir.KindExplicit)}
}

func (*Explicit) Kind() ir.Kind              { return ir.KindExplicit }
func (*Explicit) Format() codec.Format       { return codec.Witness }
func (c *Explicit) LastReport() codec.Report { return c.rec.Report() }

// Serialize groups the tracked variables by scope and lists each as
// "&name". Internal variables are left out.
func (c *Explicit) Serialize(p ir.Precision) (string, error) {
	c.rec.Reset()
	if err := codec.CheckKind(p, ir.KindExplicit); err != nil {
		return "", err
	}
	meta := c.opts.meta

	var vars []ir.VarDecl
	for _, v := range p.(*ir.ExplPrec).Vars() {
		if meta.IsInternal(v) {
			c.rec.Logger().Debug("internal variable left out of witness", "var", v.Name)
			continue
		}
		vars = append(vars, v)
	}

	var content []ContentItem
	for _, g := range scope.GroupVars(vars, meta) {
		values := make([]string, len(g.Vars))
		for i, v := range g.Vars {
			values[i] = "&" + meta.SimpleName(v)
		}
		content = append(content, ContentItem{Precision: PrecisionEntry{
			Format: FormatCExpression,
			Scope:  scopeNode(g.Scope),
			Type:   string(ir.KindExplicit),
			Values: values,
		}})
	}
	return encode(Entry{EntryType: EntryTypePrecision, Metadata: c.opts.header(), Content: content})
}

// Parse tracks every live variable mentioned by an explicit value,
// resolving names among the candidates of the value's scope.
func (c *Explicit) Parse(input string, currentVars []ir.VarDecl) (ir.Precision, error) {
	c.rec.Reset()
	if input == "" {
		return ir.NewExplPrec(), nil
	}
	entries, err := decode(input, ir.KindExplicit)
	if err != nil {
		return nil, err
	}

	var tracked []ir.VarDecl
	for _, e := range entries {
		s, err := e.Scope.Scope()
		if err != nil {
			return nil, decodeError(codec.ErrCodeSchema, "invalid scope", err)
		}
		cands := scope.FilterInScope(currentVars, s, c.opts.meta)
		for _, value := range e.Values {
			expr, err := cexpr.Parse(strings.TrimPrefix(strings.TrimSpace(value), "&"), cands.Resolve)
			if err != nil {
				c.rec.Drop("parse", value, err)
				continue
			}
			tracked = append(tracked, ir.Vars(expr)...)
		}
	}
	return ir.NewExplPrec(tracked...), nil
}
