package proprietary

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/smtlib"
)

var (
	errNotLive     = errors.New("no live variable with this name")
	errSymbolTaken = errors.New("encoded symbol already used by another variable")
)

// Explicit is the proprietary codec for explicit precisions.
type Explicit struct {
	rec *codec.Recorder
}

var _ codec.Codec = (*Explicit)(nil)

// NewExplicit returns an explicit-precision codec.
func NewExplicit(opts ...Option) *Explicit {
	o := buildOptions(opts)
	return &Explicit{rec: codec.NewRecorder(o.logger, codec.Proprietary, ir.KindExplicit)}
}

func (*Explicit) Kind() ir.Kind              { return ir.KindExplicit }
func (*Explicit) Format() codec.Format       { return codec.Proprietary }
func (c *Explicit) LastReport() codec.Report { return c.rec.Report() }

// Serialize writes the encoded symbol of every tracked variable, one per
// line, in precision order. A variable whose symbol an earlier one already
// took is dropped.
func (c *Explicit) Serialize(p ir.Precision) (string, error) {
	c.rec.Reset()
	if err := codec.CheckKind(p, ir.KindExplicit); err != nil {
		return "", err
	}
	vars := p.(*ir.ExplPrec).Vars()
	table := smtlib.TableFor(vars)
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		if _, ok := table.Symbol(v); !ok {
			c.rec.Drop("serialize", v.Name, errSymbolTaken)
			continue
		}
		lines = append(lines, smtlib.EncodeSymbol(v.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// Parse resolves every listed symbol against currentVars. A token matches
// a live variable when it equals the variable's encoded symbol or, for the
// older generation, its raw name. Unmatched tokens are dropped.
func (c *Explicit) Parse(input string, currentVars []ir.VarDecl) (ir.Precision, error) {
	c.rec.Reset()
	tokens, err := symbolTokens(stripScopes(input))
	if err != nil {
		return nil, decodeError(codec.ErrCodeSyntax, "malformed variable list", err)
	}
	table := smtlib.TableFor(currentVars)
	byName := make(map[string]ir.VarDecl, len(currentVars))
	for _, v := range currentVars {
		if _, dup := byName[v.Name]; !dup {
			byName[v.Name] = v
		}
	}

	var vars []ir.VarDecl
	for _, tok := range tokens {
		if v, ok := table.Lookup(tok.text); ok {
			vars = append(vars, v)
			continue
		}
		if v, ok := byName[tok.raw]; ok && !tok.quoted {
			vars = append(vars, v)
			continue
		}
		c.rec.Drop("parse", tok.raw, errNotLive)
	}
	return ir.NewExplPrec(vars...), nil
}

type symbolToken struct {
	raw    string // as written
	text   string // without quotes
	quoted bool
}

// symbolTokens splits text on whitespace, keeping |quoted symbols| whole.
func symbolTokens(text string) ([]symbolToken, error) {
	var out []symbolToken
	for i := 0; i < len(text); {
		r := rune(text[i])
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '|':
			end := strings.IndexByte(text[i+1:], '|')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted symbol at offset %d", i)
			}
			raw := text[i : i+end+2]
			out = append(out, symbolToken{raw: raw, text: raw[1 : len(raw)-1], quoted: true})
			i += end + 2
		default:
			j := i
			for j < len(text) && !unicode.IsSpace(rune(text[j])) {
				j++
			}
			out = append(out, symbolToken{raw: text[i:j], text: text[i:j]})
			i = j
		}
	}
	return out, nil
}
