// Package proprietary implements the SMT-LIB precision format.
//
// An explicit precision is written as one encoded symbol per line. A
// predicate precision is written as declare-fun lines for the variables
// the predicates use, a blank line, then one assert line per predicate.
//
// The reader also accepts the older generation of the format, which tagged
// blocks with scope-marker lines such as "*:" and listed explicit
// variables by their raw internal names.
package proprietary

import (
	"log/slog"
	"strings"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/smtlib"
)

func init() {
	codec.Register(codec.Proprietary, ir.KindExplicit, func(deps codec.Deps) (codec.Codec, error) {
		return NewExplicit(WithLogger(deps.Logger)), nil
	})
	codec.Register(codec.Proprietary, ir.KindPredicate, func(deps codec.Deps) (codec.Codec, error) {
		return NewPredicate(WithLogger(deps.Logger)), nil
	})
}

// TermTransformer converts between ir expressions and SMT-LIB terms.
// smtlib.Transformer is the production implementation.
type TermTransformer interface {
	ToTerm(e ir.Expr, table *smtlib.SymbolTable) (string, error)
	ToExpr(n smtlib.Node, table *smtlib.SymbolTable) (ir.Expr, error)
}

type options struct {
	logger      *slog.Logger
	transformer TermTransformer
}

// Option configures a proprietary codec.
type Option func(*options)

// WithLogger sets the logger drops are reported to. A nil logger keeps
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTransformer replaces the term transformer.
func WithTransformer(t TermTransformer) Option {
	return func(o *options) {
		o.transformer = t
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), transformer: smtlib.Transformer{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stripScopes removes blank lines and scope-marker lines (trimmed lines
// ending in ':').
func stripScopes(input string) string {
	lines := strings.Split(input, "\n")
	kept := lines[:0]
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasSuffix(t, ":") {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, "\n")
}

func decodeError(code codec.ErrorCode, msg string, err error) *codec.DecodeError {
	return &codec.DecodeError{Code: code, Format: codec.Proprietary, Message: msg, Err: err}
}
