package harness

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/codec/proprietary"
	"github.com/roach88/precreuse/internal/codec/witness"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
	"github.com/roach88/precreuse/internal/smtlib"
	"github.com/roach88/precreuse/internal/testutil"
)

// Producer is the verifier name written into witness metadata by the
// harness.
var Producer = codec.Task{ProducerName: "precreuse", ProducerVersion: "harness"}

// Harness holds the collaborators shared by the codecs of one scenario.
type Harness struct {
	universe *metadata.Universe
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the universe and build the precision
// 2. For every codec: encode, decode, re-encode
// 3. Evaluate the assertions
//
// An error means the scenario could not be executed; assertion failures
// are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	u, err := metadata.LoadUniverse(scenario.Universe)
	if err != nil {
		return nil, err
	}
	kind, err := ir.ParseKind(scenario.Precision.Kind)
	if err != nil {
		return nil, err
	}
	prec, err := buildPrecision(scenario.Precision, kind, u)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		universe: u,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for _, name := range scenario.formats() {
		format, err := codec.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		out, err := h.exercise(h.newCodec(format, kind), prec)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %s: %w", scenario.Name, name, err)
		}
		result.Outcomes = append(result.Outcomes, out)
	}

	evaluate(scenario.Assertions, result)
	return result, nil
}

// buildPrecision resolves the scenario precision against the universe.
func buildPrecision(spec PrecisionSpec, kind ir.Kind, u *metadata.Universe) (ir.Precision, error) {
	if kind == ir.KindExplicit {
		vars := make([]ir.VarDecl, 0, len(spec.Vars))
		for _, name := range spec.Vars {
			v, ok := u.Var(name)
			if !ok {
				return nil, fmt.Errorf("precision.vars: %q is not in the universe", name)
			}
			vars = append(vars, v)
		}
		return ir.NewExplPrec(vars...), nil
	}

	table := smtlib.TableFor(u.Vars)
	preds := make([]ir.Expr, 0, len(spec.Predicates))
	for i, term := range spec.Predicates {
		node, err := smtlib.ParseOne(term)
		if err != nil {
			return nil, fmt.Errorf("precision.predicates[%d]: %w", i, err)
		}
		e, err := smtlib.Transformer{}.ToExpr(node, table)
		if err != nil {
			return nil, fmt.Errorf("precision.predicates[%d]: %w", i, err)
		}
		if e.Type() != ir.Bool() {
			return nil, fmt.Errorf("precision.predicates[%d]: %s is not a predicate", i, term)
		}
		preds = append(preds, e)
	}
	return ir.NewPredPrec(preds...), nil
}

// newCodec builds a codec with deterministic witness metadata.
func (h *Harness) newCodec(format codec.Format, kind ir.Kind) codec.Codec {
	if format == codec.Proprietary {
		if kind == ir.KindExplicit {
			return proprietary.NewExplicit(proprietary.WithLogger(h.logger))
		}
		return proprietary.NewPredicate(proprietary.WithLogger(h.logger))
	}
	opts := []witness.Option{
		witness.WithLogger(h.logger),
		witness.WithMetadata(h.universe.Table),
		witness.WithTask(Producer),
		witness.WithClock(testutil.NewDeterministicClock()),
		witness.WithIDGenerator(testutil.NewFixedIDGenerator("")),
	}
	if kind == ir.KindExplicit {
		return witness.NewExplicit(opts...)
	}
	return witness.NewPredicate(opts...)
}

// exercise encodes p, decodes it and encodes the result again.
func (h *Harness) exercise(c codec.Codec, p ir.Precision) (Outcome, error) {
	out := Outcome{Format: string(c.Format())}

	encoded, err := c.Serialize(p)
	if err != nil {
		return out, fmt.Errorf("serialize: %w", err)
	}
	out.Encoded = encoded
	out.Dropped = dropValues(out.Dropped, c.LastReport())

	decoded, err := c.Parse(encoded, h.universe.Vars)
	if err != nil {
		return out, fmt.Errorf("parse: %w", err)
	}
	out.Dropped = dropValues(out.Dropped, c.LastReport())

	again, err := c.Serialize(decoded)
	if err != nil {
		return out, fmt.Errorf("re-serialize: %w", err)
	}

	out.Entries = ir.Entries(decoded)
	sort.Strings(out.Entries)
	out.Size = decoded.Size()
	out.RoundTrip = ir.PrecEqual(p, decoded)
	out.Idempotent = sameDocument(c.Format(), encoded, again)
	return out, nil
}

func dropValues(dst []string, r codec.Report) []string {
	for _, d := range r.Dropped {
		dst = append(dst, d.Value)
	}
	return dst
}

// sameDocument compares two serializations. Witness documents are
// compared without their metadata, which carries a fresh creation time.
func sameDocument(format codec.Format, a, b string) bool {
	if format != codec.Witness {
		return a == b
	}
	da, errA := withoutMetadata(a)
	db, errB := withoutMetadata(b)
	return errA == nil && errB == nil && reflect.DeepEqual(da, db)
}

func withoutMetadata(doc string) ([]map[string]any, error) {
	var entries []map[string]any
	if err := yaml.Unmarshal([]byte(doc), &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		delete(e, "metadata")
	}
	return entries, nil
}
