package refine

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"

	"github.com/roach88/precreuse/internal/ir"
)

// Criterion decides whether refinement may stop at precision p.
type Criterion func(p ir.Precision) (bool, error)

// CompileCriterion compiles a CEL condition into a Criterion.
//
// The expression sees three variables:
//
//	size  int           number of tracked variables or predicates
//	kind  string        "explicit" or "predicate"
//	vars  list(string)  names of the variables the precision uses
//
// For example: `size >= 40 || (kind == "explicit" && "main::i" in vars)`.
func CompileCriterion(expression string) (Criterion, error) {
	if expression == "" {
		return nil, fmt.Errorf("refine: criterion must not be empty")
	}
	env, err := celgo.NewEnv(
		celgo.Variable("size", celgo.IntType),
		celgo.Variable("kind", celgo.StringType),
		celgo.Variable("vars", celgo.ListType(celgo.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("refine: criterion environment: %w", err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("refine: parse criterion: %w", issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("refine: check criterion: %w", issues.Err())
	}
	if !checked.OutputType().IsExactType(celgo.BoolType) {
		return nil, fmt.Errorf("refine: criterion must be boolean, got %s", checked.OutputType())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("refine: build criterion: %w", err)
	}

	return func(p ir.Precision) (bool, error) {
		used := p.UsedVars()
		names := make([]string, len(used))
		for i, v := range used {
			names[i] = v.Name
		}
		out, _, err := prg.Eval(map[string]any{
			"size": int64(p.Size()),
			"kind": string(p.Kind()),
			"vars": names,
		})
		if err != nil {
			return false, fmt.Errorf("refine: evaluate criterion: %w", err)
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("refine: criterion returned %T", out.Value())
		}
		return b, nil
	}, nil
}
