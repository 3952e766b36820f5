package smtlib

import (
	"fmt"

	"github.com/roach88/precreuse/internal/ir"
)

// Decl is a declared constant or function.
type Decl struct {
	// Symbol is the unquoted symbol text.
	Symbol string
	Type   ir.Type
	// Text is the declaration as written.
	Text string
}

// Response is a precision document split into declarations and the
// bodies of its assertions.
type Response struct {
	Decls   []Decl
	Asserts []Node
}

// SolverError is an (error "...") response.
type SolverError struct {
	Message string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("smtlib: solver error: %s", e.Message)
}

// ParseResponse reads a sequence of declare-fun, declare-const and assert
// forms. Any other top-level form is a *SyntaxError; an (error "...") form
// is a *SolverError. Sort errors are returned as *SortError.
func ParseResponse(text string) (*Response, error) {
	nodes, err := Parse(text)
	if err != nil {
		return nil, err
	}
	resp := &Response{}
	for _, n := range nodes {
		form, ok := n.(List)
		if !ok {
			return nil, &SyntaxError{Offset: n.Offset(), Message: fmt.Sprintf("unexpected atom %s at top level", n)}
		}
		switch form.Head() {
		case "declare-fun":
			d, err := parseDeclareFun(form)
			if err != nil {
				return nil, err
			}
			resp.Decls = append(resp.Decls, d)
		case "declare-const":
			if len(form.Items) != 3 {
				return nil, malformed(form, "declare-const takes a symbol and a sort")
			}
			sym, ok := symbolOf(form.Items[1])
			if !ok {
				return nil, malformed(form, "declare-const expects a symbol")
			}
			t, err := ParseSort(form.Items[2])
			if err != nil {
				return nil, err
			}
			resp.Decls = append(resp.Decls, Decl{Symbol: sym, Type: t, Text: form.String()})
		case "assert":
			if len(form.Items) != 2 {
				return nil, malformed(form, "assert takes one term")
			}
			resp.Asserts = append(resp.Asserts, form.Items[1])
		case "error":
			msg := form.String()
			if len(form.Items) == 2 {
				if a, ok := form.Items[1].(Atom); ok && a.Kind == String {
					msg = a.Text
				}
			}
			return nil, &SolverError{Message: msg}
		default:
			return nil, malformed(form, "unexpected top-level form")
		}
	}
	return resp, nil
}

func parseDeclareFun(form List) (Decl, error) {
	if len(form.Items) != 4 {
		return Decl{}, malformed(form, "declare-fun takes a symbol, parameter sorts and a result sort")
	}
	sym, ok := symbolOf(form.Items[1])
	if !ok {
		return Decl{}, malformed(form, "declare-fun expects a symbol")
	}
	params, ok := form.Items[2].(List)
	if !ok {
		return Decl{}, malformed(form, "declare-fun expects a parameter list")
	}
	t, err := ParseSort(form.Items[3])
	if err != nil {
		return Decl{}, err
	}
	for i := len(params.Items) - 1; i >= 0; i-- {
		p, err := ParseSort(params.Items[i])
		if err != nil {
			return Decl{}, err
		}
		t = ir.Func(p, t)
	}
	return Decl{Symbol: sym, Type: t, Text: form.String()}, nil
}

func symbolOf(n Node) (string, bool) {
	a, ok := n.(Atom)
	if !ok || a.Kind != Symbol {
		return "", false
	}
	return a.Text, true
}

func malformed(form List, msg string) error {
	return &SyntaxError{Offset: form.Pos, Message: fmt.Sprintf("%s: %s", msg, form)}
}
