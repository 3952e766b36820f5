package smtlib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/precreuse/internal/ir"
)

// SortError reports a sort outside Bool, Int, Real, (_ BitVec n) and
// (Array S T).
type SortError struct {
	Sort string
}

func (e *SortError) Error() string {
	return fmt.Sprintf("smtlib: unsupported sort %s", e.Sort)
}

// ParseSort converts a sort expression to an ir.Type.
func ParseSort(n Node) (ir.Type, error) {
	switch s := n.(type) {
	case Atom:
		if s.Kind == Symbol && !s.Quoted {
			switch s.Text {
			case "Bool":
				return ir.Bool(), nil
			case "Int":
				return ir.Int(), nil
			case "Real":
				return ir.Rat(), nil
			}
		}
	case List:
		switch s.Head() {
		case "_":
			if len(s.Items) == 3 && isSymbol(s.Items[1], "BitVec") {
				if w, ok := s.Items[2].(Atom); ok && w.Kind == Numeral {
					width, err := strconv.Atoi(w.Text)
					if err == nil && width > 0 {
						return ir.Bv(width), nil
					}
				}
			}
		case "Array":
			if len(s.Items) == 3 {
				idx, err := ParseSort(s.Items[1])
				if err != nil {
					return nil, err
				}
				elem, err := ParseSort(s.Items[2])
				if err != nil {
					return nil, err
				}
				return ir.Array(idx, elem), nil
			}
		}
	}
	return nil, &SortError{Sort: n.String()}
}

// ParseSortString parses a sort written as text, e.g. "(_ BitVec 32)".
func ParseSortString(s string) (ir.Type, error) {
	n, err := ParseOne(s)
	if err != nil {
		return nil, err
	}
	return ParseSort(n)
}

// DeclareFun renders the declaration of a constant or function symbol.
// Function types are uncurried into a parameter list.
func DeclareFun(symbol string, t ir.Type) string {
	var params []string
	for {
		ft, ok := t.(ir.FuncType)
		if !ok {
			break
		}
		params = append(params, ft.Param.String())
		t = ft.Result
	}
	return fmt.Sprintf("(declare-fun %s (%s) %s)", symbol, strings.Join(params, " "), t)
}

func isSymbol(n Node, text string) bool {
	a, ok := n.(Atom)
	return ok && a.Kind == Symbol && a.Text == text
}
