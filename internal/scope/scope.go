// Package scope maps variables to the lexical scopes recorded in witness
// precision entries and resolves saved scopes against the live variables of
// a new analysis run.
package scope

import (
	"fmt"
	"strings"

	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
)

// Type orders scopes from coarsest to tightest.
type Type int

const (
	Global Type = iota
	Function
	Location
)

func (t Type) String() string {
	switch t {
	case Global:
		return "global"
	case Function:
		return "function"
	case Location:
		return "location"
	}
	return fmt.Sprintf("scope.Type(%d)", int(t))
}

// ParseType reads a scope type name.
func ParseType(s string) (Type, error) {
	switch s {
	case "global":
		return Global, nil
	case "function":
		return Function, nil
	case "location":
		return Location, nil
	}
	return 0, fmt.Errorf("scope: unknown type %q", s)
}

// Scope is a comparable value. Function is set for Function and Location
// scopes; Line and Column only for Location scopes, where a zero Column
// means unknown.
type Scope struct {
	Type     Type
	Function string
	Line     int
	Column   int
}

// GlobalScope returns the program-wide scope.
func GlobalScope() Scope { return Scope{Type: Global} }

// FunctionScope returns the scope of a function body.
func FunctionScope(fn string) Scope { return Scope{Type: Function, Function: fn} }

// LocationScope returns the scope of a source position inside fn.
func LocationScope(fn string, line, column int) Scope {
	return Scope{Type: Location, Function: fn, Line: line, Column: column}
}

func (s Scope) String() string {
	switch s.Type {
	case Function:
		return "function " + s.Function
	case Location:
		return fmt.Sprintf("location %s:%d:%d", s.Function, s.Line, s.Column)
	}
	return "global"
}

// Of returns the scope a variable is declared in. The number of name
// segments decides: one is Global, two is Function(first), more is
// Location(first, line, column) when the declaration line is known and
// Function(first) otherwise.
func Of(v ir.VarDecl, meta metadata.Lookup) Scope {
	segs := v.Segments()
	switch {
	case len(segs) == 1:
		return GlobalScope()
	case len(segs) == 2:
		return FunctionScope(segs[0])
	}
	line, ok := meta.Line(v)
	if !ok {
		return FunctionScope(segs[0])
	}
	col, _ := meta.Column(v)
	return LocationScope(segs[0], line, col)
}

// Group is the set of variables sharing one scope.
type Group struct {
	Scope Scope
	Vars  []ir.VarDecl
}

// GroupVars partitions vars by scope. Groups appear in order of their first
// variable and keep the input order within each group.
func GroupVars(vars []ir.VarDecl, meta metadata.Lookup) []Group {
	var groups []Group
	index := make(map[Scope]int)
	for _, v := range vars {
		s := Of(v, meta)
		i, ok := index[s]
		if !ok {
			i = len(groups)
			index[s] = i
			groups = append(groups, Group{Scope: s})
		}
		groups[i].Vars = append(groups[i].Vars, v)
	}
	return groups
}

// Tightest folds over groups, starting from Global, and returns the scope
// of the first group of the strictly tightest type that shares a variable
// with used. A later group of the same type never displaces an earlier one.
func Tightest(groups []Group, used []ir.VarDecl) Scope {
	uses := make(map[ir.VarDecl]bool, len(used))
	for _, v := range used {
		uses[v] = true
	}
	tightest := GlobalScope()
	for _, g := range groups {
		if g.Scope.Type <= tightest.Type {
			continue
		}
		for _, v := range g.Vars {
			if uses[v] {
				tightest = g.Scope
				break
			}
		}
	}
	return tightest
}

// Score ranks how well a live variable matches a saved scope; higher is
// better.
//
//	Global:   1 if the name is its own simple name, else 0
//	Function: 1 if the name contains "fn::", else 0
//	Location: 3 on line and column match, 2 on line match,
//	          else 1 if the name contains "fn::", else 0
//
// A scope without a function name never matches on "fn::".
func Score(v ir.VarDecl, s Scope, meta metadata.Lookup) int {
	inFunction := func() int {
		if s.Function != "" && strings.Contains(v.Name, s.Function+ir.ScopeSeparator) {
			return 1
		}
		return 0
	}
	switch s.Type {
	case Global:
		if v.Name == meta.SimpleName(v) {
			return 1
		}
		return 0
	case Function:
		return inFunction()
	}
	if line, ok := meta.Line(v); ok && line == s.Line {
		if col, ok := meta.Column(v); ok && col == s.Column {
			return 3
		}
		return 2
	}
	return inFunction()
}

// Candidates is the outcome of FilterInScope: at most one live variable per
// simple name.
type Candidates struct {
	names  []string
	byName map[string]ir.VarDecl
}

// Resolve returns the candidate with the given simple name.
func (c *Candidates) Resolve(name string) (ir.VarDecl, bool) {
	v, ok := c.byName[name]
	return v, ok
}

// Vars returns the candidates in order of first appearance of their simple
// names.
func (c *Candidates) Vars() []ir.VarDecl {
	out := make([]ir.VarDecl, len(c.names))
	for i, n := range c.names {
		out[i] = c.byName[n]
	}
	return out
}

// Len returns the number of candidates.
func (c *Candidates) Len() int { return len(c.names) }

// FilterInScope picks, for every simple name among vars, the variable with
// the highest Score against s. Ties keep the variable seen first. A
// variable scoring 0 is still kept when nothing better shares its name.
func FilterInScope(vars []ir.VarDecl, s Scope, meta metadata.Lookup) *Candidates {
	c := &Candidates{byName: make(map[string]ir.VarDecl)}
	best := make(map[string]int)
	for _, v := range vars {
		name := meta.SimpleName(v)
		score := Score(v, s, meta)
		prev, seen := best[name]
		if !seen {
			c.names = append(c.names, name)
		}
		if !seen || score > prev {
			best[name] = score
			c.byName[name] = v
		}
	}
	return c
}
