package ir

import "strings"

// ScopeSeparator separates the lexical scope segments of a flat variable
// name, e.g. "main::loop::i".
const ScopeSeparator = "::"

// VarDecl identifies a program variable.
//
// Name is the flat internal name; its "::"-separated segments encode the
// lexical scope. Source positions, the C-level name and the internal flag
// live in external metadata keyed by Name (see package metadata).
type VarDecl struct {
	Name string
	Type Type
}

// Var creates a variable declaration.
func Var(name string, t Type) VarDecl {
	return VarDecl{Name: name, Type: t}
}

// Ref returns a reference expression to the variable.
func (v VarDecl) Ref() Ref {
	return Ref{Decl: v}
}

// Segments splits the name on ScopeSeparator.
func (v VarDecl) Segments() []string {
	return strings.Split(v.Name, ScopeSeparator)
}

// LeafName returns the last scope segment of the name: the plain
// identifier stripped of its scope qualification.
func (v VarDecl) LeafName() string {
	return LeafName(v.Name)
}

// LeafName returns the last ScopeSeparator segment of name.
func LeafName(name string) string {
	if i := strings.LastIndex(name, ScopeSeparator); i >= 0 {
		return name[i+len(ScopeSeparator):]
	}
	return name
}

func (v VarDecl) String() string {
	return v.Name
}
