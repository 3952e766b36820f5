// Package metadata carries the per-variable facts the IR does not: source
// positions, the C-level name and the internal flag.
package metadata

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/precreuse/internal/ir"
)

// Lookup answers metadata queries for live variables.
type Lookup interface {
	// Line returns the source line of the declaration, if known.
	Line(v ir.VarDecl) (int, bool)
	// Column returns the source column of the declaration, if known.
	Column(v ir.VarDecl) (int, bool)
	// SimpleName returns the C-level name, defaulting to the leaf segment.
	SimpleName(v ir.VarDecl) string
	// IsInternal reports tool-generated variables with no source
	// counterpart.
	IsInternal(v ir.VarDecl) bool
}

// Info is the metadata of one variable. Zero Line or Column means unknown.
type Info struct {
	Line     int
	Column   int
	CName    string
	Internal bool
}

// Table is an in-memory Lookup keyed by variable name. A nil *Table is a
// valid Lookup with no entries.
type Table struct {
	entries map[string]Info
}

var _ Lookup = (*Table)(nil)

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Info)}
}

// Set records info for the variable named name.
func (t *Table) Set(name string, info Info) {
	info.CName = norm.NFC.String(info.CName)
	t.entries[name] = info
}

// Get returns the info recorded for name.
func (t *Table) Get(name string) (Info, bool) {
	if t == nil {
		return Info{}, false
	}
	info, ok := t.entries[name]
	return info, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *Table) Line(v ir.VarDecl) (int, bool) {
	info, ok := t.Get(v.Name)
	return info.Line, ok && info.Line > 0
}

func (t *Table) Column(v ir.VarDecl) (int, bool) {
	info, ok := t.Get(v.Name)
	return info.Column, ok && info.Column > 0
}

func (t *Table) SimpleName(v ir.VarDecl) string {
	if info, ok := t.Get(v.Name); ok && info.CName != "" {
		return info.CName
	}
	return norm.NFC.String(v.LeafName())
}

func (t *Table) IsInternal(v ir.VarDecl) bool {
	info, _ := t.Get(v.Name)
	return info.Internal
}
