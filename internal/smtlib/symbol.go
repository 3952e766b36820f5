package smtlib

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/precreuse/internal/ir"
)

// reserved words cannot be used as bare symbols.
var reserved = map[string]bool{
	"_": true, "!": true, "as": true, "let": true, "exists": true, "forall": true,
	"match": true, "par": true, "NUMERAL": true, "DECIMAL": true, "STRING": true,
	"BINARY": true, "HEXADECIMAL": true,
}

// EncodeSymbol maps an internal variable name to an SMT-LIB symbol.
//
// The name is NFC normalised. A valid simple symbol is kept bare; anything
// else is |quoted|, with the characters quoted symbols cannot contain ('|'
// and '\') replaced by '_'. EncodeSymbol is deterministic, so decoding can
// match a declared symbol against EncodeSymbol(live.Name).
func EncodeSymbol(name string) string {
	name = norm.NFC.String(name)
	if isSimpleSymbol(name) {
		return name
	}
	return "|" + strings.NewReplacer("|", "_", `\`, "_").Replace(name) + "|"
}

// symbolText is the unquoted text of an encoded symbol, as the reader
// returns it in Atom.Text.
func symbolText(encoded string) string {
	if len(encoded) >= 2 && encoded[0] == '|' && encoded[len(encoded)-1] == '|' {
		return encoded[1 : len(encoded)-1]
	}
	return encoded
}

func isSimpleSymbol(s string) bool {
	if s == "" || isDigit(s[0]) || reserved[s] {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isSymbolChar(s[i]) {
			return false
		}
	}
	return true
}

// SymbolTable binds variables to the symbols that denote them.
//
// Each variable is bound to at most one symbol and each symbol to at most
// one variable. Rebinding is a programming error and panics.
type SymbolTable struct {
	bySymbol map[string]ir.VarDecl
	byVar    map[ir.VarDecl]string
	order    []ir.VarDecl
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		bySymbol: make(map[string]ir.VarDecl),
		byVar:    make(map[ir.VarDecl]string),
	}
}

// Put binds v to symbol. symbol is the unquoted symbol text.
func (t *SymbolTable) Put(v ir.VarDecl, symbol string) {
	if prev, ok := t.byVar[v]; ok {
		panic(fmt.Sprintf("smtlib: %s already bound to symbol %q", v.Name, prev))
	}
	if prev, ok := t.bySymbol[symbol]; ok {
		panic(fmt.Sprintf("smtlib: symbol %q already bound to %s", symbol, prev.Name))
	}
	t.bySymbol[symbol] = v
	t.byVar[v] = symbol
	t.order = append(t.order, v)
}

// Symbol returns the unquoted symbol bound to v.
func (t *SymbolTable) Symbol(v ir.VarDecl) (string, bool) {
	s, ok := t.byVar[v]
	return s, ok
}

// Lookup returns the variable bound to symbol.
func (t *SymbolTable) Lookup(symbol string) (ir.VarDecl, bool) {
	v, ok := t.bySymbol[symbol]
	return v, ok
}

// DefinesSymbol reports whether symbol is bound.
func (t *SymbolTable) DefinesSymbol(symbol string) bool {
	_, ok := t.bySymbol[symbol]
	return ok
}

// Vars returns the bound variables in binding order.
func (t *SymbolTable) Vars() []ir.VarDecl {
	return append([]ir.VarDecl(nil), t.order...)
}

// Len returns the number of bindings.
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// TableFor binds every variable to its encoded symbol. Variables whose
// encodings collide keep the first binding.
func TableFor(vars []ir.VarDecl) *SymbolTable {
	t := NewSymbolTable()
	for _, v := range vars {
		sym := symbolText(EncodeSymbol(v.Name))
		if _, bound := t.byVar[v]; bound || t.DefinesSymbol(sym) {
			continue
		}
		t.Put(v, sym)
	}
	return t
}
