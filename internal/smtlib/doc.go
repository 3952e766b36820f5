// Package smtlib reads and writes the SMT-LIB v2 subset used by the
// proprietary precision format.
//
// The reader (Parse) produces a tree of Atom and List nodes. On top of it:
//   - EncodeSymbol maps internal variable names to SMT-LIB symbols
//   - SymbolTable binds declared symbols to live variables
//   - ParseSort and DeclareFun convert between sorts and ir.Type
//   - Transformer converts terms to ir.Expr and back
//   - ParseResponse splits a document into declarations and assertions
package smtlib
