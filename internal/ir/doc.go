// Package ir provides the typed intermediate representation shared by the
// precision codecs.
//
// This package contains value types only. Every other internal package
// imports ir; ir imports nothing internal, which keeps it the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Types and variable declarations are comparable values (== is structural)
//   - Expressions are immutable; structural equality goes through the
//     canonical String() form (see Equal)
//   - Precision is a sealed sum type with exactly two variants, ExplPrec and
//     PredPrec, matched with exhaustive type switches
//   - Variable names encode lexical scope with ScopeSeparator ("f::g::x")
//   - No float types anywhere; numbers are int64 or int64 fractions
package ir
