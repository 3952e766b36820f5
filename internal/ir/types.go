package ir

import "fmt"

// Type is a sealed interface representing the sort of an expression.
// Only BoolType, IntType, RatType, BvType, ArrayType and FuncType implement it.
//
// All implementations are plain values, so two types are equal iff they
// compare equal with ==.
type Type interface {
	// String renders the type in SMT-LIB sort syntax.
	String() string
	isType() // Sealed
}

// BoolType is the boolean sort.
type BoolType struct{}

func (BoolType) isType()        {}
func (BoolType) String() string { return "Bool" }

// IntType is the mathematical integer sort.
type IntType struct{}

func (IntType) isType()        {}
func (IntType) String() string { return "Int" }

// RatType is the rational sort ("Real" in SMT-LIB).
type RatType struct{}

func (RatType) isType()        {}
func (RatType) String() string { return "Real" }

// BvType is a fixed-width bit-vector sort.
type BvType struct {
	Width int
}

func (BvType) isType() {}
func (t BvType) String() string {
	return fmt.Sprintf("(_ BitVec %d)", t.Width)
}

// ArrayType maps Index values to Elem values.
type ArrayType struct {
	Index Type
	Elem  Type
}

func (ArrayType) isType() {}
func (t ArrayType) String() string {
	return fmt.Sprintf("(Array %s %s)", t.Index, t.Elem)
}

// FuncType is a unary function sort. Multi-argument functions are curried:
// (-> A (-> B C)).
//
// Function-typed declarations can be decoded, but no predicate over them is
// representable; predicates applying them are dropped.
type FuncType struct {
	Param  Type
	Result Type
}

func (FuncType) isType() {}
func (t FuncType) String() string {
	return fmt.Sprintf("(-> %s %s)", t.Param, t.Result)
}

// Bool returns the boolean type.
func Bool() Type { return BoolType{} }

// Int returns the integer type.
func Int() Type { return IntType{} }

// Rat returns the rational type.
func Rat() Type { return RatType{} }

// Bv returns the bit-vector type of the given width.
func Bv(width int) Type { return BvType{Width: width} }

// Array returns the array type index -> elem.
func Array(index, elem Type) Type { return ArrayType{Index: index, Elem: elem} }

// Func returns the function type param -> result.
func Func(param, result Type) Type { return FuncType{Param: param, Result: result} }

// isNumeric reports whether t supports the integer/rational arithmetic ops.
func isNumeric(t Type) bool {
	switch t.(type) {
	case IntType, RatType:
		return true
	}
	return false
}

func isBv(t Type) bool {
	_, ok := t.(BvType)
	return ok
}
