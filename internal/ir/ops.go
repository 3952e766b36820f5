package ir

// Op names an operator of a Unary, Binary or Nary node.
//
// Op values are IR identifiers, not surface syntax: the smtlib and cexpr
// packages map them onto their own operator spellings.
type Op string

// Boolean operators.
const (
	OpNot   Op = "not"
	OpAnd   Op = "and"
	OpOr    Op = "or"
	OpImply Op = "=>"
	OpXor   Op = "xor"
)

// Equality and ordering. Eq/Neq apply to any pair of equal types; the
// ordering operators apply to Int and Rat.
const (
	OpEq  Op = "="
	OpNeq Op = "distinct"
	OpLt  Op = "<"
	OpLeq Op = "<="
	OpGt  Op = ">"
	OpGeq Op = ">="
)

// Integer and rational arithmetic.
const (
	OpNeg    Op = "neg"
	OpAdd    Op = "+"
	OpSub    Op = "-"
	OpMul    Op = "*"
	OpDiv    Op = "div"
	OpMod    Op = "mod"
	OpRem    Op = "rem"
	OpRatDiv Op = "/"
	OpToRat  Op = "to_real"
)

// Bit-vector operators.
const (
	OpBvNot  Op = "bvnot"
	OpBvNeg  Op = "bvneg"
	OpBvAdd  Op = "bvadd"
	OpBvSub  Op = "bvsub"
	OpBvMul  Op = "bvmul"
	OpBvUDiv Op = "bvudiv"
	OpBvSDiv Op = "bvsdiv"
	OpBvURem Op = "bvurem"
	OpBvSRem Op = "bvsrem"
	OpBvAnd  Op = "bvand"
	OpBvOr   Op = "bvor"
	OpBvXor  Op = "bvxor"
	OpBvShl  Op = "bvshl"
	OpBvLShr Op = "bvlshr"
	OpBvAShr Op = "bvashr"
	OpBvULt  Op = "bvult"
	OpBvULe  Op = "bvule"
	OpBvUGt  Op = "bvugt"
	OpBvUGe  Op = "bvuge"
	OpBvSLt  Op = "bvslt"
	OpBvSLe  Op = "bvsle"
	OpBvSGt  Op = "bvsgt"
	OpBvSGe  Op = "bvsge"
)

// OpRead is array selection: (select a i).
const OpRead Op = "select"

// opClass groups operators by their typing rule.
type opClass int

const (
	classInvalid opClass = iota
	classBoolUnary
	classNumUnary
	classBvUnary
	classToRat
	classBoolBinary
	classEquality
	classNumCompare
	classNumBinary
	classIntBinary
	classRatBinary
	classBvBinary
	classBvCompare
	classRead
	classBoolNary
	classNumNary
	classBvNary
)

var opClasses = map[Op]opClass{
	OpNot:    classBoolUnary,
	OpNeg:    classNumUnary,
	OpBvNot:  classBvUnary,
	OpBvNeg:  classBvUnary,
	OpToRat:  classToRat,
	OpImply:  classBoolBinary,
	OpXor:    classBoolBinary,
	OpEq:     classEquality,
	OpNeq:    classEquality,
	OpLt:     classNumCompare,
	OpLeq:    classNumCompare,
	OpGt:     classNumCompare,
	OpGeq:    classNumCompare,
	OpSub:    classNumBinary,
	OpDiv:    classIntBinary,
	OpMod:    classIntBinary,
	OpRem:    classIntBinary,
	OpRatDiv: classRatBinary,
	OpBvSub:  classBvBinary,
	OpBvUDiv: classBvBinary,
	OpBvSDiv: classBvBinary,
	OpBvURem: classBvBinary,
	OpBvSRem: classBvBinary,
	OpBvShl:  classBvBinary,
	OpBvLShr: classBvBinary,
	OpBvAShr: classBvBinary,
	OpBvULt:  classBvCompare,
	OpBvULe:  classBvCompare,
	OpBvUGt:  classBvCompare,
	OpBvUGe:  classBvCompare,
	OpBvSLt:  classBvCompare,
	OpBvSLe:  classBvCompare,
	OpBvSGt:  classBvCompare,
	OpBvSGe:  classBvCompare,
	OpRead:   classRead,
	OpAnd:    classBoolNary,
	OpOr:     classBoolNary,
	OpAdd:    classNumNary,
	OpMul:    classNumNary,
	OpBvAdd:  classBvNary,
	OpBvMul:  classBvNary,
	OpBvAnd:  classBvNary,
	OpBvOr:   classBvNary,
	OpBvXor:  classBvNary,
}

func (op Op) class() opClass {
	return opClasses[op]
}

// IsUnary reports whether op builds a Unary node.
func (op Op) IsUnary() bool {
	switch op.class() {
	case classBoolUnary, classNumUnary, classBvUnary, classToRat:
		return true
	}
	return false
}

// IsBinary reports whether op builds a Binary node.
func (op Op) IsBinary() bool {
	switch op.class() {
	case classBoolBinary, classEquality, classNumCompare, classNumBinary,
		classIntBinary, classRatBinary, classBvBinary, classBvCompare, classRead:
		return true
	}
	return false
}

// IsNary reports whether op builds a Nary node.
func (op Op) IsNary() bool {
	switch op.class() {
	case classBoolNary, classNumNary, classBvNary:
		return true
	}
	return false
}
