// Package codec defines the contract shared by the precision serializers
// and the errors and drop reports they produce.
//
// Four codecs implement Codec: explicit and predicate precisions, each in
// the proprietary SMT-LIB format (package codec/proprietary) and the YAML
// witness format (package codec/witness).
package codec

import (
	"fmt"

	"github.com/roach88/precreuse/internal/ir"
)

// Format names a textual encoding.
type Format string

const (
	// Proprietary is the SMT-LIB declarations-and-assertions format.
	Proprietary Format = "proprietary"
	// Witness is the YAML verification-witness format.
	Witness Format = "witness"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Proprietary, Witness:
		return f, nil
	}
	return "", fmt.Errorf("codec: unknown format %q", s)
}

// FileName is the output file written for the format.
func (f Format) FileName() string {
	if f == Witness {
		return "prec.yml"
	}
	return "prec.txt"
}

// Codec converts one precision kind to and from one format.
//
// Serialize never fails on a well-formed precision of the codec's kind:
// parts that cannot be encoded are dropped and reported. Parse fails only
// on a structurally invalid document; unusable entries are skipped and
// reported. Parse("") yields the empty precision.
type Codec interface {
	Kind() ir.Kind
	Format() Format
	Serialize(p ir.Precision) (string, error)
	Parse(input string, currentVars []ir.VarDecl) (ir.Precision, error)
	// LastReport describes what the most recent Serialize or Parse
	// dropped.
	LastReport() Report
}

// CheckKind returns a ConfigError unless p is of kind want.
func CheckKind(p ir.Precision, want ir.Kind) error {
	if p == nil {
		return &ConfigError{Code: ErrCodeKindMismatch, Message: fmt.Sprintf("expected %s precision, got nil", want)}
	}
	if p.Kind() != want {
		return &ConfigError{
			Code:    ErrCodeKindMismatch,
			Message: fmt.Sprintf("expected %s precision, got %s", want, p.Kind()),
		}
	}
	return nil
}
