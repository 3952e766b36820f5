package codec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes codec and store errors.
type ErrorCode string

const (
	// ErrCodeNotEnabled indicates persistence was used before Enable.
	ErrCodeNotEnabled ErrorCode = "NOT_ENABLED"

	// ErrCodeNoInput indicates Load was called with no input bound.
	ErrCodeNoInput ErrorCode = "NO_INPUT"

	// ErrCodeKindMismatch indicates a precision of the wrong variant.
	ErrCodeKindMismatch ErrorCode = "KIND_MISMATCH"

	// ErrCodeMisconfigured indicates a missing or invalid codec dependency.
	ErrCodeMisconfigured ErrorCode = "MISCONFIGURED"

	// ErrCodeSyntax indicates a lexical or syntax error in the document.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeSolverError indicates an (error "...") response.
	ErrCodeSolverError ErrorCode = "SOLVER_ERROR"

	// ErrCodeUnknownSort indicates a declaration of an unsupported sort.
	ErrCodeUnknownSort ErrorCode = "UNKNOWN_SORT"

	// ErrCodeSchema indicates a witness document violating the schema.
	ErrCodeSchema ErrorCode = "SCHEMA"

	// ErrCodeMissingEntry indicates a witness with no entry of the
	// requested kind.
	ErrCodeMissingEntry ErrorCode = "MISSING_ENTRY"
)

// ConfigError is a wiring error: persistence not enabled, no input bound,
// or a precision of the wrong variant. It is never caused by file content.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DecodeError reports a structurally invalid document. No partial
// precision is produced.
type DecodeError struct {
	Code   ErrorCode
	Format Format
	// Input names the document: a file path when known.
	Input   string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Input != "" {
		msg = fmt.Sprintf("%s (format=%s, input=%s)", msg, e.Format, e.Input)
	} else {
		msg = fmt.Sprintf("%s (format=%s)", msg, e.Format)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if the error is a ConfigError.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDecodeError returns true if the error is a DecodeError.
// Uses errors.As to handle wrapped errors.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// ErrorCodeOf extracts the code of a ConfigError or DecodeError, or "".
func ErrorCodeOf(err error) ErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
