package regblock

import (
	"errors"
	"fmt"
	"strings"
)

type Error error

var (
	// A field's bit range does not fit in the block data width
	ErrBitRangeOverflow Error = errors.New("bit range overflow")
	// Two sibling fields overlap in bit range
	ErrBitRangeOverlap Error = errors.New("bit range overlap")
	// The field access kind is not one of the supported kinds
	ErrUnknownAccessKind Error = errors.New("unknown access kind")
	// Two registers claim the same word address after interrupt expansion
	ErrAddressCollision Error = errors.New("address collision")
	// The register type is not one of the supported types
	ErrUnknownRegisterType Error = errors.New("unknown register type")
	// The block data width is not one of the supported widths
	ErrUnsupportedDataWidth Error = errors.New("unsupported data width")
)

// Fatal model construction error. Generation for the offending block must
// stop; no artifact is emitted from a model that failed validation.
type ValidationError struct {
	// One of the Err* sentinels above
	Kind Error
	// Identifiers of the offending entities, empty when not applicable
	Block    string
	Register string
	Field    string
	Details  string
}

func (e *ValidationError) Error() string {
	msg := e.Kind.Error()

	// Each identifier stands on its own: errors raised before the model is
	// assembled know the register or field but not yet the block
	var offenders []string

	if e.Block != "" {
		offenders = append(offenders, fmt.Sprintf("block '%v'", e.Block))
	}

	if e.Register != "" {
		offenders = append(offenders, fmt.Sprintf("register '%v'", e.Register))
	}

	if e.Field != "" {
		offenders = append(offenders, fmt.Sprintf("field '%v'", e.Field))
	}

	if len(offenders) > 0 {
		msg += " (" + strings.Join(offenders, ", ") + ")"
	}

	if e.Details != "" {
		msg += ": " + e.Details
	}

	return msg
}

// Makes errors.Is work against the Err* sentinels
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func makeValidationError(kind Error, block, register, field, details string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:     kind,
		Block:    block,
		Register: register,
		Field:    field,
		Details:  fmt.Sprintf(details, args...),
	}
}
