package encoder

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
)

// EncodingError reports a §7 ErrorRangeViolation or ErrorCompressedConstraint
// failure with the offending instruction's source location attached.
type EncodingError struct {
	Line    parser.Line
	Message string
	Wrapped error
}

func (e *EncodingError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Line.Pos(), e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Line.Pos(), e.Message)
}

func (e *EncodingError) Unwrap() error { return e.Wrapped }

// NewEncodingError creates an EncodingError anchored at inst's source line.
func NewEncodingError(inst *parser.Instruction, message string) *EncodingError {
	return &EncodingError{Line: inst.Line, Message: message}
}

// WrapEncodingError wraps err with inst's source location unless it is
// already an EncodingError.
func WrapEncodingError(inst *parser.Instruction, err error) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EncodingError); ok {
		return ee
	}
	return &EncodingError{Line: inst.Line, Message: "failed to encode instruction", Wrapped: err}
}
