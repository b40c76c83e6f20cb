package packet

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("packet: truncated packet")
	ErrUnknownType    = errors.New("packet: unknown type id")
	ErrUnknownLength  = errors.New("packet: unknown length mode")
	ErrLengthMismatch = errors.New("packet: sub-packets overrun declared length")
	ErrEmptyOperator  = errors.New("packet: operator without sub-packets")
	ErrOperandCount   = errors.New("packet: comparison needs exactly two operands")
	ErrTooDeep        = errors.New("packet: nesting too deep")
)

// DecodeError reports the bit offset and nesting depth of the innermost
// packet whose decode failed.
type DecodeError struct {
	Offset int
	Depth  int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("packet: decode at bit %d (depth %d): %v", e.Offset, e.Depth, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
