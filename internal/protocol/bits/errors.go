package bits

import "errors"

var (
	ErrFieldWidth     = errors.New("bits: field width out of range")
	ErrExhausted      = errors.New("bits: stream exhausted")
	ErrVarintOverflow = errors.New("bits: varint overflows 64 bits")
)
