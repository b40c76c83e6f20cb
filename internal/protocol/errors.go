package protocol

import "errors"

var (
	ErrEmptyInput    = errors.New("protocol: empty input")
	ErrOddLength     = errors.New("protocol: odd-length hex input")
	ErrInvalidHex    = errors.New("protocol: invalid hex digit")
	ErrInputTooLarge = errors.New("protocol: input too large")
	ErrNoPackets     = errors.New("protocol: transmission has no packets")
)
