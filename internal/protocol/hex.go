package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DecodeHex converts pairs of hex digits into bytes, preserving order. Odd
// length input is rejected rather than truncated.
func DecodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d digits", ErrOddLength, len(s))
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			idx := strings.IndexByte(s, byte(invalid))
			return nil, fmt.Errorf("%w: %q at %d", ErrInvalidHex, byte(invalid), idx)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return out, nil
}

// EncodeHex renders b as upper-case hex digits.
func EncodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
