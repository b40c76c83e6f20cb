package bits

import "fmt"

const (
	groupBits        = 5
	groupPayloadBits = 4
	continuationFlag = 0x10
	payloadMask      = 0x0F

	// overflowMask selects the accumulator bits that a further 4-bit shift
	// would push out of a uint64.
	overflowMask = uint64(payloadMask) << (64 - groupPayloadBits)
)

// Varint is a decoded literal value and the number of 5-bit groups it took.
type Varint struct {
	Value  uint64
	Groups int
}

// Bits returns the encoded width of v in bits.
func (v Varint) Bits() int {
	return v.Groups * groupBits
}

// DecodeVarint reads 5-bit groups until one with a clear continuation flag.
func DecodeVarint(r *Reader) (Varint, error) {
	var out Varint
	for {
		group, err := r.ReadUint8(groupBits)
		if err != nil {
			return Varint{}, fmt.Errorf("varint group %d: %w", out.Groups, err)
		}
		if out.Value&overflowMask != 0 {
			return Varint{}, ErrVarintOverflow
		}
		out.Value = out.Value<<groupPayloadBits | uint64(group&payloadMask)
		out.Groups++
		if group&continuationFlag == 0 {
			return out, nil
		}
	}
}
