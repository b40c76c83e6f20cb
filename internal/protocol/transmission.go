package protocol

import (
	"fmt"
	"strings"

	"github.com/danmuck/bitsctl/internal/protocol/packet"
)

// Limits constrains decode memory and recursion.
type Limits struct {
	MaxHexDigits int
	Packet       packet.Limits
}

func DefaultLimits() Limits {
	return Limits{
		MaxHexDigits: 64 * 1024,
		Packet:       packet.DefaultLimits(),
	}
}

// Transmission is a fully decoded BITS transmission.
type Transmission struct {
	buf     []byte
	packets []packet.Packet
}

// Parse decodes one line of hex text into its packet trees. Surrounding
// whitespace is ignored.
func Parse(text string, limits Limits) (*Transmission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if limits.MaxHexDigits > 0 && len(text) > limits.MaxHexDigits {
		return nil, fmt.Errorf("%w: %d digits, limit %d", ErrInputTooLarge, len(text), limits.MaxHexDigits)
	}

	buf, err := DecodeHex(text)
	if err != nil {
		return nil, err
	}
	packets, err := packet.Decode(buf, limits.Packet)
	if err != nil {
		return nil, err
	}
	return &Transmission{buf: buf, packets: packets}, nil
}

func (t *Transmission) Packets() []packet.Packet {
	return append([]packet.Packet(nil), t.packets...)
}

// Bits returns the size of the decoded buffer, padding included.
func (t *Transmission) Bits() int {
	return len(t.buf) * 8
}

// Hex re-encodes the decoded buffer in canonical upper case.
func (t *Transmission) Hex() string {
	return EncodeHex(t.buf)
}

// VersionSum sums the version of every packet across all top-level trees.
func (t *Transmission) VersionSum() uint64 {
	return packet.VersionSum(t.packets...)
}

// Evaluate computes the value of the first top-level packet.
func (t *Transmission) Evaluate() (uint64, error) {
	if len(t.packets) == 0 {
		return 0, ErrNoPackets
	}
	return t.packets[0].Value(), nil
}

func (t *Transmission) Stats() packet.Stats {
	return packet.Collect(t.packets)
}
