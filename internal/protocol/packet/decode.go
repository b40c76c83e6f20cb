package packet

import (
	"errors"
	"fmt"

	"github.com/danmuck/bitsctl/internal/protocol/bits"
)

const (
	versionBits     = 3
	typeIDBits      = 3
	lengthModeBits  = 1
	totalLengthBits = 15
	packetCountBits = 11

	// HeaderBits is the size of the version and type id prefix every packet
	// starts with.
	HeaderBits = versionBits + typeIDBits
)

const (
	lengthModeTotalBits   = 0
	lengthModePacketCount = 1
)

// Limits constrains decode resource use.
type Limits struct {
	// MaxDepth is the maximum number of tree levels; zero disables the check.
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{MaxDepth: 512}
}

// Decode reads top-level packets until only zero padding remains. Running
// out of bits inside a started packet is an error.
func Decode(buf []byte, limits Limits) ([]Packet, error) {
	r := bits.NewReader(buf)
	packets := make([]Packet, 0, 1)
	for !r.PaddingOnly() {
		p, err := DecodeOne(r, limits)
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	return packets, nil
}

// DecodeOne decodes a single packet, and all of its sub-packets, at the
// reader's current offset.
func DecodeOne(r *bits.Reader, limits Limits) (Packet, error) {
	d := decoder{r: r, limits: limits}
	return d.packet(0)
}

type decoder struct {
	r      *bits.Reader
	limits Limits
}

func (d *decoder) packet(depth int) (Packet, error) {
	start := d.r.Offset()
	p, err := d.decodePacket(depth)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return Packet{}, err
		}
		return Packet{}, &DecodeError{Offset: start, Depth: depth, Err: err}
	}
	return p, nil
}

func (d *decoder) decodePacket(depth int) (Packet, error) {
	if d.limits.MaxDepth > 0 && depth >= d.limits.MaxDepth {
		return Packet{}, fmt.Errorf("%w: limit %d", ErrTooDeep, d.limits.MaxDepth)
	}

	version, err := d.read8("version", versionBits)
	if err != nil {
		return Packet{}, err
	}
	typeID, err := d.read8("type id", typeIDBits)
	if err != nil {
		return Packet{}, err
	}
	kind, err := KindFromTypeID(typeID)
	if err != nil {
		return Packet{}, err
	}

	if kind == KindLiteral {
		v, err := bits.DecodeVarint(d.r)
		if err != nil {
			return Packet{}, fieldError("literal", err)
		}
		return NewLiteral(version, v), nil
	}

	mode, err := d.read8("length mode", lengthModeBits)
	if err != nil {
		return Packet{}, err
	}

	var children []Packet
	switch mode {
	case lengthModeTotalBits:
		children, err = d.boundedByBits(depth)
	case lengthModePacketCount:
		children, err = d.boundedByCount(depth)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownLength, mode)
	}
	if err != nil {
		return Packet{}, err
	}
	return NewOperator(version, kind, children...)
}

func (d *decoder) boundedByBits(depth int) ([]Packet, error) {
	total, err := d.read16("total length", totalLengthBits)
	if err != nil {
		return nil, err
	}
	if int(total) > d.r.Remaining() {
		return nil, fmt.Errorf("%w: sub-packets span %d bits, %d remain", ErrTruncated, total, d.r.Remaining())
	}

	end := d.r.Offset() + int(total)
	var children []Packet
	for d.r.Offset() < end {
		child, err := d.packet(depth + 1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if d.r.Offset() != end {
		return nil, fmt.Errorf("%w: ended at bit %d, want %d", ErrLengthMismatch, d.r.Offset(), end)
	}
	return children, nil
}

func (d *decoder) boundedByCount(depth int) ([]Packet, error) {
	count, err := d.read16("packet count", packetCountBits)
	if err != nil {
		return nil, err
	}
	children := make([]Packet, 0, count)
	for range count {
		child, err := d.packet(depth + 1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func (d *decoder) read8(name string, n int) (uint8, error) {
	v, err := d.r.ReadUint8(n)
	if err != nil {
		return 0, fieldError(name, err)
	}
	return v, nil
}

func (d *decoder) read16(name string, n int) (uint16, error) {
	v, err := d.r.ReadUint16(n)
	if err != nil {
		return 0, fieldError(name, err)
	}
	return v, nil
}

func fieldError(name string, err error) error {
	if errors.Is(err, bits.ErrExhausted) {
		return fmt.Errorf("%w: %s: %w", ErrTruncated, name, err)
	}
	return fmt.Errorf("%s: %w", name, err)
}
