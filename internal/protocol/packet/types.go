package packet

import (
	"fmt"
	"slices"

	"github.com/danmuck/bitsctl/internal/protocol/bits"
)

// Kind is the packet variant selected by the 3-bit type id.
type Kind uint8

const (
	KindSum Kind = iota
	KindProduct
	KindMinimum
	KindMaximum
	KindLiteral
	KindGreater
	KindLess
	KindEqual
)

var kindNames = [...]string{
	KindSum:     "sum",
	KindProduct: "product",
	KindMinimum: "minimum",
	KindMaximum: "maximum",
	KindLiteral: "literal",
	KindGreater: "greater",
	KindLess:    "less",
	KindEqual:   "equal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) IsOperator() bool {
	return k <= KindEqual && k != KindLiteral
}

func (k Kind) IsComparison() bool {
	return k == KindGreater || k == KindLess || k == KindEqual
}

// KindFromTypeID maps a wire type id onto its packet kind.
func KindFromTypeID(id uint8) (Kind, error) {
	if id > uint8(KindEqual) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	return Kind(id), nil
}

// Packet is one immutable node of a decoded transmission. Operator packets
// own their children exclusively; literal packets are leaves.
type Packet struct {
	version  uint8
	kind     Kind
	literal  bits.Varint
	children []Packet
}

func NewLiteral(version uint8, v bits.Varint) Packet {
	return Packet{version: version, kind: KindLiteral, literal: v}
}

// NewOperator builds an operator packet, enforcing the arity the evaluator
// relies on.
func NewOperator(version uint8, kind Kind, children ...Packet) (Packet, error) {
	if !kind.IsOperator() {
		return Packet{}, fmt.Errorf("%w: %s is not an operator", ErrUnknownType, kind)
	}
	if len(children) == 0 {
		return Packet{}, fmt.Errorf("%w: %s", ErrEmptyOperator, kind)
	}
	if kind.IsComparison() && len(children) != 2 {
		return Packet{}, fmt.Errorf("%w: %s has %d", ErrOperandCount, kind, len(children))
	}
	return Packet{version: version, kind: kind, children: slices.Clone(children)}, nil
}

func (p Packet) Version() uint8 {
	return p.version
}

func (p Packet) Kind() Kind {
	return p.kind
}

// Literal returns the literal payload when p is a literal packet.
func (p Packet) Literal() (bits.Varint, bool) {
	return p.literal, p.kind == KindLiteral
}

// Children returns a copy of the sub-packet list.
func (p Packet) Children() []Packet {
	return slices.Clone(p.children)
}

// Len returns the number of direct sub-packets.
func (p Packet) Len() int {
	return len(p.children)
}
