package packet

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/bitsctl/internal/protocol/bits"
	"github.com/google/go-cmp/cmp"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex %q: %v", s, err)
	}
	return b
}

// pack turns a string of '0'/'1' (spaces ignored) into MSB-first bytes,
// zero-padding the final byte.
func pack(t *testing.T, s string) []byte {
	t.Helper()
	s = strings.ReplaceAll(s, " ", "")
	out := make([]byte, (len(s)+7)/8)
	for i, c := range s {
		switch c {
		case '1':
			out[i/8] |= 0x80 >> (i % 8)
		case '0':
		default:
			t.Fatalf("bad bit %q at %d", c, i)
		}
	}
	return out
}

func decodeHex(t *testing.T, s string) []Packet {
	t.Helper()
	packets, err := Decode(mustHex(t, s), DefaultLimits())
	if err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return packets
}

func TestDecodeLiteralPacket(t *testing.T) {
	packets := decodeHex(t, "D2FE28")
	if len(packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(packets))
	}
	p := packets[0]
	if p.Version() != 6 || p.Kind() != KindLiteral {
		t.Fatalf("unexpected header: version=%d kind=%s", p.Version(), p.Kind())
	}
	lit, ok := p.Literal()
	if !ok {
		t.Fatalf("expected literal payload")
	}
	if lit != (bits.Varint{Value: 2021, Groups: 3}) {
		t.Fatalf("unexpected literal: %+v", lit)
	}
}

func TestDecodeTotalLengthOperator(t *testing.T) {
	packets := decodeHex(t, "38006F45291200")
	if len(packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(packets))
	}
	want := []Node{{
		Version: 1,
		Kind:    "less",
		Value:   1,
		Children: []Node{
			{Version: 6, Kind: "literal", Value: 10, Groups: 1},
			{Version: 2, Kind: "literal", Value: 20, Groups: 2},
		},
	}}
	if diff := cmp.Diff(want, Tree(packets)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePacketCountOperator(t *testing.T) {
	packets := decodeHex(t, "EE00D40C823060")
	want := []Node{{
		Version: 7,
		Kind:    "maximum",
		Value:   3,
		Children: []Node{
			{Version: 2, Kind: "literal", Value: 1, Groups: 1},
			{Version: 4, Kind: "literal", Value: 2, Groups: 1},
			{Version: 1, Kind: "literal", Value: 3, Groups: 1},
		},
	}}
	if diff := cmp.Diff(want, Tree(packets)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStopsExactlyAtPacketBoundary(t *testing.T) {
	// v3 literal with two groups fills exactly 16 bits
	packets := decodeHex(t, "72AA")
	if len(packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(packets))
	}
	if packets[0].Version() != 3 || packets[0].Value() != 90 {
		t.Fatalf("unexpected packet: version=%d value=%d", packets[0].Version(), packets[0].Value())
	}
}

func TestDecodeEmptyAndPaddingOnly(t *testing.T) {
	for _, in := range [][]byte{nil, {0x00}, {0x00, 0x00, 0x00}} {
		packets, err := Decode(in, DefaultLimits())
		if err != nil {
			t.Fatalf("decode %x: %v", in, err)
		}
		if len(packets) != 0 {
			t.Fatalf("decode %x: expected no packets, got %d", in, len(packets))
		}
	}
}

func TestDecodeTruncatedHeaderFails(t *testing.T) {
	// the literal ends at bit 21, the trailing 111 starts a header that never completes
	_, err := Decode(mustHex(t, "D2FE2F"), DefaultLimits())
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if !errors.Is(err, bits.ErrExhausted) {
		t.Fatalf("expected wrapped bits.ErrExhausted, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Offset != 21 || de.Depth != 0 {
		t.Fatalf("unexpected error position: offset=%d depth=%d", de.Offset, de.Depth)
	}
}

func TestDecodeTruncatedSubPacketReportsInnermostOffset(t *testing.T) {
	// count mode announcing two literals, only one present
	in := pack(t, "001 000 1 00000000010 010 100 00111 1")
	_, err := Decode(in, DefaultLimits())
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Offset != 29 || de.Depth != 1 {
		t.Fatalf("unexpected error position: offset=%d depth=%d", de.Offset, de.Depth)
	}
}

func TestDecodeTotalLengthBeyondBuffer(t *testing.T) {
	in := pack(t, "001 000 0 000000011111111 100 100 00001")
	_, err := Decode(in, DefaultLimits())
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeSubPacketOverrunsLength(t *testing.T) {
	// declared 10 bits, the single literal child takes 11
	in := pack(t, "000 000 0 000000000001010 000 100 00001")
	_, err := Decode(in, DefaultLimits())
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestDecodeEmptyOperatorRejected(t *testing.T) {
	_, err := Decode(mustHex(t, "220000"), DefaultLimits())
	if !errors.Is(err, ErrEmptyOperator) {
		t.Fatalf("expected ErrEmptyOperator, got %v", err)
	}
}

func TestDecodeComparisonArityRejected(t *testing.T) {
	in := pack(t, "000 101 1 00000000011"+strings.Repeat(" 000 100 00001", 3))
	_, err := Decode(in, DefaultLimits())
	if !errors.Is(err, ErrOperandCount) {
		t.Fatalf("expected ErrOperandCount, got %v", err)
	}
}

func TestDecodeVarintOverflowPropagates(t *testing.T) {
	in := pack(t, "000 100 10001"+strings.Repeat(" 10000", 15)+" 00000")
	_, err := Decode(in, DefaultLimits())
	if !errors.Is(err, bits.ErrVarintOverflow) {
		t.Fatalf("expected bits.ErrVarintOverflow, got %v", err)
	}
	if errors.Is(err, ErrTruncated) {
		t.Fatalf("overflow must not be reported as truncation: %v", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	in := mustHex(t, "8A004A801A8002F478")
	if _, err := Decode(in, Limits{MaxDepth: 4}); err != nil {
		t.Fatalf("decode within limit: %v", err)
	}
	_, err := Decode(in, Limits{MaxDepth: 3})
	if !errors.Is(err, ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Depth != 3 {
		t.Fatalf("unexpected depth error: %v", err)
	}
}

func TestDecodeOneLeavesCursorAfterPacket(t *testing.T) {
	r := bits.NewReader(mustHex(t, "D2FE28"))
	p, err := DecodeOne(r, DefaultLimits())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Value() != 2021 || r.Offset() != 21 {
		t.Fatalf("unexpected result: value=%d offset=%d", p.Value(), r.Offset())
	}
}

func TestKindFromTypeID(t *testing.T) {
	for id := uint8(0); id <= 7; id++ {
		k, err := KindFromTypeID(id)
		if err != nil {
			t.Fatalf("type id %d: %v", id, err)
		}
		if uint8(k) != id {
			t.Fatalf("type id %d mapped to %s", id, k)
		}
	}
	if _, err := KindFromTypeID(8); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if KindLiteral.IsOperator() || !KindSum.IsOperator() || !KindEqual.IsComparison() {
		t.Fatalf("kind predicates are inconsistent")
	}
	if Kind(9).String() != "kind(9)" {
		t.Fatalf("unexpected name for unknown kind: %s", Kind(9))
	}
}
