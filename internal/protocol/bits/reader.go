package bits

const byteBits = 8

// Reader is a forward-only cursor over a byte buffer that extracts
// big-endian (MSB-first) bit fields of arbitrary width and position.
type Reader struct {
	buf    []byte
	offset int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bits consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Len returns the total number of bits in the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf) * byteBits
}

func (r *Reader) Remaining() int {
	return r.Len() - r.offset
}

func (r *Reader) Exhausted() bool {
	return r.offset >= r.Len()
}

// PaddingOnly reports whether every unread bit is zero. An exhausted reader
// is trivially padding-only.
func (r *Reader) PaddingOnly() bool {
	if r.Exhausted() {
		return true
	}
	idx := r.offset / byteBits
	if r.buf[idx]&(0xFF>>(r.offset%byteBits)) != 0 {
		return false
	}
	for _, b := range r.buf[idx+1:] {
		if b != 0 {
			return false
		}
	}
	return true
}

// ReadUint8 consumes n bits (1..8) and returns them right-aligned.
func (r *Reader) ReadUint8(n int) (uint8, error) {
	if n < 1 || n > 8 {
		return 0, ErrFieldWidth
	}
	v, err := r.read(n)
	return uint8(v), err
}

// ReadUint16 consumes n bits (1..16) and returns them right-aligned.
func (r *Reader) ReadUint16(n int) (uint16, error) {
	if n < 1 || n > 16 {
		return 0, ErrFieldWidth
	}
	return r.read(n)
}

func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadUint8(1)
	return v == 1, err
}

// read gathers n bits into a 16-bit accumulator. The cursor only moves once
// all n bits are available.
func (r *Reader) read(n int) (uint16, error) {
	if n > r.Remaining() {
		return 0, ErrExhausted
	}

	var acc uint16
	offset := r.offset
	for consumed := 0; consumed < n; {
		b := r.buf[offset/byteBits]
		bitIndex := offset % byteBits
		take := min(byteBits-bitIndex, n-consumed)

		shift := byteBits - bitIndex - take
		mask := byte(1<<take - 1)
		acc = acc<<take | uint16((b>>shift)&mask)

		consumed += take
		offset += take
	}

	r.offset = offset
	return acc, nil
}
