package packet

// Value evaluates the expression rooted at p. Sums and products wrap modulo
// 2^64. Packets built through NewOperator always carry the arity each
// operator needs, so evaluation cannot fail.
func (p Packet) Value() uint64 {
	switch p.kind {
	case KindLiteral:
		return p.literal.Value
	case KindSum:
		var sum uint64
		for _, c := range p.children {
			sum += c.Value()
		}
		return sum
	case KindProduct:
		product := uint64(1)
		for _, c := range p.children {
			product *= c.Value()
		}
		return product
	case KindMinimum:
		return p.fold(func(a, b uint64) uint64 { return min(a, b) })
	case KindMaximum:
		return p.fold(func(a, b uint64) uint64 { return max(a, b) })
	case KindGreater:
		return compare(p.children, func(a, b uint64) bool { return a > b })
	case KindLess:
		return compare(p.children, func(a, b uint64) bool { return a < b })
	case KindEqual:
		return compare(p.children, func(a, b uint64) bool { return a == b })
	}
	return 0
}

func (p Packet) fold(pick func(a, b uint64) uint64) uint64 {
	if len(p.children) == 0 {
		return 0
	}
	acc := p.children[0].Value()
	for _, c := range p.children[1:] {
		acc = pick(acc, c.Value())
	}
	return acc
}

func compare(children []Packet, holds func(a, b uint64) bool) uint64 {
	if len(children) < 2 {
		return 0
	}
	if holds(children[0].Value(), children[1].Value()) {
		return 1
	}
	return 0
}
