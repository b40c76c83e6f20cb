package packet

// Walk visits every packet breadth-first, top-level packets first. Depth is
// zero for top-level packets. Returning false from fn stops the walk.
func Walk(packets []Packet, fn func(p Packet, depth int) bool) {
	type item struct {
		p     Packet
		depth int
	}
	queue := make([]item, 0, len(packets))
	for _, p := range packets {
		queue = append(queue, item{p: p})
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if !fn(next.p, next.depth) {
			return
		}
		for _, c := range next.p.children {
			queue = append(queue, item{p: c, depth: next.depth + 1})
		}
	}
}

// VersionSum adds up the version of every packet in the given trees.
func VersionSum(packets ...Packet) uint64 {
	var sum uint64
	Walk(packets, func(p Packet, _ int) bool {
		sum += uint64(p.version)
		return true
	})
	return sum
}

// Stats summarises the shape of decoded packet trees.
type Stats struct {
	Packets   int `json:"packets"`
	Literals  int `json:"literals"`
	Operators int `json:"operators"`
	Depth     int `json:"depth"`
}

func Collect(packets []Packet) Stats {
	var s Stats
	Walk(packets, func(p Packet, depth int) bool {
		s.Packets++
		if p.kind == KindLiteral {
			s.Literals++
		} else {
			s.Operators++
		}
		s.Depth = max(s.Depth, depth+1)
		return true
	})
	return s
}
