package packet

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Node is the JSON view of a packet tree.
type Node struct {
	Version  uint8  `json:"version"`
	Kind     string `json:"kind"`
	Value    uint64 `json:"value"`
	Groups   int    `json:"groups,omitempty"`
	Children []Node `json:"children,omitempty"`
}

func (p Packet) Node() Node {
	n := Node{
		Version: p.version,
		Kind:    p.kind.String(),
		Value:   p.Value(),
	}
	if p.kind == KindLiteral {
		n.Groups = p.literal.Groups
	}
	if len(p.children) > 0 {
		n.Children = make([]Node, 0, len(p.children))
		for _, c := range p.children {
			n.Children = append(n.Children, c.Node())
		}
	}
	return n
}

func (p Packet) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Node())
}

// Tree converts top-level packets to their JSON view.
func Tree(packets []Packet) []Node {
	out := make([]Node, 0, len(packets))
	for _, p := range packets {
		out = append(out, p.Node())
	}
	return out
}

// Format writes an indented, depth-first listing of the packet trees.
func Format(w io.Writer, packets []Packet) error {
	for _, p := range packets {
		if err := format(w, p, 0); err != nil {
			return err
		}
	}
	return nil
}

func format(w io.Writer, p Packet, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if p.kind == KindLiteral {
		_, err = fmt.Fprintf(w, "%sv%d literal %d\n", indent, p.version, p.literal.Value)
	} else {
		_, err = fmt.Fprintf(w, "%sv%d %s = %d\n", indent, p.version, p.kind, p.Value())
	}
	if err != nil {
		return err
	}
	for _, c := range p.children {
		if err := format(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
