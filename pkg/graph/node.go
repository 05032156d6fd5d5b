package graph

import (
	"fmt"
	"slices"
)

// DefaultNodeWidth is the width given to new nodes.
const DefaultNodeWidth float32 = 200

// Position is a node's location on the canvas. The interaction layer owns
// it; the graph only carries it so it can be persisted.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Node is a graph vertex with its own pins and an ordered list of props.
//
// Every pin in Pins has a [NodeAttachment] pointing back to this node, and
// every prop in Props reports this node from [PropBase.Node].
type Node struct {
	id ID

	Width      float32
	HeaderText string
	// NodeTypeID is the catalog node type this node was created from.
	// It is empty for ad-hoc nodes.
	NodeTypeID string
	Position   Position

	pins     []*Pin
	props    []Prop
	incoming []*Link
	outgoing []*Link
}

// NewNode creates a node with a fresh id.
func NewNode(ids *IDAllocator) *Node {
	return RestoreNode(ids.Next())
}

// RestoreNode creates a node with a persisted id. It is intended for
// deserialization; interactive code should use [NewNode].
func RestoreNode(id ID) *Node {
	return &Node{
		id:         id,
		Width:      DefaultNodeWidth,
		HeaderText: fmt.Sprintf("Node #%d", id),
	}
}

func (n *Node) ID() ID     { return n.id }
func (n *Node) Kind() Kind { return KindNode }
func (*Node) object()      {}

// Pins returns the node's own pins in creation order.
func (n *Node) Pins() []*Pin { return slices.Clone(n.pins) }

// Props returns the node's props in creation order.
func (n *Node) Props() []Prop { return slices.Clone(n.props) }

// IncomingLinks returns links whose destination pin belongs to this node.
func (n *Node) IncomingLinks() []*Link { return slices.Clone(n.incoming) }

// OutgoingLinks returns links whose source pin belongs to this node.
func (n *Node) OutgoingLinks() []*Link { return slices.Clone(n.outgoing) }

// FindProp returns the prop created from the given catalog prop type id.
func (n *Node) FindProp(propTypeID string) (Prop, bool) {
	for _, p := range n.props {
		if p.Base().PropTypeID == propTypeID {
			return p, true
		}
	}
	return nil, false
}

// AllPins returns the node's pins followed by the pins of each prop.
func (n *Node) AllPins() []*Pin {
	all := slices.Clone(n.pins)
	for _, p := range n.props {
		all = append(all, p.Base().pins...)
	}
	return all
}

// Label is a short human-readable description used in logs.
func (n *Node) Label() string {
	return fmt.Sprintf("node#%d(%s)", n.id, n.HeaderText)
}
