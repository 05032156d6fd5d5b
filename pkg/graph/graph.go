package graph

import (
	"fmt"
	"slices"
)

// Graph owns the authoritative collections of nodes, pins, props and links,
// plus an index of every live object by id.
//
// Graph is the only mutator of these collections. Other components read them
// or request mutation through [Graph.Add] and [Graph.Remove].
type Graph struct {
	nodes []*Node
	pins  []*Pin
	props []Prop
	links []*Link
	index map[ID]Object
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[ID]Object)}
}

// Add registers obj and, for nodes and props, everything they own.
//
// Adding a node adds its pins, then each prop followed by that prop's pins.
// Adding a prop or pin registers only that object; its owner is not re-added.
// Adding a link registers only the link, which is already connected to its
// endpoint nodes by construction.
//
// Add panics if obj is nil, of an unsupported type, or shares an id with an
// object already in the graph. These are programmer errors.
func (g *Graph) Add(obj Object) {
	switch o := obj.(type) {
	case *Node:
		g.register(o)
		g.nodes = append(g.nodes, o)
		for _, p := range o.pins {
			g.Add(p)
		}
		for _, p := range o.props {
			g.Add(p)
		}
	case *Pin:
		g.register(o)
		g.pins = append(g.pins, o)
	case *Link:
		g.register(o)
		g.links = append(g.links, o)
	case Prop:
		g.register(o)
		g.props = append(g.props, o)
		for _, p := range o.Base().pins {
			g.Add(p)
		}
	default:
		panic(fmt.Sprintf("graph: cannot add unsupported object %T", obj))
	}
}

func (g *Graph) register(obj Object) {
	if existing, ok := g.index[obj.ID()]; ok {
		panic(fmt.Sprintf("graph: duplicate id %d (%s already registered as %s)", obj.ID(), obj.Kind(), existing.Kind()))
	}
	g.index[obj.ID()] = obj
}

// Remove unregisters obj and everything it owns.
//
// Removing a node removes its pins, its props and their pins, and removes
// every link touching any of those pins. Each such link is disconnected from
// both endpoint nodes first. Removing a prop or a pin on its own does the
// same for the links on its pins and also detaches it from its owner, so
// the node no longer lists it. Removing a link disconnects it, then removes
// it.
//
// Removing an object that is not in the graph is a no-op. Remove panics if
// obj is nil or of an unsupported type.
func (g *Graph) Remove(obj Object) {
	switch o := obj.(type) {
	case *Node:
		if !g.Contains(o) {
			return
		}
		g.removeLinks(func(l *Link) bool { return l.src.Node() == o || l.dst.Node() == o })
		for _, p := range o.pins {
			g.dropPin(p)
		}
		for _, p := range o.props {
			g.dropProp(p)
		}
		g.nodes = slices.DeleteFunc(g.nodes, func(x *Node) bool { return x == o })
		delete(g.index, o.id)
	case *Pin:
		if !g.Contains(o) {
			return
		}
		g.removeLinks(func(l *Link) bool { return l.src == o || l.dst == o })
		switch a := o.attachment.(type) {
		case NodeAttachment:
			a.Owner.pins = slices.DeleteFunc(a.Owner.pins, func(x *Pin) bool { return x == o })
		case PropAttachment:
			b := a.Owner.Base()
			b.pins = slices.DeleteFunc(b.pins, func(x *Pin) bool { return x == o })
		}
		g.dropPin(o)
	case *Link:
		if !g.Contains(o) {
			return
		}
		o.Disconnect()
		g.links = slices.DeleteFunc(g.links, func(x *Link) bool { return x == o })
		delete(g.index, o.id)
	case Prop:
		if !g.Contains(o) {
			return
		}
		b := o.Base()
		g.removeLinks(func(l *Link) bool { return ownedBy(l.src, o) || ownedBy(l.dst, o) })
		if b.node != nil {
			b.node.props = slices.DeleteFunc(b.node.props, func(x Prop) bool { return x == o })
		}
		g.dropProp(o)
	default:
		panic(fmt.Sprintf("graph: cannot remove unsupported object %T", obj))
	}
}

// removeLinks removes every live link matching touches.
func (g *Graph) removeLinks(touches func(*Link) bool) {
	for _, l := range g.Links() {
		if touches(l) {
			g.Remove(l)
		}
	}
}

// dropPin unregisters p without detaching it from its owner.
func (g *Graph) dropPin(p *Pin) {
	g.pins = slices.DeleteFunc(g.pins, func(x *Pin) bool { return x == p })
	delete(g.index, p.id)
}

// dropProp unregisters p and its pins without detaching them from their
// owners.
func (g *Graph) dropProp(p Prop) {
	for _, pin := range p.Base().pins {
		g.dropPin(pin)
	}
	g.props = slices.DeleteFunc(g.props, func(x Prop) bool { return x == p })
	delete(g.index, p.ID())
}

func ownedBy(pin *Pin, p Prop) bool {
	a, ok := pin.attachment.(PropAttachment)
	return ok && a.Owner == p
}

// Contains reports whether obj itself is live in the graph.
func (g *Graph) Contains(obj Object) bool {
	existing, ok := g.index[obj.ID()]
	return ok && existing == obj
}

// Find returns the live object with the given id, of any kind.
func (g *Graph) Find(id ID) (Object, bool) {
	obj, ok := g.index[id]
	return obj, ok
}

// FindNode returns the node with the given id.
func (g *Graph) FindNode(id ID) (*Node, bool) {
	n, ok := g.index[id].(*Node)
	return n, ok
}

// FindPin returns the pin with the given id.
func (g *Graph) FindPin(id ID) (*Pin, bool) {
	p, ok := g.index[id].(*Pin)
	return p, ok
}

// FindProp returns the prop with the given id.
func (g *Graph) FindProp(id ID) (Prop, bool) {
	p, ok := g.index[id].(Prop)
	return p, ok
}

// FindLink returns the link with the given id.
func (g *Graph) FindLink(id ID) (*Link, bool) {
	l, ok := g.index[id].(*Link)
	return l, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Pins returns all pins, node and prop pins alike, in insertion order.
func (g *Graph) Pins() []*Pin { return slices.Clone(g.pins) }

// Props returns all props in insertion order.
func (g *Graph) Props() []Prop { return slices.Clone(g.props) }

// Links returns all links in insertion order.
func (g *Graph) Links() []*Link { return slices.Clone(g.links) }

// Len returns the number of live objects of all kinds.
func (g *Graph) Len() int { return len(g.index) }

// MaxID returns the largest id in the graph, or 0 when it is empty.
func (g *Graph) MaxID() ID {
	var top ID
	for id := range g.index {
		if id > top {
			top = id
		}
	}
	return top
}
