package graph

import (
	"fmt"
	"slices"
)

// Prop is a node property. Concrete variants live in package props; they all
// embed [PropBase] and are attached to a node with [AttachProp].
type Prop interface {
	Object

	// Base exposes the fields shared by every variant.
	Base() *PropBase

	// TypeTag is the stable registry tag used to reconstruct the variant.
	TypeTag() string

	// DefaultName is used when the catalog does not name the prop.
	DefaultName() string

	// Data returns the variant's current value. The concrete type depends
	// on the variant.
	Data() any

	// MarshalData encodes the value for persistence.
	MarshalData() ([]byte, error)

	// UnmarshalData restores a value written by MarshalData.
	UnmarshalData(data []byte) error
}

// PropBase holds the state shared by every prop variant.
type PropBase struct {
	id   ID
	node *Node
	pins []*Pin

	Name string
	// PropTypeID is the catalog prop type this prop was created from.
	PropTypeID string
	// DependsOn optionally names the prop type id of another prop on the
	// same node whose value this prop is derived from.
	DependsOn string
}

func (b *PropBase) ID() ID          { return b.id }
func (b *PropBase) Kind() Kind      { return KindProp }
func (*PropBase) object()           {}
func (b *PropBase) Base() *PropBase { return b }

// Node returns the node the prop is attached to.
func (b *PropBase) Node() *Node { return b.node }

// Pins returns the prop's own pins in creation order.
func (b *PropBase) Pins() []*Pin { return slices.Clone(b.pins) }

// Label is a short human-readable description used in logs.
func (b *PropBase) Label() string {
	return fmt.Sprintf("prop#%d(%s)", b.id, b.Name)
}

// AttachProp assigns id to p and appends it to n's prop list.
//
// It panics if p is already attached to a node.
func AttachProp(p Prop, id ID, n *Node) {
	b := p.Base()
	if b.node != nil {
		panic(fmt.Sprintf("graph: prop#%d is already attached to node#%d", b.id, b.node.id))
	}
	b.id = id
	b.node = n
	n.props = append(n.props, p)
}
