package graph

import (
	"errors"
	"fmt"
	"slices"
)

// Link rejection reasons, returned by [CanLink] in this order of precedence.
var (
	// ErrSelfLink is returned when both ends are the same pin.
	ErrSelfLink = errors.New("cannot link a pin to itself")

	// ErrPinKind is returned when both pins are inputs or both are outputs.
	ErrPinKind = errors.New("incompatible pin kinds")

	// ErrPinType is returned when a flow pin meets a data pin.
	ErrPinType = errors.New("incompatible pin types")

	// ErrSameNode is returned when both pins are attached directly to the
	// same node.
	ErrSameNode = errors.New("cannot link pins in same node")

	// ErrSameProp is returned when both pins are attached to the same prop.
	ErrSameProp = errors.New("cannot link pins in same property")
)

// Appearance is the visual category of a link.
type Appearance int

const (
	AppearanceFlow Appearance = iota
	AppearanceData
)

// String returns "FLOW" or "DATA".
func (a Appearance) String() string {
	if a == AppearanceFlow {
		return "FLOW"
	}
	return "DATA"
}

// Link connects an output pin to an input pin.
type Link struct {
	id         ID
	src        *Pin
	dst        *Pin
	appearance Appearance
	connected  bool
}

// Orient returns the pair ordered as (output, input). The pins are swapped
// only when a is an input and b is an output; any other pair is returned as is.
func Orient(a, b *Pin) (src, dst *Pin) {
	if a.kind == PinInput && b.kind == PinOutput {
		return b, a
	}
	return a, b
}

// CanLink reports whether a link between a and b would be valid.
//
// It returns nil for a compatible pair, or the first failing rule among
// [ErrSelfLink], [ErrPinKind], [ErrPinType], [ErrSameNode] and [ErrSameProp].
// The check is symmetric, so the order of a and b does not matter. CanLink
// has no side effects and runs in constant time.
func CanLink(a, b *Pin) error {
	if a.id == b.id {
		return ErrSelfLink
	}
	if a.kind == b.kind {
		return ErrPinKind
	}
	if a.typ != b.typ {
		return ErrPinType
	}
	if na, ok := a.attachment.(NodeAttachment); ok {
		if nb, ok := b.attachment.(NodeAttachment); ok && na.Owner.id == nb.Owner.id {
			return ErrSameNode
		}
	}
	if pa, ok := a.attachment.(PropAttachment); ok {
		if pb, ok := b.attachment.(PropAttachment); ok && pa.Owner.ID() == pb.Owner.ID() {
			return ErrSameProp
		}
	}
	return nil
}

// NewLink creates and connects a link with a fresh id.
//
// The pins may be passed in either order; they are oriented with [Orient]
// first. No id is consumed when the pair is rejected.
func NewLink(ids *IDAllocator, a, b *Pin) (*Link, error) {
	if err := CanLink(a, b); err != nil {
		return nil, err
	}
	return connect(ids.Next(), a, b), nil
}

// RestoreLink creates and connects a link with a persisted id.
func RestoreLink(id ID, a, b *Pin) (*Link, error) {
	if err := CanLink(a, b); err != nil {
		return nil, fmt.Errorf("link#%d: %w", id, err)
	}
	return connect(id, a, b), nil
}

func connect(id ID, a, b *Pin) *Link {
	src, dst := Orient(a, b)
	appearance := AppearanceData
	if src.typ == PinFlow && dst.typ == PinFlow {
		appearance = AppearanceFlow
	}
	l := &Link{id: id, src: src, dst: dst, appearance: appearance}
	l.connect()
	return l
}

func (l *Link) ID() ID     { return l.id }
func (l *Link) Kind() Kind { return KindLink }
func (*Link) object()      {}

// Src returns the output end.
func (l *Link) Src() *Pin { return l.src }

// Dst returns the input end.
func (l *Link) Dst() *Pin { return l.dst }

// Appearance returns the category computed when the link was created.
func (l *Link) Appearance() Appearance { return l.appearance }

// Connected reports whether the link is registered with its endpoint nodes.
func (l *Link) Connected() bool { return l.connected }

func (l *Link) connect() {
	if n := l.src.Node(); n != nil {
		n.outgoing = append(n.outgoing, l)
	}
	if n := l.dst.Node(); n != nil {
		n.incoming = append(n.incoming, l)
	}
	l.connected = true
}

// Disconnect removes the link from the outgoing list of its source node and
// the incoming list of its destination node. Calling it again is a no-op.
func (l *Link) Disconnect() {
	if !l.connected {
		return
	}
	if n := l.src.Node(); n != nil {
		n.outgoing = removeLink(n.outgoing, l)
	}
	if n := l.dst.Node(); n != nil {
		n.incoming = removeLink(n.incoming, l)
	}
	l.connected = false
}

// Label is a short human-readable description used in logs.
func (l *Link) Label() string {
	return fmt.Sprintf("link#%d(%d->%d)", l.id, l.src.id, l.dst.id)
}

func removeLink(links []*Link, l *Link) []*Link {
	return slices.DeleteFunc(links, func(x *Link) bool { return x == l })
}
