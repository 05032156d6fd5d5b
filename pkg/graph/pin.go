package graph

import (
	"fmt"
	"strings"
)

// PinKind is the direction of a pin.
type PinKind int

const (
	PinInput PinKind = iota
	PinOutput
)

// String returns "INPUT" or "OUTPUT".
func (k PinKind) String() string {
	switch k {
	case PinInput:
		return "INPUT"
	case PinOutput:
		return "OUTPUT"
	}
	return fmt.Sprintf("PinKind(%d)", int(k))
}

// ParsePinKind parses the upper-case form written by [PinKind.String].
func ParsePinKind(s string) (PinKind, error) {
	switch strings.ToUpper(s) {
	case "INPUT":
		return PinInput, nil
	case "OUTPUT":
		return PinOutput, nil
	}
	return 0, fmt.Errorf("unknown pin kind %q", s)
}

// PinType separates control-flow pins from data pins.
type PinType int

const (
	PinFlow PinType = iota
	PinData
)

// String returns "FLOW" or "DATA".
func (t PinType) String() string {
	switch t {
	case PinFlow:
		return "FLOW"
	case PinData:
		return "DATA"
	}
	return fmt.Sprintf("PinType(%d)", int(t))
}

// ParsePinType parses the upper-case form written by [PinType.String].
func ParsePinType(s string) (PinType, error) {
	switch strings.ToUpper(s) {
	case "FLOW":
		return PinFlow, nil
	case "DATA":
		return PinData, nil
	}
	return 0, fmt.Errorf("unknown pin type %q", s)
}

// Attachment is the owner of a pin: either a [NodeAttachment] or a
// [PropAttachment]. No other implementations exist.
type Attachment interface {
	// Node returns the node that ultimately owns the pin.
	Node() *Node
	attachment()
}

// NodeAttachment attaches a pin directly to a node.
type NodeAttachment struct{ Owner *Node }

// PropAttachment attaches a pin to a prop.
type PropAttachment struct{ Owner Prop }

func (a NodeAttachment) Node() *Node { return a.Owner }
func (a PropAttachment) Node() *Node { return a.Owner.Base().node }

func (NodeAttachment) attachment() {}
func (PropAttachment) attachment() {}

// Pin is a typed connection point.
//
// A pin never changes owner after construction.
type Pin struct {
	id         ID
	kind       PinKind
	typ        PinType
	attachment Attachment
}

// NewPin creates a pin with a fresh id and appends it to the owner's pin list.
func NewPin(ids *IDAllocator, owner Attachment, kind PinKind, typ PinType) *Pin {
	return RestorePin(ids.Next(), owner, kind, typ)
}

// RestorePin creates a pin with a persisted id and appends it to the owner's
// pin list. It panics when owner is nil or not a known attachment.
func RestorePin(id ID, owner Attachment, kind PinKind, typ PinType) *Pin {
	p := &Pin{id: id, kind: kind, typ: typ, attachment: owner}
	switch a := owner.(type) {
	case NodeAttachment:
		a.Owner.pins = append(a.Owner.pins, p)
	case PropAttachment:
		b := a.Owner.Base()
		b.pins = append(b.pins, p)
	default:
		panic(fmt.Sprintf("graph: unsupported pin attachment %T", owner))
	}
	return p
}

func (p *Pin) ID() ID     { return p.id }
func (p *Pin) Kind() Kind { return KindPin }
func (*Pin) object()      {}

// PinKind reports whether the pin is an input or an output.
func (p *Pin) PinKind() PinKind { return p.kind }

// Type reports whether the pin carries flow or data.
func (p *Pin) Type() PinType { return p.typ }

// Attachment returns the pin's owner.
func (p *Pin) Attachment() Attachment { return p.attachment }

// Node returns the node that owns the pin, directly or through a prop.
func (p *Pin) Node() *Node { return p.attachment.Node() }

// Label is a short human-readable description used in logs.
func (p *Pin) Label() string {
	return fmt.Sprintf("pin#%d(%s %s)", p.id, p.kind, p.typ)
}
