package graph

import "strconv"

// ID identifies an object. Ids are unique across all object kinds in one graph.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Kind tags the concrete category of an [Object].
type Kind int

const (
	KindNode Kind = iota
	KindPin
	KindLink
	KindProp
)

var kindNames = [...]string{
	KindNode: "NODE",
	KindPin:  "PIN",
	KindLink: "LINK",
	KindProp: "PROP",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Object is implemented by every graph entity.
//
// The interface is sealed by an unexported method. Prop variants outside this
// package satisfy it by embedding [PropBase].
type Object interface {
	ID() ID
	Kind() Kind
	object()
}

// IDAllocator issues ids for live object creation.
//
// The zero value is not usable; call [NewIDAllocator].
type IDAllocator struct {
	next ID
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh id. Successive calls return strictly increasing values.
func (a *IDAllocator) Next() ID {
	id := a.next
	a.next++
	return id
}

// Peek reports the id the next call to [IDAllocator.Next] will return.
func (a *IDAllocator) Peek() ID { return a.next }

// ResetFloor moves the counter to maxSeen+1.
//
// It is meant to be called exactly once, right after a bulk load has restored
// objects with persisted ids and before any new object is created.
func (a *IDAllocator) ResetFloor(maxSeen ID) {
	a.next = maxSeen + 1
}
