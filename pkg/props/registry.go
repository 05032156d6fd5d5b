package props

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
)

// Constructor returns a new, unattached prop variant with default data.
type Constructor func() graph.Prop

// PinCreator is implemented by variants that own pins.
type PinCreator interface {
	// CreatePins creates the variant's pins with fresh ids. It is called
	// once, after the prop is attached, and only for live creation.
	CreatePins(ids *graph.IDAllocator)
}

// Registry maps type tags to prop constructors.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Default returns a registry with every built-in variant registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(TagFloat, func() graph.Prop { return NewFloat() })
	r.Register(TagInteger, func() graph.Prop { return NewInteger() })
	r.Register(TagSelect, func() graph.Prop { return NewSelect() })
	r.Register(TagThumbnail, func() graph.Prop { return NewThumbnail() })
	r.Register(TagInputText, func() graph.Prop { return NewText(false) })
	r.Register(TagInputTextMultiline, func() graph.Prop { return NewText(true) })
	r.Register(TagTest, func() graph.Prop { return NewTest() })
	return r
}

// Register adds a constructor under tag. It panics if the tag is already
// registered or the constructor is nil.
func (r *Registry) Register(tag string, c Constructor) {
	if c == nil {
		panic("props: nil constructor for " + tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctors[tag]; dup {
		panic(fmt.Sprintf("props: tag %q already registered", tag))
	}
	r.ctors[tag] = c
}

// New constructs the variant registered under tag and attaches it to n
// with the given id. It returns an UNKNOWN_PROP_TYPE error if the tag is
// not registered; n is left untouched in that case.
func (r *Registry) New(tag string, id graph.ID, n *graph.Node) (graph.Prop, error) {
	r.mu.RLock()
	c, ok := r.ctors[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownPropType, "unknown prop class %q", tag)
	}
	p := c()
	p.Base().Name = p.DefaultName()
	graph.AttachProp(p, id, n)
	return p, nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.ctors))
	for t := range r.ctors {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
