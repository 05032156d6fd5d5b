package binding

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/graph"
)

// Handler receives a prop's new value, as returned by its Data method.
type Handler func(value any)

type subscription struct {
	id uint64
	fn Handler
}

// Bus delivers prop changes to subscribers keyed by prop id.
//
// Handlers run synchronously on the publishing goroutine, in subscription
// order. A handler may publish other props. A publish of a prop that is
// already being delivered is dropped, which stops cyclic bindings from
// recursing forever.
type Bus struct {
	mu         sync.Mutex
	subs       map[graph.ID][]subscription
	publishing map[graph.ID]bool
	nextID     uint64
	logger     *log.Logger
}

// NewBus returns an empty bus. A nil logger uses the default logger.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		subs:       make(map[graph.ID][]subscription),
		publishing: make(map[graph.ID]bool),
		logger:     logger,
	}
}

// Subscribe registers fn for changes to the prop with the given id. The
// returned function removes the subscription; calling it more than once is
// harmless.
func (b *Bus) Subscribe(propID graph.ID, fn Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[propID] = append(b.subs[propID], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs[propID] = slices.DeleteFunc(b.subs[propID], func(s subscription) bool { return s.id == id })
		if len(b.subs[propID]) == 0 {
			delete(b.subs, propID)
		}
	}
}

// Publish delivers p's current value to its subscribers.
func (b *Bus) Publish(p graph.Prop) {
	id := p.ID()

	b.mu.Lock()
	if b.publishing[id] {
		b.mu.Unlock()
		b.logger.Warn("dropping re-entrant publish, bindings form a cycle", "prop", p.Base().Label())
		return
	}
	subs := slices.Clone(b.subs[id])
	b.publishing[id] = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.publishing, id)
		b.mu.Unlock()
	}()

	value := p.Data()
	for _, s := range subs {
		s.fn(value)
	}
}

// Drop removes every subscription for the prop with the given id.
func (b *Bus) Drop(propID graph.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, propID)
}

// Subscribers returns the number of subscriptions for the prop.
func (b *Bus) Subscribers(propID graph.ID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[propID])
}
