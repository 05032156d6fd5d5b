package graph

// Frame collects structural mutation requests raised while the interaction
// layer walks the graph, so they can be applied after the walk completes.
//
// Requests are applied by [Frame.Apply] in a fixed order: every link request
// is validated and created first, in the order it was raised, then every
// delete request is applied in order.
type Frame struct {
	links   []linkRequest
	deletes []Object
}

type linkRequest struct {
	a, b *Pin
}

// Rejection records a link request that failed validation.
type Rejection struct {
	A, B *Pin
	Err  error
}

// FrameResult reports what [Frame.Apply] did.
type FrameResult struct {
	Created  []*Link
	Rejected []Rejection
	Removed  []Object
}

// RequestLink queues a link between a and b.
func (f *Frame) RequestLink(a, b *Pin) {
	f.links = append(f.links, linkRequest{a: a, b: b})
}

// RequestDelete queues the removal of obj.
func (f *Frame) RequestDelete(obj Object) {
	f.deletes = append(f.deletes, obj)
}

// Empty reports whether the frame has no pending requests.
func (f *Frame) Empty() bool {
	return len(f.links) == 0 && len(f.deletes) == 0
}

// Apply performs the queued requests against g and clears the frame.
//
// Links are created with ids from ids and added to g. A delete request for
// an object that is no longer in g (for example a pin whose node was deleted
// earlier in the same frame) is skipped.
func (f *Frame) Apply(g *Graph, ids *IDAllocator) FrameResult {
	var res FrameResult
	for _, r := range f.links {
		l, err := NewLink(ids, r.a, r.b)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{A: r.a, B: r.b, Err: err})
			continue
		}
		g.Add(l)
		res.Created = append(res.Created, l)
	}
	for _, obj := range f.deletes {
		if !g.Contains(obj) {
			continue
		}
		g.Remove(obj)
		res.Removed = append(res.Removed, obj)
	}
	f.links = nil
	f.deletes = nil
	return res
}
