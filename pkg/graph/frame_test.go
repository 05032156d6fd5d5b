package graph

import (
	"errors"
	"testing"
)

func TestFrameAppliesLinksBeforeDeletes(t *testing.T) {
	ids := NewIDAllocator()
	g := New()
	n1, _ := buildNode(ids)
	n2, _ := buildNode(ids)
	g.Add(n1)
	g.Add(n2)

	var f Frame
	// The delete is raised first but must run after the link is created,
	// so the new link is torn down with n2.
	f.RequestDelete(n2)
	f.RequestLink(n1.pins[1], n2.pins[0])
	f.RequestLink(n1.pins[1], n1.pins[0])

	res := f.Apply(g, ids)

	if len(res.Created) != 1 {
		t.Fatalf("Created = %d, want 1", len(res.Created))
	}
	if len(res.Rejected) != 1 || !errors.Is(res.Rejected[0].Err, ErrSameNode) {
		t.Errorf("Rejected = %+v, want one ErrSameNode", res.Rejected)
	}
	if len(res.Removed) != 1 || res.Removed[0] != Object(n2) {
		t.Errorf("Removed = %v, want [n2]", res.Removed)
	}
	if res.Created[0].Connected() {
		t.Error("link to removed node still connected")
	}
	if len(g.Links()) != 0 {
		t.Errorf("Links() = %d, want 0", len(g.Links()))
	}
	if !f.Empty() {
		t.Error("frame not cleared after Apply")
	}
	checkIndex(t, g)
}

func TestFrameSkipsAlreadyRemoved(t *testing.T) {
	ids := NewIDAllocator()
	g := New()
	n, p := buildNode(ids)
	g.Add(n)

	var f Frame
	f.RequestDelete(n)
	f.RequestDelete(p)
	f.RequestDelete(n.pins[0])

	res := f.Apply(g, ids)

	if len(res.Removed) != 1 {
		t.Errorf("Removed = %d, want 1", len(res.Removed))
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}
