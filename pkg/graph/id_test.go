package graph

import "testing"

func TestIDAllocator(t *testing.T) {
	ids := NewIDAllocator()
	if got := ids.Next(); got != 1 {
		t.Fatalf("first Next() = %d, want 1", got)
	}
	prev := ID(1)
	for i := 0; i < 100; i++ {
		id := ids.Next()
		if id <= prev {
			t.Fatalf("Next() = %d after %d, want strictly increasing", id, prev)
		}
		prev = id
	}
}

func TestIDAllocatorResetFloor(t *testing.T) {
	ids := NewIDAllocator()
	ids.ResetFloor(41)
	if got := ids.Next(); got != 42 {
		t.Errorf("Next() after ResetFloor(41) = %d, want 42", got)
	}
}

func TestIDAllocatorsAreIndependent(t *testing.T) {
	a := NewIDAllocator()
	b := NewIDAllocator()
	a.Next()
	a.Next()
	if got := b.Next(); got != 1 {
		t.Errorf("second allocator Next() = %d, want 1", got)
	}
}

func TestIDsUniqueAcrossKinds(t *testing.T) {
	ids := NewIDAllocator()
	n, p := buildNode(ids)
	seen := map[ID]bool{n.ID(): true}
	for _, obj := range append([]Object{p}, pinsAsObjects(n.AllPins())...) {
		if seen[obj.ID()] {
			t.Fatalf("duplicate id %d for %s", obj.ID(), obj.Kind())
		}
		seen[obj.ID()] = true
	}
}

func pinsAsObjects(pins []*Pin) []Object {
	out := make([]Object, len(pins))
	for i, p := range pins {
		out[i] = p
	}
	return out
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNode, "NODE"},
		{KindPin, "PIN"},
		{KindLink, "LINK"},
		{KindProp, "PROP"},
		{Kind(9), "Kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestParsePinKindAndType(t *testing.T) {
	if k, err := ParsePinKind("OUTPUT"); err != nil || k != PinOutput {
		t.Errorf("ParsePinKind(OUTPUT) = %v, %v", k, err)
	}
	if _, err := ParsePinKind("SIDEWAYS"); err == nil {
		t.Error("ParsePinKind(SIDEWAYS) should fail")
	}
	if ty, err := ParsePinType("data"); err != nil || ty != PinData {
		t.Errorf("ParsePinType(data) = %v, %v", ty, err)
	}
	if _, err := ParsePinType(""); err == nil {
		t.Error("ParsePinType(\"\") should fail")
	}
}
