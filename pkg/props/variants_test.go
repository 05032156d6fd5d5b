package props

import (
	"context"
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
)

func TestDataRoundTrip(t *testing.T) {
	sel := NewSelect()
	sel.SetOptions([]string{"Alice", "Bob"})
	_ = sel.SetSelectedIndex(1)

	thumb := NewThumbnail()
	thumb.SetRef(meta.AssetRef{TypeID: "textures", ItemID: "tex-bob"})

	text := NewText(true)
	text.Text = "line one\nline two"

	tests := []struct {
		name string
		src  graph.Prop
		dst  graph.Prop
		json string
	}{
		{"float", &Float{Value: 2.5}, NewFloat(), `2.5`},
		{"integer", &Integer{Value: -3}, NewInteger(), `-3`},
		{"select", sel, NewSelect(), `{"options":["Alice","Bob"],"selectedIndex":1}`},
		{"thumbnail", thumb, NewThumbnail(), `{"typeId":"textures","itemId":"tex-bob"}`},
		{"empty thumbnail", NewThumbnail(), NewThumbnail(), `null`},
		{"text", text, NewText(true), `"line one\nline two"`},
		{"test", NewTest(), NewTest(), `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.src.MarshalData()
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.json {
				t.Errorf("MarshalData() = %s, want %s", data, tt.json)
			}
			if err := tt.dst.UnmarshalData(data); err != nil {
				t.Fatal(err)
			}
			got, _ := tt.dst.MarshalData()
			if string(got) != string(data) {
				t.Errorf("round trip = %s, want %s", got, data)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	s := NewSelect()
	if s.SelectedIndex() != -1 || s.SelectedOption() != "" {
		t.Errorf("new select = %+v", s.Value())
	}

	s.SetOptions([]string{"a", "b"})
	if s.SelectedIndex() != 0 || s.SelectedOption() != "a" {
		t.Errorf("after SetOptions = %+v", s.Value())
	}

	if err := s.SetSelectedOption("b"); err != nil || s.SelectedIndex() != 1 {
		t.Errorf("SetSelectedOption(b) = %v, index %d", err, s.SelectedIndex())
	}
	if err := s.SetSelectedOption("z"); err == nil {
		t.Error("SetSelectedOption(z) should fail")
	}
	if err := s.SetSelectedIndex(2); err == nil {
		t.Error("SetSelectedIndex(2) should fail")
	}
	if err := s.SetSelectedIndex(-1); err != nil || s.SelectedOption() != "" {
		t.Errorf("SetSelectedIndex(-1) = %v", err)
	}

	s.SetOptions(nil)
	if s.SelectedIndex() != -1 || s.Options() == nil {
		t.Errorf("after SetOptions(nil) = %+v", s.Value())
	}

	// Data is a copy.
	s.SetOptions([]string{"x"})
	d := s.Data().(SelectData)
	d.Options[0] = "mutated"
	if s.SelectedOption() != "x" {
		t.Error("Data() aliases the prop's options")
	}
}

func TestSelectDataSelectedOption(t *testing.T) {
	tests := []struct {
		data SelectData
		want string
	}{
		{SelectData{Options: []string{"a"}, SelectedIndex: 0}, "a"},
		{SelectData{Options: []string{"a"}, SelectedIndex: 1}, ""},
		{SelectData{Options: []string{"a"}, SelectedIndex: -1}, ""},
		{SelectData{}, ""},
	}
	for _, tt := range tests {
		if got := tt.data.SelectedOption(); got != tt.want {
			t.Errorf("%+v.SelectedOption() = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestSelectUnmarshalMissingFields(t *testing.T) {
	s := NewSelect()
	if err := s.UnmarshalData([]byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if s.SelectedIndex() != -1 || len(s.Options()) != 0 {
		t.Errorf("Value() = %+v", s.Value())
	}
	if err := s.UnmarshalData([]byte(`"nope"`)); err == nil {
		t.Error("UnmarshalData of a string should fail")
	}
}

type stubResolver struct {
	calls int
	err   error
}

func (r *stubResolver) ResolveImage(ctx context.Context, ref meta.AssetRef) (image.Image, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func TestThumbnailImageIsLazy(t *testing.T) {
	ctx := context.Background()
	r := &stubResolver{}
	th := NewThumbnail()

	if img, err := th.Image(ctx, r); img != nil || err != nil || r.calls != 0 {
		t.Fatalf("Image() without ref = %v, %v, calls %d", img, err, r.calls)
	}
	if th.Data() != nil {
		t.Errorf("Data() = %v, want nil", th.Data())
	}

	th.SetRef(meta.AssetRef{TypeID: "textures", ItemID: "tex-alice"})
	for i := 0; i < 3; i++ {
		if _, err := th.Image(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if r.calls != 1 || !th.HasImage() {
		t.Errorf("calls = %d, want 1 (cached)", r.calls)
	}

	th.ClearImage()
	if th.HasImage() {
		t.Error("ClearImage kept the image")
	}
	th.Image(ctx, r)
	if r.calls != 2 {
		t.Errorf("calls = %d, want 2 after ClearImage", r.calls)
	}

	th.SetRef(meta.AssetRef{TypeID: "textures", ItemID: "tex-bob"})
	if th.HasImage() {
		t.Error("SetRef kept the old image")
	}

	th.ClearRef()
	if _, ok := th.Ref(); ok || th.HasImage() {
		t.Error("ClearRef kept state")
	}
}

func TestThumbnailImageError(t *testing.T) {
	boom := errors.New("boom")
	th := NewThumbnail()
	th.SetRef(meta.AssetRef{TypeID: "t", ItemID: "i"})
	if _, err := th.Image(context.Background(), &stubResolver{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Image() error = %v, want %v", err, boom)
	}
	if th.HasImage() {
		t.Error("failed load cached an image")
	}
}

func TestTextTags(t *testing.T) {
	if got := []string{NewText(false).TypeTag(), NewText(true).TypeTag()}; !slices.Equal(got, []string{TagInputText, TagInputTextMultiline}) {
		t.Errorf("tags = %v", got)
	}
}

func TestDescribe(t *testing.T) {
	sel := NewSelect()
	sel.SetOptions([]string{"Alice", "Bob"})
	sel.SetSelectedIndex(1)
	th := NewThumbnail()
	th.SetRef(meta.AssetRef{TypeID: "textures", ItemID: "tex-bob"})

	tests := []struct {
		name string
		prop graph.Prop
		want string
	}{
		{"float", &Float{Value: 1.5}, "1.5"},
		{"integer", &Integer{Value: -3}, "-3"},
		{"select", sel, "Bob"},
		{"empty select", NewSelect(), "-"},
		{"thumbnail", th, "textures.tex-bob"},
		{"empty thumbnail", NewThumbnail(), "-"},
		{"text", &Text{Text: "hello"}, "hello"},
		{"multiline", &Text{Multiline: true, Text: "first\nsecond"}, "first ..."},
		{"test", NewTest(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.prop); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
