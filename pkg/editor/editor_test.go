package editor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bploeckelman/nodes/internal/fixture"
	"github.com/bploeckelman/nodes/pkg/editor"
	nerrors "github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/observability"
	"github.com/bploeckelman/nodes/pkg/props"
	"github.com/bploeckelman/nodes/pkg/store"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnNodeCreated(nodeTypeID string, id uint64) { r.add("node %s", nodeTypeID) }
func (r *recorder) OnLinkCreated(id uint64, appearance string) { r.add("link %s", appearance) }
func (r *recorder) OnLinkRejected(reason error)                { r.add("rejected %v", reason) }
func (r *recorder) OnObjectRemoved(kind string, id uint64)     { r.add("removed %s", kind) }

func (r *recorder) OnLoadStart(ctx context.Context, name string) { r.add("load start %s", name) }

func (r *recorder) OnLoadComplete(ctx context.Context, name string, nodes int, d time.Duration, err error) {
	r.add("load %s nodes=%d ok=%t", name, nodes, err == nil)
}

func (r *recorder) OnSaveComplete(ctx context.Context, name string, nodes int, d time.Duration, err error) {
	r.add("save %s nodes=%d ok=%t", name, nodes, err == nil)
}

func record(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{}
	observability.SetGraphHooks(r)
	observability.SetDocumentHooks(r)
	t.Cleanup(observability.Reset)
	return r
}

func newEditor(t *testing.T) (*editor.Editor, store.Store) {
	t.Helper()
	dir := t.TempDir()
	c, err := meta.Load(fixture.WriteCatalog(t, dir), nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return editor.New(editor.Options{Catalog: c, Store: s, Chooser: editor.StaticChooser{Name: "story"}}), s
}

func propOf(t *testing.T, n *graph.Node, propTypeID string) graph.Prop {
	t.Helper()
	p, ok := n.FindProp(propTypeID)
	if !ok {
		t.Fatalf("%s has no prop %q", n.Label(), propTypeID)
	}
	return p
}

func refItem(p graph.Prop) string {
	ref, ok := p.(*props.Thumbnail).Ref()
	if !ok {
		return ""
	}
	return ref.ItemID
}

func TestCreateAndLink(t *testing.T) {
	rec := record(t)
	e, _ := newEditor(t)

	a, err := e.CreateNode("dialogue", graph.Position{X: 10, Y: 20})
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.CreateNode("narrator", graph.Position{X: 300})
	if err != nil {
		t.Fatal(err)
	}
	if a.Position.Y != 20 {
		t.Errorf("position = %+v", a.Position)
	}

	if _, err := e.Link(a.Pins()[0], a.Pins()[1]); !errors.Is(err, graph.ErrSameNode) {
		t.Errorf("Link(same node) error = %v", err)
	}
	l, err := e.LinkByID(b.Pins()[0].ID(), a.Pins()[1].ID())
	if err != nil {
		t.Fatal(err)
	}
	if l.Src() != a.Pins()[1] {
		t.Error("link not oriented output to input")
	}
	if _, ok := e.FindLink(l.ID()); !ok {
		t.Error("link not in graph")
	}

	want := []string{"node dialogue", "node narrator", "rejected cannot link pins in same node", "link FLOW"}
	if fmt.Sprint(rec.events) != fmt.Sprint(want) {
		t.Errorf("events = %q, want %q", rec.events, want)
	}
}

func TestCreateNodeErrors(t *testing.T) {
	e, _ := newEditor(t)
	if _, err := e.CreateNode("nope", graph.Position{}); !nerrors.Is(err, nerrors.ErrCodeUnknownNodeType) {
		t.Errorf("error = %v", err)
	}

	bare := editor.New(editor.Options{})
	if _, err := bare.CreateNode("dialogue", graph.Position{}); !nerrors.Is(err, nerrors.ErrCodeInvalidCatalog) {
		t.Errorf("error without catalog = %v", err)
	}
}

func TestRemoveDropsSubscriptions(t *testing.T) {
	rec := record(t)
	e, _ := newEditor(t)
	n, _ := e.CreateNode("dialogue", graph.Position{})
	character := propOf(t, n, "character")

	if e.Bus().Subscribers(character.ID()) == 0 {
		t.Fatal("character has no subscribers")
	}
	if err := e.RemoveByID(n.ID()); err != nil {
		t.Fatal(err)
	}
	if got := e.Bus().Subscribers(character.ID()); got != 0 {
		t.Errorf("subscribers after remove = %d", got)
	}
	if e.Graph().Len() != 0 {
		t.Errorf("graph still has %d objects", e.Graph().Len())
	}
	if last := rec.events[len(rec.events)-1]; last != "removed NODE" {
		t.Errorf("last event = %q", last)
	}
	if err := e.RemoveByID(n.ID()); !nerrors.Is(err, nerrors.ErrCodeNotFound) {
		t.Errorf("second remove error = %v", err)
	}
}

func TestRemoveLinkedPropSaveLoad(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t)
	a, _ := e.CreateNode("delay", graph.Position{})
	b, _ := e.CreateNode("delay", graph.Position{X: 200})
	cut := propOf(t, a, "tap")
	kept := propOf(t, b, "tap")

	l, err := e.Link(cut.Base().Pins()[1], kept.Base().Pins()[0])
	if err != nil {
		t.Fatal(err)
	}
	e.Remove(cut)
	if l.Connected() {
		t.Fatal("link into the removed prop is still connected")
	}
	propCount := len(e.Graph().Props())

	if err := e.SaveTo(ctx, "cut"); err != nil {
		t.Fatal(err)
	}
	e.Clear()
	report, err := e.LoadFrom(ctx, "cut")
	if err != nil {
		t.Fatal(err)
	}

	if report.Links != 0 || len(e.Graph().Links()) != 0 {
		t.Errorf("links after load = %d, report %+v", len(e.Graph().Links()), report)
	}
	if got := len(e.Graph().Props()); got != propCount {
		t.Errorf("props after load = %d, want %d", got, propCount)
	}
	if _, ok := e.FindProp(cut.ID()); ok {
		t.Error("removed prop came back on load")
	}
	for _, pin := range cut.Base().Pins() {
		if _, ok := e.FindPin(pin.ID()); ok {
			t.Errorf("pin %d of the removed prop came back on load", pin.ID())
		}
	}
	loaded, ok := e.FindNode(a.ID())
	if !ok {
		t.Fatal("node not restored")
	}
	if got := len(loaded.Props()); got != 2 {
		t.Errorf("node props after load = %d, want 2", got)
	}
	if _, ok := loaded.FindProp("tap"); ok {
		t.Error("node still owns the removed prop")
	}
}

func TestRemovedTargetStopsUpdating(t *testing.T) {
	e, _ := newEditor(t)
	n, _ := e.CreateNode("dialogue", graph.Position{})
	character := propOf(t, n, "character")
	portrait := propOf(t, n, "portrait")
	image := propOf(t, n, "expression-image")

	e.Remove(portrait)
	published := 0
	cancel := e.Bus().Subscribe(portrait.ID(), func(any) { published++ })
	defer cancel()

	if err := e.SetSelectedOption(character.ID(), "Bob"); err != nil {
		t.Fatal(err)
	}
	if got := refItem(portrait); got != "tex-alice" {
		t.Errorf("removed portrait = %q, want tex-alice", got)
	}
	if published != 0 {
		t.Errorf("removed portrait published %d times", published)
	}
	if got := refItem(image); got != "" {
		t.Errorf("expression image = %q, want cleared for Bob", got)
	}
}

func TestPropEditsPropagate(t *testing.T) {
	e, _ := newEditor(t)
	n, _ := e.CreateNode("dialogue", graph.Position{})
	character := propOf(t, n, "character")
	portrait := propOf(t, n, "portrait")
	expression := propOf(t, n, "expression")
	image := propOf(t, n, "expression-image")

	if err := e.SetSelectedOption(character.ID(), "Bob"); err != nil {
		t.Fatal(err)
	}
	if refItem(portrait) != "tex-bob" || refItem(image) != "" {
		t.Errorf("after Bob: portrait %q, image %q", refItem(portrait), refItem(image))
	}

	if err := e.SetSelectedIndex(character.ID(), 0); err != nil {
		t.Fatal(err)
	}
	if err := e.SetValue(expression.ID(), "#1"); err != nil {
		t.Fatal(err)
	}
	if refItem(image) != "tex-alice-sad" {
		t.Errorf("image = %q, want tex-alice-sad", refItem(image))
	}

	if err := e.SetAssetRef(portrait.ID(), &meta.AssetRef{TypeID: "textures", ItemID: "ghost"}); !nerrors.Is(err, nerrors.ErrCodeNotFound) {
		t.Errorf("SetAssetRef(ghost) error = %v", err)
	}
	if err := e.SetValue(portrait.ID(), ""); err != nil {
		t.Fatal(err)
	}
	if refItem(portrait) != "" {
		t.Error("portrait not cleared")
	}
}

func TestSetValue(t *testing.T) {
	e, _ := newEditor(t)
	d, _ := e.CreateNode("delay", graph.Position{})
	dlg, _ := e.CreateNode("dialogue", graph.Position{})
	seconds := propOf(t, d, "seconds")
	repeat := propOf(t, d, "repeat")
	tap := propOf(t, d, "tap")
	line := propOf(t, dlg, "line")
	portrait := propOf(t, dlg, "portrait")
	character := propOf(t, dlg, "character")

	tests := []struct {
		name  string
		id    graph.ID
		value string
		code  nerrors.Code
	}{
		{"float", seconds.ID(), "2.5", ""},
		{"integer", repeat.ID(), "3", ""},
		{"text", line.ID(), "Hi there", ""},
		{"asset", portrait.ID(), "textures.tex-bob", ""},
		{"option", character.ID(), "Bob", ""},
		{"bad number", seconds.ID(), "soon", nerrors.ErrCodeInvalidInput},
		{"bad option", character.ID(), "Carol", nerrors.ErrCodeInvalidInput},
		{"bad index", character.ID(), "#7", nerrors.ErrCodeInvalidInput},
		{"bad ref", portrait.ID(), "tex-bob", nerrors.ErrCodeInvalidInput},
		{"no value", tap.ID(), "x", nerrors.ErrCodeUnsupported},
		{"no prop", 9999, "x", nerrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SetValue(tt.id, tt.value)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("SetValue error = %v", err)
				}
				return
			}
			if !nerrors.Is(err, tt.code) {
				t.Errorf("SetValue error = %v, want %s", err, tt.code)
			}
		})
	}

	if v := seconds.(*props.Float).Value; v != 2.5 {
		t.Errorf("seconds = %v", v)
	}
	if v := repeat.(*props.Integer).Value; v != 3 {
		t.Errorf("repeat = %v", v)
	}
	if v := line.(*props.Text).Text; v != "Hi there" {
		t.Errorf("line = %q", v)
	}
	if err := e.SetText(seconds.ID(), "x"); !nerrors.Is(err, nerrors.ErrCodeInvalidInput) {
		t.Errorf("SetText on a float error = %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rec := record(t)
	ctx := context.Background()
	e, _ := newEditor(t)

	a, _ := e.CreateNode("dialogue", graph.Position{X: 1, Y: 2})
	b, _ := e.CreateNode("narrator", graph.Position{X: 3, Y: 4})
	if _, err := e.Link(a.Pins()[1], b.Pins()[0]); err != nil {
		t.Fatal(err)
	}
	if err := e.SetSelectedOption(propOf(t, a, "expression").ID(), "Sad"); err != nil {
		t.Fatal(err)
	}
	before := e.Graph().Len()

	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}
	e.Clear()
	if e.Graph().Len() != 0 || e.Name() != "" {
		t.Fatal("Clear left state behind")
	}

	report, err := e.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Nodes != 2 || report.Links != 1 || e.Graph().Len() != before {
		t.Errorf("report = %+v, len %d want %d", report, e.Graph().Len(), before)
	}
	if e.Name() != "story" {
		t.Errorf("Name = %q", e.Name())
	}

	loaded, ok := e.FindNode(a.ID())
	if !ok {
		t.Fatal("dialogue node not restored with its id")
	}
	// persisted dependent state survives the rewire
	if got := refItem(propOf(t, loaded, "expression-image")); got != "tex-alice-sad" {
		t.Errorf("expression image after load = %q", got)
	}
	// and bindings are live again
	if err := e.SetSelectedOption(propOf(t, loaded, "character").ID(), "Bob"); err != nil {
		t.Fatal(err)
	}
	if got := refItem(propOf(t, loaded, "portrait")); got != "tex-bob" {
		t.Errorf("portrait after edit = %q", got)
	}
	// new objects do not collide with restored ids
	n, err := e.CreateNode("delay", graph.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if n.ID() <= a.ID() {
		t.Errorf("new node id %d not above restored ids", n.ID())
	}

	var saw []string
	for _, ev := range rec.events {
		if strings.HasPrefix(ev, "save") || strings.HasPrefix(ev, "load") {
			saw = append(saw, ev)
		}
	}
	want := []string{"save story nodes=2 ok=true", "load start story", "load story nodes=2 ok=true"}
	if fmt.Sprint(saw) != fmt.Sprint(want) {
		t.Errorf("document events = %q, want %q", saw, want)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	e, s := newEditor(t)
	n, _ := e.CreateNode("dialogue", graph.Position{})
	g := e.Graph()

	broken := fmt.Sprintf(`{"metadata": %q, "nodeList": [
	  {"id": 1, "props": [{"id": 2, "class": "gizmo", "data": null, "pins": []}]}]}`, e.Catalog().Path)
	if err := s.Put(ctx, "broken", []byte(broken)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		doc  string
		code nerrors.Code
	}{
		{"missing", "nothing", nerrors.ErrCodeNotFound},
		{"unknown class", "broken", nerrors.ErrCodeUnknownPropType},
		{"bad name", "../x", nerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.LoadFrom(ctx, tt.doc); !nerrors.Is(err, tt.code) {
				t.Errorf("LoadFrom error = %v, want %s", err, tt.code)
			}
			if e.Graph() != g {
				t.Error("graph replaced by a failed load")
			}
			if _, ok := e.FindNode(n.ID()); !ok {
				t.Error("existing node lost")
			}
		})
	}
}

func TestLoadSwitchesCatalog(t *testing.T) {
	ctx := context.Background()
	e, s := newEditor(t)
	e.CreateNode("villain", graph.Position{})
	if err := e.SaveTo(ctx, "villains"); err != nil {
		t.Fatal(err)
	}

	// A fresh editor with no catalog picks it up from the document.
	other := editor.New(editor.Options{Store: s})
	if _, err := other.LoadFrom(ctx, "villains"); err != nil {
		t.Fatal(err)
	}
	if other.Catalog() == nil || other.Catalog().Path != e.Catalog().Path {
		t.Errorf("catalog = %v", other.Catalog())
	}
	if len(other.Graph().Nodes()) != 1 {
		t.Errorf("nodes = %d", len(other.Graph().Nodes()))
	}
}

type cancelChooser struct{}

func (cancelChooser) ChooseSaveName(context.Context, string) (string, error) { return "", nil }
func (cancelChooser) ChooseLoadName(context.Context) (string, error)         { return "", nil }

func TestChooserCancel(t *testing.T) {
	ctx := context.Background()
	e := editor.New(editor.Options{Chooser: cancelChooser{}})
	if err := e.Save(ctx); !nerrors.Is(err, nerrors.ErrCodeNoSelection) {
		t.Errorf("Save error = %v", err)
	}
	if _, err := e.Load(ctx); !nerrors.Is(err, nerrors.ErrCodeNoSelection) {
		t.Errorf("Load error = %v", err)
	}

	none := editor.New(editor.Options{})
	if err := none.Save(ctx); !nerrors.Is(err, nerrors.ErrCodeNoSelection) {
		t.Errorf("Save without chooser error = %v", err)
	}
}

func TestSaveErrors(t *testing.T) {
	ctx := context.Background()
	if err := editor.New(editor.Options{}).SaveTo(ctx, "x"); !nerrors.Is(err, nerrors.ErrCodeStorage) {
		t.Errorf("SaveTo without store error = %v", err)
	}
	e, _ := newEditor(t)
	if err := e.SaveTo(ctx, "a/b"); !nerrors.Is(err, nerrors.ErrCodeInvalidInput) {
		t.Errorf("SaveTo(a/b) error = %v", err)
	}
}

func TestApplyFrame(t *testing.T) {
	rec := record(t)
	e, _ := newEditor(t)
	a, _ := e.CreateNode("dialogue", graph.Position{})
	b, _ := e.CreateNode("dialogue", graph.Position{})
	character := propOf(t, b, "character")

	var f graph.Frame
	f.RequestLink(a.Pins()[1], b.Pins()[0])
	f.RequestLink(a.Pins()[1], a.Pins()[0])
	f.RequestDelete(b)

	res := e.ApplyFrame(&f)
	if len(res.Created) != 1 || len(res.Rejected) != 1 || len(res.Removed) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if e.Bus().Subscribers(character.ID()) != 0 {
		t.Error("removed node kept its subscriptions")
	}
	want := []string{"node dialogue", "node dialogue", "link FLOW", "rejected cannot link pins in same node", "removed NODE"}
	if fmt.Sprint(rec.events) != fmt.Sprint(want) {
		t.Errorf("events = %q", rec.events)
	}
}
