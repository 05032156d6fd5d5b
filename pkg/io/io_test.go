package io_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bploeckelman/nodes/internal/fixture"
	"github.com/bploeckelman/nodes/pkg/binding"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/factory"
	"github.com/bploeckelman/nodes/pkg/graph"
	nio "github.com/bploeckelman/nodes/pkg/io"
	"github.com/bploeckelman/nodes/pkg/props"
)

// buildStory creates dialogue -> narrator over flow pins and a data link
// between the tap props of two delay nodes.
func buildStory(t *testing.T) (*graph.Graph, *graph.IDAllocator) {
	t.Helper()
	c := fixture.Catalog(t)
	f := &factory.Factory{
		Catalog:  c,
		Registry: props.Default(),
		Resolver: binding.NewResolver(c, binding.NewBus(nil), nil),
	}
	ids := graph.NewIDAllocator()
	g := graph.New()

	mk := func(typ string, x, y float32) *graph.Node {
		n, err := f.CreateNodeByID(ids, typ)
		if err != nil {
			t.Fatal(err)
		}
		n.Position = graph.Position{X: x, Y: y}
		g.Add(n)
		return n
	}
	dialogue := mk("dialogue", 10, 20)
	narrator := mk("narrator", 300, 20)
	d1 := mk("delay", 10, 200)
	d2 := mk("delay", 300, 200)

	link := func(a, b *graph.Pin) {
		l, err := graph.NewLink(ids, a, b)
		if err != nil {
			t.Fatal(err)
		}
		g.Add(l)
	}
	link(dialogue.Pins()[1], narrator.Pins()[0])
	tap1, _ := d1.FindProp("tap")
	tap2, _ := d2.FindProp("tap")
	// reversed on purpose; NewLink orients the pair
	link(tap2.Base().Pins()[0], tap1.Base().Pins()[1])

	line, _ := dialogue.FindProp("line")
	line.(*props.Text).Text = "Hello, \"world\"\nbye"
	secs, _ := d1.FindProp("seconds")
	secs.(*props.Float).Value = 1.5
	return g, ids
}

func encode(t *testing.T, g *graph.Graph) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := nio.WriteJSON(g, "catalog.json", &buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	g, _ := buildStory(t)
	first := encode(t, g)

	ids := graph.NewIDAllocator()
	imp := &nio.Importer{Catalog: fixture.Catalog(t)}
	got, report, err := imp.ReadJSON(bytes.NewReader(first), ids)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Skipped) != 0 || report.DroppedLinks != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Nodes != 4 || report.Links != 2 {
		t.Errorf("report counts = %d nodes, %d links", report.Nodes, report.Links)
	}
	if got.Len() != g.Len() {
		t.Errorf("Len = %d, want %d", got.Len(), g.Len())
	}
	if ids.Peek() != g.MaxID()+1 {
		t.Errorf("allocator at %d, want %d", ids.Peek(), g.MaxID()+1)
	}

	// An id-preserving import re-exports byte for byte.
	if second := encode(t, got); !bytes.Equal(first, second) {
		t.Errorf("re-export differs\nfirst:\n%s\nsecond:\n%s", first, second)
	}

	for _, l := range got.Links() {
		if l.Src().PinKind() != graph.PinOutput {
			t.Errorf("%s restored with an input source", l.Label())
		}
	}
}

func TestRoundTripDoesNotRecreatePropPins(t *testing.T) {
	g, _ := buildStory(t)
	got, _, err := (&nio.Importer{}).ReadJSON(bytes.NewReader(encode(t, g)), graph.NewIDAllocator())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range got.Nodes() {
		if n.NodeTypeID != "delay" {
			continue
		}
		tap, _ := n.FindProp("tap")
		if got := len(tap.Base().Pins()); got != 2 {
			t.Errorf("tap pins = %d, want 2", got)
		}
	}
}

const twoNodes = `{
  "metadata": "catalog.json",
  "nodeList": [
    {"id": 1, "width": 200, "headerText": "A",
     "pins": [{"id": 2, "kind": "OUTPUT", "type": "FLOW"}],
     "props": [], "incomingLinks": [],
     "outgoingLinks": [{"id": 5, "srcPinId": 2, "dstPinId": 4}]},
    {"id": 3, "width": 200, "headerText": "B",
     "pins": [{"id": 4, "kind": "INPUT", "type": "FLOW"}],
     "props": [], "incomingLinks": %s, "outgoingLinks": []}
  ]
}`

func TestOutgoingLinksOnly(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"one-sided", `[]`},
		{"both sides", `[{"id": 5, "srcPinId": 2, "dstPinId": 4}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(twoNodes, "%s", tt.incoming, 1)
			ids := graph.NewIDAllocator()
			g, _, err := (&nio.Importer{}).ReadJSON(strings.NewReader(doc), ids)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(g.Links()); got != 1 {
				t.Fatalf("Links() = %d, want 1", got)
			}
			a, _ := g.FindNode(1)
			b, _ := g.FindNode(3)
			if len(a.OutgoingLinks()) != 1 || len(b.IncomingLinks()) != 1 {
				t.Errorf("link lists = %d out, %d in", len(a.OutgoingLinks()), len(b.IncomingLinks()))
			}
			if ids.Next() != 6 {
				t.Error("allocator not moved past the largest restored id")
			}
		})
	}
}

func TestDanglingLinkDropped(t *testing.T) {
	doc := `{"metadata": "m", "nodeList": [
	  {"id": 1, "pins": [{"id": 2, "kind": "OUTPUT", "type": "FLOW"}],
	   "outgoingLinks": [{"id": 5, "srcPinId": 2, "dstPinId": 99}]}]}`
	g, report, err := (&nio.Importer{}).ReadJSON(strings.NewReader(doc), graph.NewIDAllocator())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Links()) != 0 || report.DroppedLinks != 1 {
		t.Errorf("links = %d, dropped = %d", len(g.Links()), report.DroppedLinks)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("dangling link reported as skipped: %v", report.Skipped)
	}
}

const unknownClass = `{"metadata": "m", "nodeList": [
  {"id": 1, "pins": [{"id": 2, "kind": "OUTPUT", "type": "FLOW"}],
   "outgoingLinks": [{"id": 9, "srcPinId": 2, "dstPinId": 4}]},
  {"id": 3, "pins": [{"id": 4, "kind": "INPUT", "type": "FLOW"}],
   "props": [{"id": 6, "name": "Gizmo", "class": "gizmo", "data": null, "pins": []}]}]}`

func TestUnknownPropClass(t *testing.T) {
	t.Run("abort", func(t *testing.T) {
		ids := graph.NewIDAllocator()
		g, _, err := (&nio.Importer{}).ReadJSON(strings.NewReader(unknownClass), ids)
		if !errors.Is(err, errors.ErrCodeUnknownPropType) {
			t.Fatalf("error = %v, want %s", err, errors.ErrCodeUnknownPropType)
		}
		if g != nil {
			t.Error("graph returned with an error")
		}
		if ids.Peek() != 1 {
			t.Error("failed import moved the allocator")
		}
	})

	t.Run("skip node", func(t *testing.T) {
		imp := &nio.Importer{Policy: nio.PolicySkipNode}
		g, report, err := imp.ReadJSON(strings.NewReader(unknownClass), graph.NewIDAllocator())
		if err != nil {
			t.Fatal(err)
		}
		if len(g.Nodes()) != 1 || len(g.Links()) != 0 {
			t.Errorf("nodes = %d, links = %d", len(g.Nodes()), len(g.Links()))
		}
		if len(report.Skipped) != 1 || report.Skipped[0].ID != 3 {
			t.Errorf("skipped = %v", report.Skipped)
		}
		if report.DroppedLinks != 1 {
			t.Errorf("dropped = %d, want 1", report.DroppedLinks)
		}
	})
}

func TestMalformedEntitiesSkipped(t *testing.T) {
	doc := `{"metadata": "m", "nodeList": [
	  {"id": 1, "nodeTypeId": "delay",
	   "pins": [
	     {"id": 2, "kind": "SIDEWAYS", "type": "FLOW"},
	     {"id": 0, "kind": "INPUT", "type": "FLOW"},
	     {"id": 3, "kind": "INPUT", "type": "FLOW"},
	     {"id": 3, "kind": "OUTPUT", "type": "FLOW"}],
	   "props": [
	     {"id": 4, "name": "Seconds", "class": "float", "data": "soon", "propTypeId": "seconds", "pins": []}]},
	  {"id": 1, "pins": []},
	  {"id": 7, "nodeTypeId": "spaceship", "pins": []}]}`

	imp := &nio.Importer{Catalog: fixture.Catalog(t)}
	g, report, err := imp.ReadJSON(strings.NewReader(doc), graph.NewIDAllocator())
	if err != nil {
		t.Fatal(err)
	}

	var reasons []string
	for _, d := range report.Skipped {
		reasons = append(reasons, d.String())
	}
	want := []string{
		`PIN 2: unknown pin kind "SIDEWAYS"`,
		"PIN 0: missing id",
		"PIN 3: duplicate id",
		`PROP 4: keeping default data: `,
		"NODE 1: duplicate id",
		`NODE 7: unknown node type "spaceship"`,
	}
	if len(reasons) != len(want) {
		t.Fatalf("skipped = %q", reasons)
	}
	for i := range want {
		if !strings.HasPrefix(reasons[i], want[i]) {
			t.Errorf("skipped[%d] = %q, want prefix %q", i, reasons[i], want[i])
		}
	}

	n, _ := g.FindNode(1)
	if len(n.Pins()) != 1 {
		t.Errorf("pins = %d, want 1", len(n.Pins()))
	}
	secs, _ := n.FindProp("seconds")
	if v := secs.(*props.Float).Value; v != 0 {
		t.Errorf("seconds = %v, want the default", v)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"metadata": `},
		{"no metadata", `{"nodeList": []}`},
		{"empty metadata", `{"metadata": "", "nodeList": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nio.Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, _, err := (&nio.Importer{}).ImportJSON(t.TempDir()+"/nope.json", graph.NewIDAllocator())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestExportJSONFile(t *testing.T) {
	g, _ := buildStory(t)
	path := t.TempDir() + "/story.json"
	if err := nio.ExportJSON(g, "catalog.json", path); err != nil {
		t.Fatal(err)
	}
	got, _, err := (&nio.Importer{}).ImportJSON(path, graph.NewIDAllocator())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes()) != 4 {
		t.Errorf("nodes = %d, want 4", len(got.Nodes()))
	}
}

func TestDocumentCounts(t *testing.T) {
	g, _ := buildStory(t)
	doc, err := nio.Export(g, "catalog.json")
	if err != nil {
		t.Fatal(err)
	}
	nodes, pins, ps, links := doc.Counts()
	if nodes != 4 || pins != len(g.Pins()) || ps != len(g.Props()) || links != 2 {
		t.Errorf("Counts = %d, %d, %d, %d", nodes, pins, ps, links)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    nio.Policy
		wantErr bool
	}{
		{"", nio.PolicyAbort, false},
		{"abort", nio.PolicyAbort, false},
		{"skip-node", nio.PolicySkipNode, false},
		{"SKIP_NODE", nio.PolicySkipNode, false},
		{"ignore", 0, true},
	}
	for _, tt := range tests {
		got, err := nio.ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
}
