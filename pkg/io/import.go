package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Policy decides what an import does with a node that has a prop of an
// unregistered class.
type Policy int

const (
	// PolicyAbort fails the whole import.
	PolicyAbort Policy = iota
	// PolicySkipNode drops the node, with everything it owns, and continues.
	PolicySkipNode
)

func (p Policy) String() string {
	if p == PolicySkipNode {
		return "skip-node"
	}
	return "abort"
}

// ParsePolicy parses "abort" or "skip-node". The empty string is PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "abort":
		return PolicyAbort, nil
	case "skip-node", "skip_node", "skip":
		return PolicySkipNode, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown import policy %q", s)
}

// Diagnostic describes an entity the importer skipped.
type Diagnostic struct {
	Kind   graph.Kind
	ID     graph.ID
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %d: %s", d.Kind, d.ID, d.Reason)
}

// Report summarises an import.
type Report struct {
	Nodes int
	Links int
	// DroppedLinks counts outgoing links whose pins were not restored.
	DroppedLinks int
	Skipped      []Diagnostic
}

// Importer rebuilds graphs from documents.
type Importer struct {
	// Registry constructs props by class. Nil means props.Default().
	Registry *props.Registry
	// Catalog, if set, is used to reject nodes of unknown node types.
	Catalog *meta.Catalog
	Policy  Policy
	Logger  *log.Logger
}

// Decode reads a document from r without building a graph. It fails with
// INVALID_DOCUMENT if the JSON is malformed or the metadata path is missing.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if doc.Metadata == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no metadata path")
	}
	return &doc, nil
}

// ReadJSON decodes a document from r and imports it.
func (imp *Importer) ReadJSON(r io.Reader, ids *graph.IDAllocator) (*graph.Graph, Report, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, Report{}, err
	}
	return imp.Import(doc, ids)
}

// ImportJSON reads and imports the document at path.
func (imp *Importer) ImportJSON(path string, ids *graph.IDAllocator) (*graph.Graph, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Report{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return imp.ReadJSON(f, ids)
}

type importRun struct {
	imp    *Importer
	reg    *props.Registry
	report Report
	seen   map[graph.ID]bool
	pins   map[graph.ID]*graph.Pin
}

// Import rebuilds the graph described by doc.
//
// The restored objects keep their persisted ids. On success ids is moved
// past the largest of them, so objects created afterwards cannot collide.
// On error the returned graph is nil and ids is untouched.
func (imp *Importer) Import(doc *Document, ids *graph.IDAllocator) (*graph.Graph, Report, error) {
	if doc.Metadata == "" {
		return nil, Report{}, errors.New(errors.ErrCodeInvalidDocument, "document has no metadata path")
	}

	run := &importRun{
		imp:  imp,
		reg:  imp.Registry,
		seen: make(map[graph.ID]bool),
		pins: make(map[graph.ID]*graph.Pin),
	}
	if run.reg == nil {
		run.reg = props.Default()
	}

	g := graph.New()
	var restored []*NodeRecord

	// Pass 1: nodes, pins, props and prop pins.
	for i := range doc.NodeList {
		rec := &doc.NodeList[i]
		ok, err := run.admitNode(rec)
		if err != nil {
			return nil, run.report, err
		}
		if !ok {
			continue
		}
		g.Add(run.restoreNode(rec))
		restored = append(restored, rec)
	}

	// Pass 2: outgoing links only. Each link is listed on both endpoints.
	for _, rec := range restored {
		for _, lr := range rec.OutgoingLinks {
			if l := run.restoreLink(lr); l != nil {
				g.Add(l)
			}
		}
	}

	ids.ResetFloor(g.MaxID())
	run.report.Nodes = len(g.Nodes())
	run.report.Links = len(g.Links())
	imp.log().Debug("imported document", "metadata", doc.Metadata,
		"nodes", run.report.Nodes, "links", run.report.Links,
		"skipped", len(run.report.Skipped), "dropped", run.report.DroppedLinks)
	return g, run.report, nil
}

func (run *importRun) skip(kind graph.Kind, id graph.ID, format string, args ...any) {
	d := Diagnostic{Kind: kind, ID: id, Reason: fmt.Sprintf(format, args...)}
	run.report.Skipped = append(run.report.Skipped, d)
	run.imp.log().Warn("skipping entity", "kind", kind, "id", id, "reason", d.Reason)
}

// claim reserves id, reporting false if it is zero or already taken.
func (run *importRun) claim(kind graph.Kind, id graph.ID) bool {
	switch {
	case id == 0:
		run.skip(kind, id, "missing id")
		return false
	case run.seen[id]:
		run.skip(kind, id, "duplicate id")
		return false
	}
	run.seen[id] = true
	return true
}

// admitNode decides whether rec can be restored at all. It is checked
// before anything is built so that a skipped node leaves no trace.
func (run *importRun) admitNode(rec *NodeRecord) (bool, error) {
	if rec.ID == 0 || run.seen[rec.ID] {
		run.claim(graph.KindNode, rec.ID)
		return false, nil
	}
	if c := run.imp.Catalog; c != nil && rec.NodeTypeID != "" {
		if _, ok := c.FindNodeType(rec.NodeTypeID); !ok {
			run.skip(graph.KindNode, rec.ID, "unknown node type %q", rec.NodeTypeID)
			return false, nil
		}
	}
	for _, pr := range rec.Props {
		if run.reg.Has(pr.Class) {
			continue
		}
		if run.imp.Policy == PolicySkipNode {
			run.skip(graph.KindNode, rec.ID, "prop %d has unknown class %q", pr.ID, pr.Class)
			return false, nil
		}
		return false, errors.New(errors.ErrCodeUnknownPropType,
			"node %d: prop %d has unknown class %q", rec.ID, pr.ID, pr.Class)
	}
	run.seen[rec.ID] = true
	return true, nil
}

func (run *importRun) restoreNode(rec *NodeRecord) *graph.Node {
	n := graph.RestoreNode(rec.ID)
	if rec.Width > 0 {
		n.Width = rec.Width
	}
	if rec.HeaderText != "" {
		n.HeaderText = rec.HeaderText
	}
	n.NodeTypeID = rec.NodeTypeID
	n.Position = rec.Position

	for _, pr := range rec.Pins {
		run.restorePin(pr, graph.NodeAttachment{Owner: n})
	}
	for _, pr := range rec.Props {
		run.restoreProp(pr, n)
	}
	return n
}

func (run *importRun) restorePin(rec PinRecord, owner graph.Attachment) {
	kind, err := graph.ParsePinKind(rec.Kind)
	if err != nil {
		run.skip(graph.KindPin, rec.ID, "%v", err)
		return
	}
	typ, err := graph.ParsePinType(rec.Type)
	if err != nil {
		run.skip(graph.KindPin, rec.ID, "%v", err)
		return
	}
	if !run.claim(graph.KindPin, rec.ID) {
		return
	}
	run.pins[rec.ID] = graph.RestorePin(rec.ID, owner, kind, typ)
}

func (run *importRun) restoreProp(rec PropRecord, n *graph.Node) {
	if !run.claim(graph.KindProp, rec.ID) {
		return
	}
	// The class was checked in admitNode.
	p, err := run.reg.New(rec.Class, rec.ID, n)
	if err != nil {
		run.skip(graph.KindProp, rec.ID, "%v", err)
		return
	}
	b := p.Base()
	if rec.Name != "" {
		b.Name = rec.Name
	}
	b.PropTypeID = rec.PropTypeID
	b.DependsOn = rec.DependsOn

	if len(rec.Data) > 0 {
		if err := p.UnmarshalData(rec.Data); err != nil {
			run.skip(graph.KindProp, rec.ID, "keeping default data: %v", err)
		}
	}
	for _, pr := range rec.Pins {
		run.restorePin(pr, graph.PropAttachment{Owner: p})
	}
}

func (run *importRun) restoreLink(rec LinkRecord) *graph.Link {
	src, okSrc := run.pins[rec.SrcPinID]
	dst, okDst := run.pins[rec.DstPinID]
	if !okSrc || !okDst {
		run.report.DroppedLinks++
		run.imp.log().Debug("dropping dangling link", "id", rec.ID, "src", rec.SrcPinID, "dst", rec.DstPinID)
		return nil
	}
	if !run.claim(graph.KindLink, rec.ID) {
		return nil
	}
	l, err := graph.RestoreLink(rec.ID, src, dst)
	if err != nil {
		run.skip(graph.KindLink, rec.ID, "%v", err)
		return nil
	}
	return l
}

func (imp *Importer) log() *log.Logger {
	if imp.Logger == nil {
		return log.Default()
	}
	return imp.Logger
}
