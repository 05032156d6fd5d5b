package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bploeckelman/nodes/pkg/graph"
)

// Export builds the document for g. metadata is the catalog path recorded
// in the document.
//
// Nodes are written in insertion order, and each node's pins and props in
// creation order. It returns an error only if a prop fails to encode its
// data.
func Export(g *graph.Graph, metadata string) (*Document, error) {
	doc := &Document{
		Metadata: metadata,
		NodeList: make([]NodeRecord, 0, len(g.Nodes())),
	}
	for _, n := range g.Nodes() {
		rec := NodeRecord{
			ID:            n.ID(),
			Width:         n.Width,
			NodeTypeID:    n.NodeTypeID,
			HeaderText:    n.HeaderText,
			Position:      n.Position,
			Pins:          pinRecords(n.Pins()),
			Props:         make([]PropRecord, 0, len(n.Props())),
			IncomingLinks: linkRecords(n.IncomingLinks()),
			OutgoingLinks: linkRecords(n.OutgoingLinks()),
		}
		for _, p := range n.Props() {
			data, err := p.MarshalData()
			if err != nil {
				return nil, fmt.Errorf("prop %d: %w", p.ID(), err)
			}
			b := p.Base()
			rec.Props = append(rec.Props, PropRecord{
				ID:         p.ID(),
				Name:       b.Name,
				Class:      p.TypeTag(),
				Data:       data,
				PropTypeID: b.PropTypeID,
				DependsOn:  b.DependsOn,
				Pins:       pinRecords(b.Pins()),
			})
		}
		doc.NodeList = append(doc.NodeList, rec)
	}
	return doc, nil
}

func pinRecords(pins []*graph.Pin) []PinRecord {
	out := make([]PinRecord, len(pins))
	for i, p := range pins {
		out[i] = PinRecord{ID: p.ID(), Kind: p.PinKind().String(), Type: p.Type().String()}
	}
	return out
}

func linkRecords(links []*graph.Link) []LinkRecord {
	out := make([]LinkRecord, len(links))
	for i, l := range links {
		out[i] = LinkRecord{ID: l.ID(), SrcPinID: l.Src().ID(), DstPinID: l.Dst().ID()}
	}
	return out
}

// Encode writes doc to w as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteJSON exports g and writes the document to w.
// The output can be read back with [Importer.ReadJSON].
func WriteJSON(g *graph.Graph, metadata string, w io.Writer) error {
	doc, err := Export(g, metadata)
	if err != nil {
		return err
	}
	return Encode(w, doc)
}

// ExportJSON exports g to a JSON file at path, creating or truncating it.
func ExportJSON(g *graph.Graph, metadata, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, metadata, f)
}
