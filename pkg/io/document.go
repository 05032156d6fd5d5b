package io

import (
	"encoding/json"

	"github.com/bploeckelman/nodes/pkg/graph"
)

// Document is the persisted form of a graph.
type Document struct {
	// Metadata is the path of the catalog the graph was built against.
	Metadata string       `json:"metadata"`
	NodeList []NodeRecord `json:"nodeList"`
}

// NodeRecord is one node with everything it owns.
type NodeRecord struct {
	ID            graph.ID       `json:"id"`
	Width         float32        `json:"width"`
	NodeTypeID    string         `json:"nodeTypeId"`
	HeaderText    string         `json:"headerText"`
	Position      graph.Position `json:"position"`
	Pins          []PinRecord    `json:"pins"`
	Props         []PropRecord   `json:"props"`
	IncomingLinks []LinkRecord   `json:"incomingLinks"`
	OutgoingLinks []LinkRecord   `json:"outgoingLinks"`
}

type PinRecord struct {
	ID   graph.ID `json:"id"`
	Kind string   `json:"kind"`
	Type string   `json:"type"`
}

type PropRecord struct {
	ID         graph.ID        `json:"id"`
	Name       string          `json:"name"`
	Class      string          `json:"class"`
	Data       json.RawMessage `json:"data"`
	PropTypeID string          `json:"propTypeId"`
	DependsOn  string          `json:"dependsOn,omitempty"`
	Pins       []PinRecord     `json:"pins"`
}

type LinkRecord struct {
	ID       graph.ID `json:"id"`
	SrcPinID graph.ID `json:"srcPinId"`
	DstPinID graph.ID `json:"dstPinId"`
}

// Counts returns the number of nodes, pins, props and distinct links the
// document describes. Links are counted from outgoingLinks only.
func (d *Document) Counts() (nodes, pins, props, links int) {
	for _, n := range d.NodeList {
		nodes++
		pins += len(n.Pins)
		props += len(n.Props)
		for _, p := range n.Props {
			pins += len(p.Pins)
		}
		links += len(n.OutgoingLinks)
	}
	return nodes, pins, props, links
}
