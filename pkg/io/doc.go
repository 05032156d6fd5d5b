// Package io provides JSON import and export for editor graphs.
//
// # Overview
//
// A saved graph is a single JSON document: the path of the metadata catalog
// the graph was built against, and the ordered node list. Every pin, prop
// and link is nested under the node that owns it, and every object keeps
// the id it had in memory, so an import reproduces the exported graph
// exactly.
//
// # JSON Format
//
//	{
//	  "metadata": "catalogs/story.json",
//	  "nodeList": [
//	    {
//	      "id": 1,
//	      "width": 200,
//	      "nodeTypeId": "dialogue",
//	      "headerText": "Dialogue",
//	      "position": {"x": 40, "y": 80},
//	      "pins": [{"id": 2, "kind": "INPUT", "type": "FLOW"}],
//	      "props": [
//	        {"id": 4, "name": "Character", "class": "select",
//	         "data": {"options": ["Alice", "Bob"], "selectedIndex": 0},
//	         "propTypeId": "character", "pins": []}
//	      ],
//	      "incomingLinks": [],
//	      "outgoingLinks": [{"id": 9, "srcPinId": 3, "dstPinId": 7}]
//	    }
//	  ]
//	}
//
// A prop's "class" is its registry tag and "data" is whatever the variant's
// MarshalData writes. Links are written on both endpoint nodes, under
// incomingLinks on one and outgoingLinks on the other. Only outgoingLinks
// are read back.
//
// # Import
//
// [Importer.Import] rebuilds a graph in two passes. The first restores
// nodes, pins, props and prop pins with their persisted ids; the second
// replays each node's outgoing links against the pins from the first pass.
// Finally the caller's id allocator is moved past the largest restored id.
//
// Bad entities are skipped and reported in the returned [Report]: zero or
// duplicate ids, unknown pin kinds or types, node types missing from the
// catalog, and prop data that does not decode. Links whose pins cannot be
// found are dropped. An unknown prop class is handled according to the
// importer's [Policy].
//
// The importer always builds a fresh graph. If it returns an error, nothing
// it built is visible to the caller.
//
// # Export
//
// Use [Export] to build a [Document] from a graph, [Encode] to write one,
// or [WriteJSON] and [ExportJSON] to do both:
//
//	err := io.ExportJSON(g, "catalogs/story.json", "story.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package io
