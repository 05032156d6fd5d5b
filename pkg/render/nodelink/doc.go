// Package nodelink draws a node graph as a Graphviz diagram.
//
// Each node becomes a record whose left column holds its input pins, whose
// middle column holds the header and one row per prop, and whose right
// column holds its output pins. Links connect record ports: flow links are
// drawn solid and black, data links dashed and blue. Links on prop pins
// attach to the prop's row.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// The DOT source can also be written out and processed with external
// Graphviz tools. Rendering happens in-process through
// [github.com/goccy/go-graphviz].
package nodelink
