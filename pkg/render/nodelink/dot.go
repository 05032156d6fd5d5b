package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds ids and prop values to the labels. When false only the
	// header and prop names are shown.
	Detailed bool
}

// Format is an output format accepted by [Render].
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// ParseFormat accepts svg, png and dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatPNG, FormatDOT:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg, png or dot)", s)
}

const (
	flowColor = "black"
	dataColor = "steelblue"
)

// ToDOT converts g to Graphviz DOT source. Nodes and links appear in
// graph order, so the output is stable for a given graph.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  n%d [label=%s];\n", n.ID(), quote(recordLabel(n, opts.Detailed)))
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		attrs := []string{"color=" + flowColor, "penwidth=2"}
		if l.Appearance() == graph.AppearanceData {
			attrs = []string{"color=" + dataColor, "style=dashed"}
		}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("tooltip=\"link#%d\"", l.ID()))
		}
		fmt.Fprintf(&buf, "  %s:e -> %s:w [%s];\n", endpoint(l.Src()), endpoint(l.Dst()), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// recordLabel builds "{{inputs}|{header|props}|{outputs}}". The outer
// braces turn the record horizontal under rankdir=LR.
func recordLabel(n *graph.Node, detailed bool) string {
	var ins, outs []string
	for _, p := range n.Pins() {
		field := fmt.Sprintf("<p%d> %s", p.ID(), pinGlyph(p))
		if p.PinKind() == graph.PinInput {
			ins = append(ins, field)
		} else {
			outs = append(outs, field)
		}
	}

	header := escape(n.HeaderText)
	if detailed {
		header += escape(fmt.Sprintf(" #%d", n.ID()))
	}
	body := []string{header}
	for _, pr := range n.Props() {
		b := pr.Base()
		row := b.Name
		if detailed {
			if v := props.Describe(pr); v != "" {
				row += ": " + v
			}
		}
		body = append(body, fmt.Sprintf("<r%d> %s", b.ID(), escape(row)))
	}

	var cols []string
	if len(ins) > 0 {
		cols = append(cols, "{"+strings.Join(ins, "|")+"}")
	}
	cols = append(cols, "{"+strings.Join(body, "|")+"}")
	if len(outs) > 0 {
		cols = append(cols, "{"+strings.Join(outs, "|")+"}")
	}
	return "{" + strings.Join(cols, "|") + "}"
}

func pinGlyph(p *graph.Pin) string {
	if p.Type() == graph.PinFlow {
		return `\>`
	}
	return "o"
}

// endpoint names the record port a link attaches to.
func endpoint(p *graph.Pin) string {
	n := p.Node()
	if a, ok := p.Attachment().(graph.PropAttachment); ok {
		return fmt.Sprintf("n%d:r%d", n.ID(), a.Owner.Base().ID())
	}
	return fmt.Sprintf("n%d:p%d", n.ID(), p.ID())
}

var recordSpecial = strings.NewReplacer(
	`\`, `\\`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"\n", " ",
)

// escape quotes the characters that structure record labels.
func escape(s string) string {
	return recordSpecial.Replace(s)
}

// quote wraps s as a DOT string. Backslashes are left alone so record
// escapes reach the record parser.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Render lays out dot and encodes it in format. FormatDOT returns the
// source unchanged.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales to its
// container instead of using Graphviz's point units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
