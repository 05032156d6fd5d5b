package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/asset"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/io"
	"github.com/bploeckelman/nodes/pkg/props"
)

// inspectCommand creates the "inspect" command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		asJSON  bool
		images  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <doc>",
		Short: "Show a document's nodes, pins, props and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			g := s.Graph()
			if asJSON {
				return io.WriteJSON(g, s.Catalog().Path, stdout)
			}

			printKeyValue("Document", s.name)
			printKeyValue("Catalog", s.Catalog().Path)
			printKeyValue("Next id", strconv.FormatUint(uint64(s.IDs().Peek()), 10))
			printNewline()

			printTable("Nodes", nodesTable(g), len(g.Nodes()))
			printTable("Pins", pinsTable(g), len(g.Pins()))
			printTable("Props", propsTable(g), len(g.Props()))
			printTable("Links", linksTable(g), len(g.Links()))

			if images {
				thumbs, err := c.newCache(noCache)
				if err != nil {
					return err
				}
				defer thumbs.Close()
				r := &asset.Resolver{Catalog: s.Catalog(), Cache: thumbs, Size: c.config().Thumbnails.Size, Logger: c.Logger}
				t, rows := c.imagesTable(ctx, g, r)
				printTable("Images", t, rows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the document JSON instead of tables")
	cmd.Flags().BoolVar(&images, "images", false, "load every thumbnail prop's image and show its size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the thumbnail cache")

	return cmd
}

func fmtID(v graph.ID) string { return strconv.FormatUint(uint64(v), 10) }

func nodesTable(g *graph.Graph) *table.Table {
	t := newTable("ID", "Type", "Header", "Position", "Pins", "Props", "In", "Out")
	for _, n := range g.Nodes() {
		t.Row(
			fmtID(n.ID()),
			n.NodeTypeID,
			n.HeaderText,
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			strconv.Itoa(len(n.Pins())),
			strconv.Itoa(len(n.Props())),
			strconv.Itoa(len(n.IncomingLinks())),
			strconv.Itoa(len(n.OutgoingLinks())),
		)
	}
	return t
}

func pinsTable(g *graph.Graph) *table.Table {
	t := newTable("ID", "Node", "Prop", "Kind", "Type")
	for _, p := range g.Pins() {
		prop := ""
		if a, ok := p.Attachment().(graph.PropAttachment); ok {
			prop = fmtID(a.Owner.ID())
		}
		t.Row(fmtID(p.ID()), fmtID(p.Node().ID()), prop, p.PinKind().String(), p.Type().String())
	}
	return t
}

func propsTable(g *graph.Graph) *table.Table {
	t := newTable("ID", "Node", "Name", "Class", "Value", "Depends on")
	for _, p := range g.Props() {
		b := p.Base()
		t.Row(fmtID(p.ID()), fmtID(b.Node().ID()), b.Name, p.TypeTag(), props.Describe(p), b.DependsOn)
	}
	return t
}

func linksTable(g *graph.Graph) *table.Table {
	t := newTable("ID", "From", "To", "Kind")
	for _, l := range g.Links() {
		style := styleFlow
		if l.Appearance() == graph.AppearanceData {
			style = styleData
		}
		t.Row(
			fmtID(l.ID()),
			fmt.Sprintf("%s pin %d", l.Src().Node().HeaderText, l.Src().ID()),
			fmt.Sprintf("%s pin %d", l.Dst().Node().HeaderText, l.Dst().ID()),
			style.Render(l.Appearance().String()),
		)
	}
	return t
}

// imagesTable loads the image of every thumbnail prop that holds a
// reference. Images that fail to load are listed with the error code.
func (c *CLI) imagesTable(ctx context.Context, g *graph.Graph, r props.ImageResolver) (*table.Table, int) {
	t := newTable("ID", "Node", "Name", "Asset", "Size")
	rows := 0
	for _, p := range g.Props() {
		th, ok := p.(*props.Thumbnail)
		if !ok {
			continue
		}
		ref, ok := th.Ref()
		if !ok {
			continue
		}
		var size string
		img, err := th.Image(ctx, r)
		if err != nil {
			c.Logger.Warn("thumbnail image unavailable", "prop", th.Label(), "asset", ref.String(), "err", err)
			code := errors.GetCode(err)
			if code == "" {
				code = "ERROR"
			}
			size = StyleWarning.Render(string(code))
		} else {
			b := img.Bounds()
			size = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		}
		t.Row(fmtID(p.ID()), fmtID(th.Node().ID()), th.Name, ref.String(), size)
		rows++
	}
	return t, rows
}
