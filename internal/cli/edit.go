package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/props"
)

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var x, y float32

	cmd := &cobra.Command{
		Use:   "add <doc> [nodeTypeId]",
		Short: "Create a node from the document's catalog",
		Long: `Create a node of a catalog node type. Without a node type id an
interactive picker over the catalog's node types is shown.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			var typeID string
			if len(args) == 2 {
				typeID = args[1]
			} else {
				typeID, err = runPicker(ctx, NewPickerModel("Select Node Type", nodeTypeItems(s.Catalog()), ""))
				if err != nil {
					return err
				}
				if typeID == "" {
					printInfo("Cancelled")
					return nil
				}
			}

			n, err := s.CreateNode(typeID, graph.Position{X: x, Y: y})
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Added %s %s", n.HeaderText, StyleHighlight.Render(fmt.Sprintf("#%d", n.ID())))
			for _, p := range n.Pins() {
				printDetail("pin  %-4d %s %s", p.ID(), p.PinKind(), p.Type())
			}
			for _, p := range n.Props() {
				printDetail("prop %-4d %s = %s", p.ID(), p.Base().Name, props.Describe(p))
			}
			return nil
		},
	}

	cmd.Flags().Float32Var(&x, "x", 0, "canvas x position")
	cmd.Flags().Float32Var(&y, "y", 0, "canvas y position")

	return cmd
}

// linkCommand creates the "link" command.
func (c *CLI) linkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <doc> <pinA> <pinB>",
		Short: "Link two pins, in either order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := parseID(args[1])
			if err != nil {
				return err
			}
			b, err := parseID(args[2])
			if err != nil {
				return err
			}

			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			l, err := s.LinkByID(a, b)
			if err != nil {
				if errors.GetCode(err) == "" {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot link %d and %d", a, b)
				}
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Linked %s %d %s %d (%s)", StyleHighlight.Render(fmt.Sprintf("#%d", l.ID())),
				l.Src().ID(), iconArrow, l.Dst().ID(), l.Appearance())
			return nil
		},
	}
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <doc> <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a node, pin, prop or link and everything it owns",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			obj, ok := s.Graph().Find(id)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no object with id %d", id)
			}
			links := len(s.Graph().Links())
			s.Remove(obj)
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Removed %s %d", obj.Kind(), id)
			if dropped := links - len(s.Graph().Links()); dropped > 0 && obj.Kind() != graph.KindLink {
				printDetail("%d connected links removed", dropped)
			}
			return nil
		},
	}
}

// setCommand creates the "set" command.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <doc> <propId> <value>",
		Short: "Edit a prop value and propagate it through bindings",
		Long: `Edit a prop value. The value is read according to the prop's class:

  select      an option, or #n for the option at index n
  text        the text as given
  float       a decimal number
  integer     a whole number
  thumbnail   typeId.itemId, or "" to clear`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetValue(id, args[2]); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			p, _ := s.FindProp(id)
			n := p.Base().Node()
			printSuccess("Set %s to %s", p.Base().Name, StyleHighlight.Render(strconv.Quote(props.Describe(p))))
			for _, other := range n.Props() {
				if other.ID() == id {
					continue
				}
				printDetail("%-18s %s", other.Base().Name, props.Describe(other))
			}
			return nil
		},
	}
}
