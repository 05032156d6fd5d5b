package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// catalogCommand creates the "catalog" command.
func (c *CLI) catalogCommand() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "catalog [path]",
		Short: "List a catalog's node and asset types",
		Long: `List the node types and asset types of a catalog. With --validate the
catalog is also checked for problems such as unknown prop classes, broken
bindings and dependency cycles, and the command fails when any are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			catalog, err := c.loadCatalog(path)
			if err != nil {
				return err
			}

			printKeyValue("Catalog", catalog.Path)
			printNewline()
			printTable("Node Types", nodeTypesTable(catalog), len(catalog.NodeTypes))
			printTable("Asset Types", assetTypesTable(catalog), len(catalog.AssetTypes))

			if !validate {
				return nil
			}
			printNewline()
			warnings := catalog.Validate(props.Default().Tags())
			if len(warnings) == 0 {
				printSuccess("Catalog is valid")
				return nil
			}
			for _, w := range warnings {
				printWarning("%s", w)
			}
			return errors.New(errors.ErrCodeInvalidCatalog, "%d problems in %s", len(warnings), catalog.Path)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check the catalog for problems")

	return cmd
}

func nodeTypesTable(c *meta.Catalog) *table.Table {
	t := newTable("ID", "Name", "In", "Out", "Props")
	for _, nt := range c.NodeTypes {
		names := make([]string, len(nt.Props))
		for i, pt := range nt.Props {
			names[i] = pt.ID + ":" + pt.Type
		}
		t.Row(nt.ID, nt.Name, strconv.Itoa(nt.Inputs), strconv.Itoa(nt.Outputs), strings.Join(names, " "))
	}
	return t
}

func assetTypesTable(c *meta.Catalog) *table.Table {
	t := newTable("ID", "Name", "Base path", "Items")
	for _, at := range c.AssetTypes {
		t.Row(at.ID, at.Name, at.BasePath, strconv.Itoa(len(at.Items)))
	}
	return t
}
