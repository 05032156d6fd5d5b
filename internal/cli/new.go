package cli

import (
	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// newCommand creates the "new" command, which starts an empty document.
func (c *CLI) newCommand() *cobra.Command {
	var (
		catalogPath string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "new <doc>",
		Short: "Create an empty document bound to a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if err := errors.ValidateDocumentName(name); err != nil {
				return err
			}

			catalog, err := c.loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if !force {
				if _, err := st.Get(ctx, name); err == nil {
					return errors.New(errors.ErrCodeInvalidInput, "document %q already exists (use --force to replace it)", name)
				} else if !errors.Is(err, errors.ErrCodeNotFound) {
					return err
				}
			}

			if err := c.newEditor(st, catalog).SaveTo(ctx, name); err != nil {
				return err
			}
			c.remember(name, catalog.Path)

			printSuccess("Created %s", StyleHighlight.Render(name))
			printDetail("Catalog: %s", catalog.Path)
			printNewline()
			printNextStep("Add a node", "nodes add "+name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog file (default: catalog from the config)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing document")

	return cmd
}
