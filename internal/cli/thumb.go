package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/asset"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/meta"
)

// thumbCommand creates the "thumb" command.
func (c *CLI) thumbCommand() *cobra.Command {
	var (
		output  string
		size    int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "thumb <catalog> <typeId> <itemId>",
		Short: "Write the thumbnail of a catalog asset as PNG",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "thumbnail output needs -o")
			}
			catalog, err := c.loadCatalog(args[0])
			if err != nil {
				return err
			}
			thumbs, err := c.newCache(noCache)
			if err != nil {
				return err
			}
			defer thumbs.Close()

			if size == 0 {
				size = c.config().Thumbnails.Size
			}
			r := &asset.Resolver{Catalog: catalog, Cache: thumbs, Size: size, Logger: c.Logger}
			ref := meta.AssetRef{TypeID: args[1], ItemID: args[2]}
			item, err := r.Resolve(ctx, ref)
			if err != nil {
				return err
			}
			data, err := r.Thumbnail(ctx, ref)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "write %s", output)
			}

			printSuccess("Thumbnail of %s", StyleHighlight.Render(item.Name))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file")
	cmd.Flags().IntVar(&size, "size", 0, "thumbnail edge in pixels (default: thumbnails.size from the config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the thumbnail cache")

	return cmd
}
