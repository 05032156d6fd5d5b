package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/editor"
	"github.com/bploeckelman/nodes/pkg/errors"
)

// openCommand creates the "open" command: pick a document from the store
// and print its summary.
func (c *CLI) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Choose a stored document interactively and summarize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			ed := editor.New(editor.Options{
				Store:   st,
				Chooser: pickerChooser{store: st, initial: c.lastDocument(), pick: runPicker},
				Policy:  c.config().Policy(),
				Logger:  c.Logger,
			})
			report, err := ed.Load(ctx)
			if errors.Is(err, errors.ErrCodeNoSelection) {
				printInfo("Cancelled")
				return nil
			}
			if err != nil {
				return err
			}
			c.remember(ed.Name(), ed.Catalog().Path)

			printSuccess("Opened %s", StyleHighlight.Render(ed.Name()))
			printKeyValue("Catalog", ed.Catalog().Path)
			printStats(report.Nodes, report.Links, false)
			if report.DroppedLinks > 0 {
				printWarning("%d links pointed at missing pins and were dropped", report.DroppedLinks)
			}
			for _, d := range report.Skipped {
				printWarning("skipped %s", d)
			}
			printNewline()
			printNextStep("Show the document", "nodes inspect "+ed.Name())
			return nil
		},
	}
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(ctx)
			if err != nil {
				return err
			}
			now := time.Now()
			t := newTable("Name", "Size", "Updated")
			for _, e := range entries {
				t.Row(e.Name, formatSize(e.Size), formatRelativeTime(e.UpdatedAt, now))
			}
			printTable("Documents", t, len(entries))
			return nil
		},
	}
}
