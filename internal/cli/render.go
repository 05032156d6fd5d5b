package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/cache"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/render/nodelink"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string
	format   string
	detailed bool
	noCache  bool
}

// renderCommand creates the "render" command, a Graphviz preview of a
// document. Rendered output is cached by the hash of the generated DOT.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(nodelink.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Render a document preview with Graphviz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := nodelink.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			if format == nodelink.FormatPNG && opts.output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "png output needs -o")
			}

			s, err := c.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			previews, err := c.newCache(opts.noCache)
			if err != nil {
				return err
			}
			defer previews.Close()

			prog := newProgress(loggerFromContext(ctx))
			dot := nodelink.ToDOT(s.Graph(), nodelink.Options{Detailed: opts.detailed})
			key := cache.NewDefaultKeyer().RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
				Format:   string(format),
				Detailed: opts.detailed,
			})

			data, cached, err := previews.Get(ctx, key)
			if err != nil {
				c.Logger.Warn("render cache read failed", "err", err)
				cached = false
			}
			if !cached {
				if data, err = nodelink.Render(ctx, dot, format); err != nil {
					return err
				}
				if err := previews.Set(ctx, key, data, 0); err != nil {
					c.Logger.Warn("render cache write failed", "err", err)
				}
			}

			if opts.output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "write %s", opts.output)
			}
			prog.done(fmt.Sprintf("Rendered %s", s.name))
			printSuccess("Rendered %s", StyleHighlight.Render(s.name))
			printStats(len(s.Graph().Nodes()), len(s.Graph().Links()), cached)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png or dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and prop values")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached preview exists")

	return cmd
}
