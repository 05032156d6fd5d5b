package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/config"
)

// configCommand creates the "config" command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configFile returns --config or the default config path.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			printKeyValue("catalog", orDash(cfg.Catalog))
			printKeyValue("store", orDash(cfg.Store))
			printKeyValue("import_policy", cfg.Policy().String())
			printKeyValue("log.level", cfg.Level().String())
			printKeyValue("thumbnails.size", strconv.Itoa(cfg.Thumbnails.Size))
			printKeyValue("thumbnails.cache_dir", orDash(cfg.Thumbnails.CacheDir))
			printKeyValue("trace.enabled", strconv.FormatBool(cfg.Trace.Enabled))
			printKeyValue("trace.sample_rate", fmt.Sprintf("%.2f", cfg.Trace.SampleRate))
			for _, w := range cfg.Validate() {
				printWarning("%s", w)
			}
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
