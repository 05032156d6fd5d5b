// Package cli implements the nodes command-line interface.
//
// Every document command loads a named document from the configured store,
// applies one edit through [editor.Editor] and saves it back, so a sequence
// of commands behaves like an editing session:
//
//	nodes new story --catalog ./catalog.json
//	nodes add story dialogue
//	nodes set story 4 Bob
//	nodes link story 3 10
//	nodes inspect story
//	nodes render story -f svg -o story.svg
//
// The store comes from --store, then the store key of the config file
// (--config, default ~/.config/nodes/config.toml), then NODES_STORE.
package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bploeckelman/nodes/pkg/buildinfo"
	"github.com/bploeckelman/nodes/pkg/cache"
	"github.com/bploeckelman/nodes/pkg/config"
	"github.com/bploeckelman/nodes/pkg/editor"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/observability"
	"github.com/bploeckelman/nodes/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "nodes"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose     bool
	trace       bool
	configPath  string
	storeTarget string

	cfg    *config.Config
	tracer *observability.TracerProvider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "nodes edits graphs of typed nodes, pins and links",
		Long:              `nodes is a command-line front end for a node-graph editor. Nodes are built from a metadata catalog, their props are wired together by bindings, and documents are kept in a file, SQLite, Redis or MongoDB store.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&c.trace, "trace", false, "log a trace span for every document save and load")
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/nodes/config.toml)")
	flags.StringVar(&c.storeTarget, "store", "", "document store: directory, sqlite://, redis:// or mongodb:// target")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.thumbCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, settles the log level and starts tracing.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Level()
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	for _, w := range cfg.Validate() {
		c.Logger.Warn("config", "problem", w)
	}

	if c.trace || cfg.Trace.Enabled {
		tp, err := observability.InitTracing(cmd.Context(), &observability.TracingConfig{
			ServiceName:    appName,
			ServiceVersion: buildinfo.Version,
			Exporter:       &observability.LogExporter{Logger: c.Logger},
			SampleRate:     cfg.Trace.SampleRate,
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "init tracing")
		}
		c.tracer = tp
		observability.SetDocumentHooks(observability.NewTracingHooksWithTracer(tp.Tracer()))
		if c.Logger.GetLevel() > log.DebugLevel {
			c.SetLogLevel(log.DebugLevel)
		}
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) teardown(ctx context.Context) error {
	if c.tracer == nil {
		return nil
	}
	observability.Reset()
	return c.tracer.Shutdown(ctx)
}

// config returns the loaded config, or the defaults before setup has run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Store & Editor Factories
// =============================================================================

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	target := c.storeTarget
	if target == "" {
		target = c.config().Store
	}
	return store.Open(ctx, target, c.Logger)
}

// newEditor returns an editor bound to st and the given catalog, which may
// be nil when a document is about to be loaded.
func (c *CLI) newEditor(st store.Store, catalog *meta.Catalog) *editor.Editor {
	return editor.New(editor.Options{
		Catalog: catalog,
		Store:   st,
		Policy:  c.config().Policy(),
		Logger:  c.Logger,
	})
}

// session is a loaded document plus the store it came from.
type session struct {
	*editor.Editor
	store store.Store
	name  string
}

// openDocument loads the named document. Callers must Close the session.
func (c *CLI) openDocument(ctx context.Context, name string) (*session, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	ed := c.newEditor(st, nil)
	if _, err := ed.LoadFrom(ctx, name); err != nil {
		st.Close()
		return nil, err
	}
	c.remember(name, ed.Catalog().Path)
	return &session{Editor: ed, store: st, name: name}, nil
}

func (s *session) save(ctx context.Context) error {
	return s.SaveTo(ctx, s.name)
}

func (s *session) Close() error {
	return s.store.Close()
}

// loadCatalog loads the catalog at path, falling back to the configured
// default catalog.
func (c *CLI) loadCatalog(path string) (*meta.Catalog, error) {
	if path == "" {
		path = c.config().Catalog
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no catalog given (use --catalog or set catalog in the config)")
	}
	if err := errors.ValidateCatalogPath(path); err != nil {
		return nil, err
	}
	return meta.Load(path, c.Logger)
}

// newCache opens the derived-resource cache used for thumbnails and
// rendered previews.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Thumbnails.CacheDir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// remember records the last document in the preferences file. Failures
// only cost the picker its starting position, so they are logged.
func (c *CLI) remember(name, catalogPath string) {
	path, err := config.DefaultPrefsPath()
	if err != nil {
		return
	}
	if err := config.SavePrefs(path, config.Prefs{LastDocument: name, LastCatalog: catalogPath}); err != nil {
		c.Logger.Debug("could not save prefs", "err", err)
	}
}

func (c *CLI) lastDocument() string {
	path, err := config.DefaultPrefsPath()
	if err != nil {
		return ""
	}
	p, err := config.LoadPrefs(path)
	if err != nil {
		c.Logger.Debug("could not read prefs", "err", err)
		return ""
	}
	return p.LastDocument
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseID parses an object id argument.
func parseID(s string) (graph.ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", s)
	}
	return graph.ID(v), nil
}

// stdout is where command output goes; tests replace it.
var stdout io.Writer = os.Stdout
