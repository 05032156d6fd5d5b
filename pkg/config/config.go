// Package config loads editor settings from a TOML file and NODES_*
// environment variables, and keeps the small preferences file that
// remembers the last opened document.
//
// Keys nest with dots in the file and underscores in the environment:
// thumbnails.size is NODES_THUMBNAILS_SIZE.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/io"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NODES"

// Config holds all editor configuration.
type Config struct {
	// Catalog is the catalog used for new documents.
	Catalog string `mapstructure:"catalog" toml:"catalog"`
	// Store is a document store target: a directory, sqlite://path,
	// redis://host or mongodb://host. Empty means the default directory.
	Store string `mapstructure:"store" toml:"store"`
	// ImportPolicy is abort or skip-node.
	ImportPolicy string `mapstructure:"import_policy" toml:"import_policy"`

	Log        LogConfig       `mapstructure:"log" toml:"log"`
	Thumbnails ThumbnailConfig `mapstructure:"thumbnails" toml:"thumbnails"`
	Trace      TraceConfig     `mapstructure:"trace" toml:"trace"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
}

type ThumbnailConfig struct {
	Size int `mapstructure:"size" toml:"size"`
	// CacheDir holds rendered thumbnails. Empty means the user cache dir.
	CacheDir string `mapstructure:"cache_dir" toml:"cache_dir"`
}

type TraceConfig struct {
	Enabled    bool    `mapstructure:"enabled" toml:"enabled"`
	SampleRate float64 `mapstructure:"sample_rate" toml:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ImportPolicy: io.PolicyAbort.String(),
		Log:          LogConfig{Level: "info"},
		Thumbnails:   ThumbnailConfig{Size: 128},
		Trace:        TraceConfig{SampleRate: 1.0},
	}
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if _, err := io.ParsePolicy(c.ImportPolicy); err != nil {
		warnings = append(warnings, fmt.Sprintf("import_policy %q is not abort or skip-node", c.ImportPolicy))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		warnings = append(warnings, fmt.Sprintf("log.level %q is not a known level", c.Log.Level))
	}
	if c.Thumbnails.Size <= 0 || c.Thumbnails.Size > 1024 {
		warnings = append(warnings, fmt.Sprintf("thumbnails.size %d is outside [1, 1024]", c.Thumbnails.Size))
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("trace.sample_rate %.2f is outside [0.0, 1.0]", c.Trace.SampleRate))
	}
	if c.Catalog != "" {
		if _, err := os.Stat(c.Catalog); err != nil {
			warnings = append(warnings, fmt.Sprintf("catalog %s is not readable", c.Catalog))
		}
	}

	return warnings
}

// Policy returns the parsed import policy, falling back to abort.
func (c *Config) Policy() io.Policy {
	p, err := io.ParsePolicy(c.ImportPolicy)
	if err != nil {
		return io.PolicyAbort
	}
	return p
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Dir returns ~/.config/nodes.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "nodes"), nil
}

// DefaultPath returns ~/.config/nodes/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from path and the environment. An empty path
// means [DefaultPath]. A missing file is not an error: defaults and the
// environment still apply.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading config %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshalling config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("store", d.Store)
	v.SetDefault("import_policy", d.ImportPolicy)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("thumbnails.size", d.Thumbnails.Size)
	v.SetDefault("thumbnails.cache_dir", d.Thumbnails.CacheDir)
	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.sample_rate", d.Trace.SampleRate)
}

const header = `# nodes editor configuration.
# Every key can be overridden with NODES_<KEY>, dots replaced by
# underscores (NODES_THUMBNAILS_SIZE=256).
#
# store: a directory, sqlite:///path/docs.db, redis://host:6379/0 or
# mongodb://host:27017. Empty uses ~/.config/nodes/documents.

`

// WriteDefault writes the default configuration to path. It refuses to
// replace an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create config dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", path)
	}
	defer f.Close()

	if _, err := f.WriteString(header); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := toml.NewEncoder(f).Encode(Default()); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode %s", path)
	}
	return f.Close()
}
