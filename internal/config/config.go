package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/process-engine/logrepo/internal/logentry"
	"github.com/process-engine/logrepo/internal/logstore"
)

//go:embed schema.cue
var schemaSource string

// EnvConfigPath names the environment variable overriding the config path.
const EnvConfigPath = "LOGREPO_CONFIG"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "logrepo.yaml"

// Backend selects the filesystem implementation.
type Backend string

const (
	BackendOS     Backend = "os"
	BackendSQLite Backend = "sqlite"
)

// Config holds the logging repository configuration.
// JSON tags name the fields for CUE validation.
type Config struct {
	// OutputRoot is the directory log files are written below.
	OutputRoot string `yaml:"output_root" json:"output_root"`

	// LogOutputRoot, if set, replaces OutputRoot for nested
	// (correlation-scoped) addressing.
	LogOutputRoot string `yaml:"log_output_root,omitempty" json:"log_output_root,omitempty"`

	Addressing logstore.Scheme `yaml:"addressing" json:"addressing"`
	Format     logentry.Format `yaml:"format" json:"format"`
	Backend    Backend         `yaml:"backend" json:"backend"`

	// SQLitePath is the database file, required for BackendSQLite.
	SQLitePath string `yaml:"sqlite_path,omitempty" json:"sqlite_path,omitempty"`

	// SortByTimestamp orders correlation reads chronologically.
	SortByTimestamp bool `yaml:"sort_by_timestamp" json:"sort_by_timestamp"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot: "logs",
		Addressing: logstore.SchemeFlat,
		Format:     logentry.FormatSemicolon,
		Backend:    BackendOS,
	}
}

// Load reads the config from $LOGREPO_CONFIG, or logrepo.yaml in the
// working directory. If the file doesn't exist, returns the default config.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from the given path. Fields missing from the
// file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	compiled := ctx.CompileString(schemaSource)
	if err := compiled.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	// #Config holds a disjunction that only resolves against concrete data,
	// so errors are checked on the unified value.
	v := compiled.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s: %w", strings.TrimSpace(cueerrors.Details(err, nil)), err)
	}
	return nil
}

// Resolve makes relative paths absolute against dir and expands a leading ~.
func (c *Config) Resolve(dir string) {
	c.OutputRoot = resolvePath(dir, c.OutputRoot)
	c.LogOutputRoot = resolvePath(dir, c.LogOutputRoot)
	c.SQLitePath = resolvePath(dir, c.SQLitePath)
}

// Root returns the directory the active addressing scheme writes below.
func (c *Config) Root() string {
	if c.Addressing == logstore.SchemeNested && c.LogOutputRoot != "" {
		return c.LogOutputRoot
	}
	return c.OutputRoot
}

func resolvePath(dir, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
