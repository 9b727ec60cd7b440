package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/taskdir"
)

// Default values.
const (
	DefaultStoreBackend = string(store.BackendFile)
	DefaultStoreKey     = store.DefaultKey
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats = []string{"text", "json", "logfmt"}
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	StoreBackend string `toml:"store_backend"`
	StorePath    string `toml:"store_path"`
	StoreKey     string `toml:"store_key"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Files that contributed to this config (computed)
	Files []string `toml:"-"`

	// Working directory used to resolve relative paths (computed)
	WorkDir string `toml:"-"`
}

// StoreOptions returns the store.Options described by the config.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: store.Backend(c.StoreBackend),
		Path:    c.StorePath,
		Key:     c.StoreKey,
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if !slices.Contains(store.Backends(), store.Backend(c.StoreBackend)) {
		return fmt.Errorf("store_backend: unknown backend %q (expected file|sqlite|memory)", c.StoreBackend)
	}
	if strings.TrimSpace(c.StoreKey) == "" {
		return fmt.Errorf("store_key: must not be empty")
	}
	if c.StoreBackend != string(store.BackendMemory) && c.StorePath == "" {
		return fmt.Errorf("store_path: must not be empty for %s backend", c.StoreBackend)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("log_format: unknown format %q", c.LogFormat)
	}
	return nil
}

// WriteTOML encodes the config as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config dir)
// 3. Project config file (tasklist.toml or .tasklist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Global flags are registered on fs; remaining arguments stay in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, err
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StoreBackend = DefaultStoreBackend
	cfg.StorePath = ""
	cfg.StoreKey = DefaultStoreKey
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.LogFile = ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig computes derived values and resolves paths.
func finalizeConfig(cfg *Config) error {
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if cfg.StorePath == "" && cfg.StoreBackend != string(store.BackendMemory) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		if cfg.StoreBackend == string(store.BackendSQLite) {
			cfg.StorePath = taskdir.DatabasePath(home)
		} else {
			cfg.StorePath = taskdir.StoragePath(home)
		}
	}

	cfg.StorePath = resolvePath(cfg.WorkDir, cfg.StorePath)
	cfg.LogFile = resolvePath(cfg.WorkDir, cfg.LogFile)
	return nil
}

// resolvePath expands ~ and env vars and makes p absolute against workDir.
func resolvePath(workDir, p string) string {
	if p == "" {
		return ""
	}
	p = expandPath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return filepath.Clean(p)
}
