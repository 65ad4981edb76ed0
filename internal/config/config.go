// Package config loads gcdash settings from a TOML file and the environment.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// GCDASH_* environment variables, the config file, then [Default].
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/fonts"
)

// DefaultFile is the config file read from the working directory when no
// path is given.
const DefaultFile = "gcdash.toml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config holds server settings.
type Config struct {
	ListenAddr  string   `toml:"listen_addr"`
	RootDir     string   `toml:"root_dir"`
	FontPath    string   `toml:"font_path"`
	FontFamily  string   `toml:"font_family"`
	Dev         bool     `toml:"dev"`
	Watch       []string `toml:"watch"`
	MetricsAddr string   `toml:"metrics_addr"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the style payload cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisPrefix   string        `toml:"redis_prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8501",
		RootDir:    ".",
		FontPath:   fonts.DefaultPath,
		FontFamily: fonts.FontFamily,
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     24 * time.Hour,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GCDASH_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	str("GCDASH_LISTEN_ADDR", &c.ListenAddr)
	str("GCDASH_ROOT_DIR", &c.RootDir)
	str("GCDASH_FONT_PATH", &c.FontPath)
	str("GCDASH_FONT_FAMILY", &c.FontFamily)
	str("GCDASH_METRICS_ADDR", &c.MetricsAddr)
	str("GCDASH_CACHE_BACKEND", &c.Cache.Backend)
	str("GCDASH_CACHE_DIR", &c.Cache.Dir)
	str("GCDASH_REDIS_ADDR", &c.Cache.RedisAddr)
	str("GCDASH_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("GCDASH_REDIS_PREFIX", &c.Cache.RedisPrefix)

	if v, ok := lookup("GCDASH_DEV"); ok && v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GCDASH_DEV")
		}
		c.Dev = dev
	}
	if v, ok := lookup("GCDASH_WATCH"); ok && v != "" {
		c.Watch = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Watch = append(c.Watch, p)
			}
		}
	}
	if v, ok := lookup("GCDASH_CACHE_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GCDASH_CACHE_TTL")
		}
		c.Cache.TTL = ttl
	}
	if v, ok := lookup("GCDASH_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GCDASH_REDIS_DB")
		}
		c.Cache.RedisDB = db
	}
	return nil
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen_addr %q", c.ListenAddr)
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "metrics_addr %q", c.MetricsAddr)
		}
		if c.MetricsAddr == c.ListenAddr {
			return errors.New(errors.ErrCodeInvalidConfig, "metrics_addr must differ from listen_addr")
		}
	}
	if c.RootDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "root_dir cannot be empty")
	}
	if c.FontPath != "" && !filepath.IsAbs(c.FontPath) {
		if err := errors.ValidatePath(c.FontPath); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "font_path")
		}
	}
	if err := errors.ValidateFontFamily(c.FontFamily); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "font_family")
	}
	for _, w := range c.Watch {
		if strings.TrimSpace(w) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "watch entries cannot be empty")
		}
	}

	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
		if c.Cache.RedisDB < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_db cannot be negative")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q (want none, memory, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// Embedder returns a font embedder for the configured root, path and family.
// The cache is left to the caller.
func (c *Config) Embedder() *fonts.Embedder {
	return &fonts.Embedder{
		Root:   c.RootDir,
		Path:   c.FontPath,
		Family: c.FontFamily,
		TTL:    c.Cache.TTL,
	}
}

// WatchPaths returns the directories and files hot reload watches: the font's
// directory plus the configured extra paths, resolved against RootDir.
func (c *Config) WatchPaths() []string {
	font := c.Embedder().ResolvedPath()
	paths := []string{filepath.Dir(font)}
	for _, w := range c.Watch {
		if !filepath.IsAbs(w) {
			w = filepath.Join(c.RootDir, w)
		}
		paths = append(paths, w)
	}
	return paths
}
