package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gcdash/gcdash/internal/config"
	"github.com/gcdash/gcdash/pkg/buildinfo"
	"github.com/gcdash/gcdash/pkg/cache"
	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/fonts"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gcdash"

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

	configPath string
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
		Use:          appName,
		Short:        "gcdash serves a multi-page dashboard styled with an embedded font",
		Long:         `gcdash is a small server-rendered dashboard. Every page inlines its font as a base64 stylesheet, so the browser never shows a fallback font. Dev mode hot-reloads open pages when assets change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.pagesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// configFlags are the per-command overrides of config file settings.
type configFlags struct {
	addr        string
	root        string
	fontPath    string
	fontFamily  string
	metricsAddr string
	cache       string
	dev         bool
}

// register adds the font flags to cmd, plus the server flags when serve is set.
func (f *configFlags) register(cmd *cobra.Command, serve bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.root, "root", "", "application root directory")
	fs.StringVar(&f.fontPath, "font", "", "font file, relative to the root (default "+fonts.DefaultPath+")")
	fs.StringVar(&f.fontFamily, "family", "", "declared font-family name (default "+fonts.FontFamily+")")
	fs.StringVar(&f.cache, "cache", "", "style cache backend: none, memory, file or redis")
	_ = cmd.RegisterFlagCompletionFunc("cache", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.CacheNone, config.CacheMemory, config.CacheFile, config.CacheRedis}, cobra.ShellCompDirectiveNoFileComp
	})
	if serve {
		fs.StringVar(&f.addr, "addr", "", "listen address (default :8501)")
		fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Prometheus metrics address (disabled if empty)")
		fs.BoolVar(&f.dev, "dev", false, "enable hot reload")
	}
}

// apply copies the flags the user set onto cfg.
func (f *configFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("root") {
		cfg.RootDir = f.root
	}
	if changed("font") {
		cfg.FontPath = f.fontPath
	}
	if changed("family") {
		cfg.FontFamily = f.fontFamily
	}
	if changed("cache") {
		cfg.Cache.Backend = f.cache
	}
	if changed("addr") {
		cfg.ListenAddr = f.addr
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("dev") {
		cfg.Dev = f.dev
	}
}

// loadConfig loads the config file and environment, applies flags and validates.
func (c *CLI) loadConfig(cmd *cobra.Command, f *configFlags) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if f != nil {
		f.apply(cmd, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loggerFromContext(cmd.Context()).Debug("config loaded", "root", cfg.RootDir, "font", cfg.FontPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the configured style cache backend.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheFile:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}

// newEmbedder builds the font embedder for cfg with its cache attached.
// The returned close function releases the cache.
func newEmbedder(ctx context.Context, cfg *config.Config) (*fonts.Embedder, func(), error) {
	emb := cfg.Embedder()
	ch, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s cache", cfg.Cache.Backend)
	}
	switch v := ch.(type) {
	case cache.NullCache:
	case *cache.RedisCache:
		emb.Cache = v
		emb.Keyer = cache.NewScopedKeyer(nil, v.Prefix())
	default:
		emb.Cache = v
	}
	return emb, func() { _ = ch.Close() }, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gcdash/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir returns cache.dir, or the XDG cache directory when unset.
func fileCacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}
