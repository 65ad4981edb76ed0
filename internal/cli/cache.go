package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcdash/gcdash/internal/config"
	"github.com/gcdash/gcdash/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the style payload cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// clearable is implemented by backends that persist entries.
type clearable interface {
	Clear(ctx context.Context) (int, error)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached style payloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := c.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case config.CacheFile, config.CacheRedis:
			default:
				printInfo(out, "Cache backend %q keeps nothing on disk", cfg.Cache.Backend)
				return nil
			}

			ch, err := newCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer ch.Close()

			cl, ok := ch.(clearable)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", cfg.Cache.Backend)
			}
			count, err := cl.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(out, "Cleared %d cached entries", count)
			switch v := ch.(type) {
			case *cache.FileCache:
				printDetail(out, "Directory: %s", v.Dir())
			case *cache.RedisCache:
				printDetail(out, "Redis %s, prefix %s", cfg.Cache.RedisAddr, v.Prefix())
			}
			return nil
		},
	}

	flags.register(cmd, false)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			dir, err := fileCacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
