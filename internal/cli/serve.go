package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/gcdash/gcdash/internal/server"
	"github.com/gcdash/gcdash/pkg/pages"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard over HTTP.

Every page request reads the font resource, embeds it as a base64 stylesheet
and renders the page. A missing font fails the request with HTTP 500.

With --dev, the font directory and the configured watch paths are watched
and open pages reload when they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			cfg, err := c.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			emb, closeCache, err := newEmbedder(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			srv, err := server.New(server.Options{
				Config:   cfg,
				Embedder: emb,
				Pages:    pages.Default(),
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			if _, err := emb.Embed(ctx); err != nil {
				printWarning(out, "Font resource unavailable: pages will fail to render")
				printDetail(out, "%v", err)
			}

			printSuccess(out, "Serving dashboard at %s", StyleLink.Render(displayURL(cfg.ListenAddr)))
			if cfg.Dev {
				printDetail(out, "Hot reload enabled")
			}
			if cfg.MetricsAddr != "" {
				printDetail(out, "Metrics at %s/metrics", displayURL(cfg.MetricsAddr))
			}

			if err := srv.Run(ctx); err != nil {
				return err
			}
			return ctx.Err()
		},
	}

	flags.register(cmd, true)
	return cmd
}

// displayURL turns a listen address into a browsable URL.
func displayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
