package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/pages"
	"github.com/gcdash/gcdash/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  configFlags
		output string
		values map[string]string
	)

	cmd := &cobra.Command{
		Use:   "render [page]",
		Short: "Render a page to a standalone HTML file",
		Long: `Render a page to a standalone HTML document.

The page is given by its slug ("about"); no argument renders the home page.
The document embeds the font, so it opens correctly without the server.`,
		Example: `  gcdash render -o home.html
  gcdash render about -o about.html
  gcdash render --set name=Ada > hello.html`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var slugs []string
			for _, e := range pages.Default().Entries() {
				if e.Slug != "" {
					slugs = append(slugs, e.Slug)
				}
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			slug := ""
			if len(args) == 1 {
				slug = args[0]
			}

			cfg, err := c.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			emb, closeCache, err := newEmbedder(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			reg := pages.Default()
			p, err := reg.Build(slug, pages.Input{Values: values})
			if err != nil {
				return err
			}
			style, err := emb.BuildFontStyle(ctx)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render.DocumentContext(ctx, &buf, render.Doc{
				Page:  p,
				Style: style,
				Nav:   reg.Nav(p.Slug),
			}); err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			prog.done("Rendered " + p.Path())
			printSuccess(cmd.OutOrStdout(), "Rendered %s", p.Config.Title)
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringToStringVar(&values, "set", nil, "page input values, e.g. --set name=Ada")
	return cmd
}
