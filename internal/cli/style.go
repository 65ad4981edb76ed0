package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// styleCommand creates the style command.
func (c *CLI) styleCommand() *cobra.Command {
	var (
		flags  configFlags
		check  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the font style payload",
		Long: `Print the <style> block that embeds the font.

With --check, print a summary of the font resource instead; the command fails
when the font is missing, which makes it usable as a packaging check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			p, err := emb.Embed(ctx)
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			case check:
				printSuccess(out, "Font resource OK")
				printKeyValue(out, "Path", p.Path)
				printKeyValue(out, "Family", p.Family)
				printKeyValue(out, "Type", p.MIME)
				printKeyValue(out, "Size", strconv.Itoa(p.Size)+" bytes")
				printKeyValue(out, "Payload", strconv.Itoa(len(p.Style))+" bytes")
				printKeyValue(out, "SHA-256", p.Digest)
				printKeyValue(out, "Cache", cacheStatus(p.Cached))
				return nil
			default:
				_, err := fmt.Fprintln(out, p.Style)
				return err
			}
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&check, "check", false, "print a summary instead of the stylesheet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the payload as JSON")
	cmd.MarkFlagsMutuallyExclusive("check", "json")
	return cmd
}
