package cli

import (
	"github.com/spf13/cobra"
)

// completionShells are the shells cobra can generate scripts for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a shell completion script. Page slugs complete
// for "gcdash render", cache backends for --cache.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or PowerShell.

Besides subcommands and flags, the script completes page slugs for
"gcdash render" and the backend names accepted by --cache.`,
		Example: `  # Try it in the current bash session
  source <(gcdash completion bash)

  # Install for zsh (the directory must be on $fpath)
  gcdash completion zsh > ~/.zfunc/_gcdash

  # Install for fish
  gcdash completion fish > ~/.config/fish/completions/gcdash.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}
