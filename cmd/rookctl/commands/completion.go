package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rookctl.

To load completions:

Bash:
  $ source <(rookctl completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ rookctl completion bash > /etc/bash_completion.d/rookctl
  # macOS:
  $ rookctl completion bash > $(brew --prefix)/etc/bash_completion.d/rookctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ rookctl completion zsh > "${fpath[1]}/_rookctl"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rookctl completion fish | source
  # To load completions for each session, execute once:
  $ rookctl completion fish > ~/.config/fish/completions/rookctl.fish

PowerShell:
  PS> rookctl completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> rookctl completion powershell > rookctl.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
	return cmd
}
