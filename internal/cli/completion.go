package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for bankguard.

Load it in the current session:

  bash:        source <(bankguard completion bash)
  zsh:         source <(bankguard completion zsh)
  fish:        bankguard completion fish | source
  powershell:  bankguard completion powershell | Out-String | Invoke-Expression

Or install it permanently:

  bash (Linux):  bankguard completion bash > /etc/bash_completion.d/bankguard
  bash (macOS):  bankguard completion bash > $(brew --prefix)/etc/bash_completion.d/bankguard
  zsh:           bankguard completion zsh > "${fpath[1]}/_bankguard"
  fish:          bankguard completion fish > ~/.config/fish/completions/bankguard.fish

Zsh needs compinit enabled once: echo "autoload -U compinit; compinit" >> ~/.zshrc
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
