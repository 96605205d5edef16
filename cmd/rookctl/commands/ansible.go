package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Ansible returns the ansible command.
func Ansible() *cobra.Command {
	return &cobra.Command{
		Use:   "ansible ARGS_FILE",
		Short: "Run as an Ansible binary module",
		Long: `Ansible reads the module arguments file Ansible passes to binary
modules and runs the first requested operation of gather_facts, deploy
and reset. deploy and reset take the same keys as the configuration file.
The result is printed to stdout as JSON; logs go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Ansible(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}
