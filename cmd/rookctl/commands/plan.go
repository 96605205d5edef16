package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Plan returns the plan command.
func Plan() *cobra.Command {
	var configPath, output string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the storage plan for a configuration",
		Long: `Plan prints the node, monitor and replica layout a deploy would use,
without fetching manifests or contacting the cluster.

Example:
  rookctl plan -c cluster.yaml -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(configPath, output, cmd.OutOrStdout())
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format (text, yaml)")
	return cmd
}
