// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Root returns the root command for the rookctl CLI.
func Root() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "rookctl",
		Short: "Deploy and reset Rook-Ceph storage on Kubernetes",
		Long: `rookctl installs a Rook-Ceph cluster from the upstream release manifests,
patched for the configured storage nodes, and tears it down again including
wiping the storage devices of a host.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Setup(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.LogDev, "log-dev", false, "Human readable console logs instead of JSON")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file (node_exporter textfile format)")

	// Core commands
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Reset())
	cmd.AddCommand(Ansible())

	// Utility commands
	cmd.AddCommand(Plan())
	cmd.AddCommand(Render())
	cmd.AddCommand(Mirror())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Path to cluster configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
}
