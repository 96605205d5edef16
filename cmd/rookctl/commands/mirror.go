package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Mirror returns the mirror command.
func Mirror() *cobra.Command {
	var configPath, from string

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy a Rook release into the S3 template mirror",
		Long: `Mirror downloads the manifests of rook.version and uploads them to the
bucket in rook.source.s3, creating the bucket if needed. Hosts without
internet access can then deploy from the mirror.

Credentials are read from ROOKCTL_S3_ACCESS_KEY and ROOKCTL_S3_SECRET_KEY.

Example:
  rookctl mirror -c cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Mirror(cmd.Context(), configPath, from)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&from, "from", "", "Base URL of the Rook repository (default: GitHub)")
	return cmd
}
