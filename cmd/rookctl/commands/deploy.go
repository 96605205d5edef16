package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Deploy returns the deploy command.
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy Rook-Ceph to the cluster",
		Long: `Deploy fetches the manifests of rook.version, patches them for the
configured storage nodes and applies them in order:

  crds.yaml, common.yaml, operator.yaml, cluster.yaml,
  storageclass.yaml, toolbox.yaml

After operator.yaml the operator rollout is awaited. Once the toolbox is
running, rook-ceph-block becomes the default StorageClass. The patched
manifests stay in rook.stagingDir for a later reset.

Example:
  rookctl deploy -c cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
