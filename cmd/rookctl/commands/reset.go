package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Reset returns the reset command.
func Reset() *cobra.Command {
	var (
		configPath string
		opts       handlers.ResetOptions
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove Rook-Ceph and wipe the storage devices of a host",
		Long: `Reset deletes the staged Rook manifests from the cluster, ignoring
objects that are already gone, then cleans up the storage host:

  - removes ceph device-mapper targets and /var/lib/rook
  - wipes every volume of the host (wipefs, sgdisk, dd, blkdiscard, partprobe)

The volumes are those of the ceph.nodes entry named --host, which defaults
to the --ssh address or, for local runs, the hostname. Without configured
nodes, all LVM physical volumes that have no children are wiped.

Commands run locally, with sudo unless rookctl runs as root, or over SSH
with --ssh.

Examples:
  rookctl reset -c cluster.yaml
  rookctl reset -c cluster.yaml --host n2 --ssh 10.0.0.2 --ssh-user root --ssh-key ~/.ssh/id_ed25519 --yes

WARNING: Data on the wiped devices cannot be recovered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Reset(cmd.Context(), configPath, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.Host, "host", "", "Node name whose volumes are wiped")
	cmd.Flags().StringVar(&opts.SSHAddress, "ssh", "", "Run the cleanup on this address over SSH")
	cmd.Flags().IntVar(&opts.SSHPort, "ssh-port", 22, "SSH port")
	cmd.Flags().StringVar(&opts.SSHUser, "ssh-user", "", "SSH user")
	cmd.Flags().StringVar(&opts.SSHKeyPath, "ssh-key", "", "Path to the SSH private key")
	cmd.Flags().StringVar(&opts.KnownHostsFile, "known-hosts", "", "Verify the host key against this known_hosts file")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagsRequiredTogether("ssh-user", "ssh-key")

	return cmd
}
