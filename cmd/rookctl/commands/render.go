package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rookctl/cmd/rookctl/handlers"
)

// Render returns the render command.
func Render() *cobra.Command {
	var configPath, dir string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the patched manifests to a directory",
		Long: `Render fetches and patches the manifests exactly like deploy, then
writes them to --dir instead of applying them.

Example:
  rookctl render -c cluster.yaml -d ./rendered`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath, dir)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (required)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
