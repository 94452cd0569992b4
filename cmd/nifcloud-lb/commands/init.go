package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nifcloud-lb/cmd/nifcloud-lb/handlers"
	"github.com/imamik/nifcloud-lb/internal/config"
)

// Init returns the command for interactively creating a configuration file.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a load balancer configuration",
		Long: `Interactively create a load balancer configuration file.

The wizard asks about:

  - Region endpoint and load balancer name
  - Listener ports and balancing type
  - Network volume, policy and accounting type
  - IP filter type and addresses
  - Instances to register (optional)

Credentials are never written. Export NIFCLOUD_ACCESS_KEY_ID and
NIFCLOUD_SECRET_ACCESS_KEY before running apply.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
