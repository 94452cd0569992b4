package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nifcloud-lb/cmd/nifcloud-lb/handlers"
	"github.com/imamik/nifcloud-lb/internal/config"
)

// Apply returns the command that converges a load balancer to its configuration.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: nifcloud-lb.yaml)
//	--check: Report what would change without calling mutating actions
//	--output, -o: Result format, one of text, json, yaml
//	--metrics-file: Write Prometheus metrics in textfile format after the run
//	--verbose, -v: Log verbosity
//
// Environment variables:
//
//	NIFCLOUD_ACCESS_KEY_ID, NIFCLOUD_SECRET_ACCESS_KEY: credentials
//	NIFCLOUD_ENDPOINT: API endpoint host
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the load balancer",
		Long: `Create or update a NIFCLOUD load balancer listener.

The load balancer is created when it does not exist, and the listener is
registered when only the port pair is missing. Both are polled until the
API reports them. The IP filter is then synchronized, followed by the
registered instances when the configuration has an instances block.

Examples:
  # Preview changes
  nifcloud-lb apply --check

  # Apply a specific file and print the result as JSON
  nifcloud-lb apply -c web.yaml -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultConfigFilename, "Path to configuration file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report changes without applying them")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputText, "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().IntVarP(&opts.Verbosity, "verbose", "v", 0, "Log verbosity (0-2)")

	return cmd
}
