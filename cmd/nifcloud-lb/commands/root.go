// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the nifcloud-lb CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nifcloud-lb",
		Short:         "Reconcile NIFCLOUD load balancers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Version())

	return cmd
}
