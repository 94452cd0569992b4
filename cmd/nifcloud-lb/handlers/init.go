package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if wizardFileExists(outputPath) {
		overwrite, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(stdout, "Aborted. Existing configuration left unchanged.")
			return nil
		}
	}

	printWelcome()

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)
	if err := wizardWriteConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "nifcloud-lb - NIFCLOUD load balancer configuration")
	fmt.Fprintln(stdout, "==================================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a configuration for one load balancer listener.")
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	lb := cfg.LoadBalancer

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Load Balancer Summary")
	fmt.Fprintln(stdout, "---------------------")
	fmt.Fprintf(stdout, "  Name:      %s\n", lb.Name)
	fmt.Fprintf(stdout, "  Endpoint:  %s\n", cfg.Endpoint)
	fmt.Fprintf(stdout, "  Listener:  %d -> %d\n", lb.Port, lb.InstancePort)
	fmt.Fprintf(stdout, "  Volume:    %d Mbps\n", lb.NetworkVolume)
	fmt.Fprintf(stdout, "  Filter:    %s, %d addresses\n", filterTypeName(cfg.Filter.Type), len(cfg.Filter.IPAddresses))
	if cfg.Instances != nil {
		fmt.Fprintf(stdout, "  Instances: %d\n", len(cfg.Instances.IDs))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintln(stdout, "  1. Set your credentials:")
	fmt.Fprintf(stdout, "     export %s=<access-key>\n", config.EnvAccessKeyID)
	fmt.Fprintf(stdout, "     export %s=<secret-key>\n", config.EnvSecretAccessKey)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Preview the changes:")
	fmt.Fprintf(stdout, "     nifcloud-lb apply -c %s --check\n", outputPath)
	fmt.Fprintln(stdout)
}

func filterTypeName(t int) string {
	if t == config.FilterTypeDeny {
		return "deny"
	}
	return "allow"
}
