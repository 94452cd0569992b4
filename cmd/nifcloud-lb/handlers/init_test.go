package handlers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/config/wizard"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) *bytes.Buffer {
	t.Helper()
	origFileExists := wizardFileExists
	origConfirmOverwrite := wizardConfirmOverwrite
	origRunWizard := wizardRunWizard
	origBuildConfig := wizardBuildConfig
	origWriteConfig := wizardWriteConfig
	origStdout := stdout

	t.Cleanup(func() {
		wizardFileExists = origFileExists
		wizardConfirmOverwrite = origConfirmOverwrite
		wizardRunWizard = origRunWizard
		wizardBuildConfig = origBuildConfig
		wizardWriteConfig = origWriteConfig
		stdout = origStdout
	})

	out := &bytes.Buffer{}
	stdout = out
	return out
}

func sampleWizardResult() *wizard.WizardResult {
	return &wizard.WizardResult{
		Endpoint:          "jp-east-1.computing.api.nifcloud.com",
		Name:              "web",
		Port:              443,
		InstancePort:      8443,
		BalancingType:     config.BalancingLeastConnection,
		NetworkVolume:     20,
		PolicyType:        "standard",
		AccountingType:    "2",
		FilterType:        config.FilterTypeAllow,
		FilterIPAddresses: []string{"203.0.113.10"},
		InstanceIDs:       []string{"web1", "web2"},
	}
}

func TestInit_WritesConfig(t *testing.T) {
	out := saveAndRestoreInitFactories(t)
	wizardRunWizard = func(context.Context) (*wizard.WizardResult, error) {
		return sampleWizardResult(), nil
	}
	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	require.NoError(t, Init(context.Background(), path))

	cfg, err := config.LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "web", cfg.LoadBalancer.Name)
	assert.Equal(t, 443, cfg.LoadBalancer.Port)
	assert.Equal(t, []string{"203.0.113.10"}, cfg.Filter.IPAddresses)
	require.NotNil(t, cfg.Instances)
	assert.Equal(t, []string{"web1", "web2"}, cfg.Instances.IDs)

	assert.Contains(t, out.String(), "Configuration saved!")
	assert.Contains(t, out.String(), "Listener:  443 -> 8443")
	assert.Contains(t, out.String(), "Instances: 2")
	assert.Contains(t, out.String(), config.EnvAccessKeyID)
}

func TestInit_ExistingFileDeclined(t *testing.T) {
	out := saveAndRestoreInitFactories(t)
	wizardFileExists = func(string) bool { return true }
	wizardConfirmOverwrite = func(string) (bool, error) { return false, nil }
	wizardRunWizard = func(context.Context) (*wizard.WizardResult, error) {
		t.Fatal("wizard must not run")
		return nil, nil
	}

	require.NoError(t, Init(context.Background(), "existing.yaml"))
	assert.Contains(t, out.String(), "Aborted")
}

func TestInit_ConfirmError(t *testing.T) {
	saveAndRestoreInitFactories(t)
	wizardFileExists = func(string) bool { return true }
	wizardConfirmOverwrite = func(string) (bool, error) { return false, errors.New("EOF") }

	err := Init(context.Background(), "existing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to confirm overwrite")
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreInitFactories(t)
	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), "out.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_WriteError(t *testing.T) {
	saveAndRestoreInitFactories(t)
	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context) (*wizard.WizardResult, error) {
		return sampleWizardResult(), nil
	}
	wizardWriteConfig = func(*config.Config, string) error { return errors.New("read-only") }

	err := Init(context.Background(), "out.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}

func TestFilterTypeName(t *testing.T) {
	assert.Equal(t, "allow", filterTypeName(config.FilterTypeAllow))
	assert.Equal(t, "deny", filterTypeName(config.FilterTypeDeny))
}
