package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nifcloud-lb/cmd/nifcloud-lb/handlers"
	"github.com/imamik/nifcloud-lb/internal/config"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "nifcloud-lb", cmd.Use)
	assert.Equal(t, "Reconcile NIFCLOUD load balancers", cmd.Short)
	assert.True(t, cmd.SilenceUsage)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range []string{"init", "apply", "version"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 3)
}

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"config", "c", config.DefaultConfigFilename},
		{"check", "", "false"},
		{"output", "o", handlers.OutputText},
		{"metrics-file", "", ""},
		{"verbose", "v", "0"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, flag, tt.name)
		assert.Equal(t, tt.shorthand, flag.Shorthand, tt.name)
		assert.Equal(t, tt.def, flag.DefValue, tt.name)
	}
}

func TestInit(t *testing.T) {
	cmd := Init()

	require.NotNil(t, cmd)
	assert.Equal(t, "init", cmd.Use)
	assert.Contains(t, cmd.Long, "Interactively create a load balancer configuration file")

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, config.DefaultConfigFilename, flag.DefValue)
}

func TestVersion_Output(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	cmd := Version()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "nifcloud-lb 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
	assert.Contains(t, out.String(), "built:  2026-01-01")
}
