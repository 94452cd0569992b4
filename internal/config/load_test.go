package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
access_key: AKID
secret_access_key: SECRET
endpoint: west-1.cp.cloud.nifty.com
state: present
load_balancer:
  name: lb001
  port: 80
  instance_port: 8080
  balancing_type: 2
  network_volume: 20
  ip_version: v4
  accounting_type: "2"
  policy_type: ats
instances:
  ids: [test001, test002]
  purge: false
filter:
  type: 2
  ip_addresses: [192.168.0.1, 10.0.0.0/24]
  purge: false
`

const minimalConfig = `
access_key: AKID
secret_access_key: SECRET
endpoint: west-1.cp.cloud.nifty.com
state: present
load_balancer:
  name: lb001
  port: 80
  instance_port: 80
`

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAccessKeyID, "")
	t.Setenv(EnvSecretAccessKey, "")
	t.Setenv(EnvEndpoint, "")
}

func TestLoad_FullConfig(t *testing.T) {
	clearCredentialEnv(t)

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AKID", cfg.AccessKey)
	assert.Equal(t, "SECRET", cfg.SecretAccessKey)
	assert.Equal(t, "west-1.cp.cloud.nifty.com", cfg.Endpoint)
	assert.Equal(t, LoadBalancerConfig{
		Name:           "lb001",
		Port:           80,
		InstancePort:   8080,
		BalancingType:  2,
		NetworkVolume:  20,
		IPVersion:      "v4",
		AccountingType: "2",
		PolicyType:     "ats",
	}, cfg.LoadBalancer)

	require.NotNil(t, cfg.Instances)
	assert.Equal(t, []string{"test001", "test002"}, cfg.Instances.IDs)
	assert.False(t, cfg.PurgeInstances())

	assert.Equal(t, FilterTypeDeny, cfg.Filter.Type)
	assert.Equal(t, []string{"192.168.0.1", "10.0.0.0/24"}, cfg.Filter.IPAddresses)
	assert.False(t, cfg.PurgeFilter())
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	clearCredentialEnv(t)

	cfg, err := LoadFromBytes([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultBalancingType, cfg.LoadBalancer.BalancingType)
	assert.Equal(t, DefaultNetworkVolume, cfg.LoadBalancer.NetworkVolume)
	assert.Equal(t, DefaultIPVersion, cfg.LoadBalancer.IPVersion)
	assert.Equal(t, DefaultAccountingType, cfg.LoadBalancer.AccountingType)
	assert.Equal(t, DefaultPolicyType, cfg.LoadBalancer.PolicyType)
	assert.Equal(t, DefaultFilterType, cfg.Filter.Type)
	assert.True(t, cfg.PurgeFilter())
	assert.Empty(t, cfg.Filter.IPAddresses)

	assert.Nil(t, cfg.Instances, "instances stay unmanaged unless configured")
	assert.False(t, cfg.PurgeInstances())
}

func TestLoadFromBytes_InstancesPurgeDefaultsToTrue(t *testing.T) {
	clearCredentialEnv(t)

	cfg, err := LoadFromBytes([]byte(minimalConfig + "instances:\n  ids: [web1]\n"))
	require.NoError(t, err)
	assert.True(t, cfg.PurgeInstances())
}

func TestLoadFromBytes_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAccessKeyID, "ENV_AKID")
	t.Setenv(EnvSecretAccessKey, "ENV_SECRET")
	t.Setenv(EnvEndpoint, "east-1.cp.cloud.nifty.com")

	data := `
state: present
load_balancer:
  name: lb001
  port: 443
  instance_port: 443
`
	cfg, err := LoadFromBytes([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "ENV_AKID", cfg.AccessKey)
	assert.Equal(t, "ENV_SECRET", cfg.SecretAccessKey)
	assert.Equal(t, "east-1.cp.cloud.nifty.com", cfg.Endpoint)
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	clearCredentialEnv(t)

	_, err := LoadFromBytes([]byte("load_balancer: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
