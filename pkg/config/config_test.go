package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IAM_MIRROR_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "iam-mirror-sync", cfg.RoleSessionName)
	assert.Equal(t, 300, cfg.SyncTimeoutSeconds)
	assert.Equal(t, 1000, cfg.APIResourceListLimitMax)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "default", cfg.Source("aws_region"))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("IAM_MIRROR_CONFIG_PATH", t.TempDir())
	t.Setenv("IAM_MIRROR_AWS_REGION", "eu-west-1")
	t.Setenv("IAM_MIRROR_SYNC_TIMEOUT_SECONDS", "60")
	t.Setenv("IAM_MIRROR_AUDIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, "environment", cfg.Source("aws_region"))
	assert.Equal(t, 60, cfg.SyncTimeoutSeconds)
	assert.False(t, cfg.AuditEnabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "aws_region: ap-southeast-2\nrole_session_name: custom-session\n")
	t.Setenv("IAM_MIRROR_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", cfg.AWSRegion)
	assert.Equal(t, "file", cfg.Source("aws_region"))
	assert.Equal(t, "custom-session", cfg.RoleSessionName)
}

func TestLoadAuditEnabledFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "audit_enabled: false\n")
	t.Setenv("IAM_MIRROR_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, "file", cfg.Source("audit_enabled"))
}

func TestAuditEnabledEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "audit_enabled: false\n")
	t.Setenv("IAM_MIRROR_CONFIG_PATH", dir)
	t.Setenv("IAM_MIRROR_AUDIT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "environment", cfg.Source("audit_enabled"))
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "aws_region: ap-southeast-2\n")
	t.Setenv("IAM_MIRROR_CONFIG_PATH", dir)
	t.Setenv("IAM_MIRROR_AWS_REGION", "eu-central-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.AWSRegion)
	assert.Equal(t, "environment", cfg.Source("aws_region"))
}

func TestSyncTimeout(t *testing.T) {
	cfg := newDefault()
	cfg.SyncTimeoutSeconds = 45

	assert.Equal(t, 45*time.Second, cfg.SyncTimeout())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.1"))
	assert.False(t, cfg.IsTrustedProxy("192.168.1.2"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	require.NoError(t, cfg.Validate())

	cfg.SyncTimeoutSeconds = -1
	assert.Error(t, cfg.Validate())
}

func TestFormatJSON(t *testing.T) {
	cfg := newDefault()

	output, err := cfg.FormatJSON()
	require.NoError(t, err)

	var result struct {
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Len(t, result.Attributes, len(attributeNames()))
}

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
}
