package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Migration.PageSize)
	assert.Equal(t, "Task", cfg.Migration.RequestType)
	assert.NotEmpty(t, cfg.Migration.ScratchDir)
	assert.Equal(t, "localhost:7233", cfg.Temporal.Address)
	assert.False(t, cfg.Temporal.Enabled)
	assert.Equal(t, "8080", cfg.Server.RESTPort)
	assert.Equal(t, "9090", cfg.Server.GRPCPort)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jira:
  base_url: https://file.example.com
  email: file@example.com
migration:
  page_size: 25
temporal:
  enabled: true
`), 0o600))

	t.Setenv("JTS_JIRA_BASE_URL", "https://env.example.com")
	t.Setenv("JTS_JIRA_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Jira.BaseURL)
	assert.Equal(t, "file@example.com", cfg.Jira.Email)
	assert.Equal(t, "secret", cfg.Jira.APIKey)
	assert.Equal(t, 25, cfg.Migration.PageSize)
	assert.True(t, cfg.Temporal.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jira: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

type mapStore map[string]string

func (m mapStore) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestResolveAPIKey(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ResolveAPIKey(mapStore{"jira_api_key": "from-keyring"}, "jira_api_key"))
	assert.Equal(t, "from-keyring", cfg.Jira.APIKey)

	cfg = &Config{Jira: JiraConfig{APIKey: "configured"}}
	require.NoError(t, cfg.ResolveAPIKey(mapStore{}, "jira_api_key"))
	assert.Equal(t, "configured", cfg.Jira.APIKey)

	cfg = &Config{}
	assert.Error(t, cfg.ResolveAPIKey(mapStore{}, "jira_api_key"))
}

func TestValidate(t *testing.T) {
	err := (&Config{Jira: JiraConfig{BaseURL: "https://jira.example.com"}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JTS_JIRA_EMAIL")
	assert.Contains(t, err.Error(), "JTS_JIRA_API_KEY")
	assert.NotContains(t, err.Error(), "JTS_JIRA_BASE_URL")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Development: true, Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}
