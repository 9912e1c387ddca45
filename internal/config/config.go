package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "JTS"

// JiraConfig holds the Jira connection settings
type JiraConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Email   string `mapstructure:"email" yaml:"email"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
}

// MigrationConfig tunes how clones are resolved and staged
type MigrationConfig struct {
	PageSize    int    `mapstructure:"page_size" yaml:"page_size"`
	RequestType string `mapstructure:"request_type" yaml:"request_type"`
	ScratchDir  string `mapstructure:"scratch_dir" yaml:"scratch_dir"`
}

// TemporalConfig holds the Temporal connection settings
type TemporalConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Address   string `mapstructure:"address" yaml:"address"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	TaskQueue string `mapstructure:"task_queue" yaml:"task_queue"`
}

// ServerConfig holds the API listener ports
type ServerConfig struct {
	RESTPort string `mapstructure:"rest_port" yaml:"rest_port"`
	GRPCPort string `mapstructure:"grpc_port" yaml:"grpc_port"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Development bool   `mapstructure:"development" yaml:"development"`
	Level       string `mapstructure:"level" yaml:"level"`
}

// Config is the top-level application configuration
type Config struct {
	Jira      JiraConfig      `mapstructure:"jira" yaml:"jira"`
	Migration MigrationConfig `mapstructure:"migration" yaml:"migration"`
	Temporal  TemporalConfig  `mapstructure:"temporal" yaml:"temporal"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// SecretStore looks up credentials that are missing from the configuration
type SecretStore interface {
	Get(key string) (string, error)
}

// DefaultConfigPath returns ~/.config/jts/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jts", "config.yaml")
}

// DefaultCredentialDir is where the file keyring backend stores secrets
func DefaultCredentialDir() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "credentials")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("jira.base_url", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.api_key", "")
	v.SetDefault("migration.page_size", 50)
	v.SetDefault("migration.request_type", "Task")
	v.SetDefault("migration.scratch_dir", filepath.Join(os.TempDir(), "jts"))
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.address", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "clone-queue")
	v.SetDefault("server.rest_port", "8080")
	v.SetDefault("server.grpc_port", "9090")
	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "info")
}

// Load reads configuration from the YAML file at path, overlaid with JTS_
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ResolveAPIKey fills in a missing Jira API key from store
func (c *Config) ResolveAPIKey(store SecretStore, item string) error {
	if c.Jira.APIKey != "" || store == nil {
		return nil
	}

	key, err := store.Get(item)
	if err != nil {
		return fmt.Errorf("resolving jira api key: %w", err)
	}
	c.Jira.APIKey = key

	return nil
}

// Validate reports missing Jira settings
func (c *Config) Validate() error {
	var missing []string
	if c.Jira.BaseURL == "" {
		missing = append(missing, EnvPrefix+"_JIRA_BASE_URL")
	}
	if c.Jira.Email == "" {
		missing = append(missing, EnvPrefix+"_JIRA_EMAIL")
	}
	if c.Jira.APIKey == "" {
		missing = append(missing, EnvPrefix+"_JIRA_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
