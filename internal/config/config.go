// Package config loads the process-wide appsmith configuration. Credentials
// come from the environment; server tuning can be overlaid from an optional
// YAML file. The resulting Config is immutable after Load and passed by
// pointer into the handler wiring.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names read at startup.
const (
	EnvSecret      = "APPSMITH_SECRET"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGitHubOwner = "GITHUB_OWNER"
	EnvGroqAPIKey  = "GROQ_API_KEY"
)

// Defaults for server tuning when no YAML file overrides them.
const (
	DefaultListenPort  = 8080
	DefaultAdminPort   = 8081
	DefaultHistoryPath = "./appsmith.db"
)

// Config is the process-wide configuration, constructed once at startup.
type Config struct {
	// Secret is the shared secret inbound requests must present.
	Secret string `yaml:"-"`
	// GitHubToken authenticates against the GitHub REST API.
	GitHubToken string `yaml:"-"`
	// GitHubOwner is the account under which repositories are created.
	GitHubOwner string `yaml:"-"`
	// GroqAPIKey authenticates against the Groq chat-completions API.
	GroqAPIKey string `yaml:"-"`

	Server ServerConfig `yaml:"server"`

	// Endpoint overrides, primarily for tests and self-hosted mirrors.
	// Empty values mean the public endpoints.
	GitHubAPIURL  string `yaml:"github_api_url"`
	GitHubHTMLURL string `yaml:"github_html_url"`
	GroqAPIURL    string `yaml:"groq_api_url"`
}

// ServerConfig holds HTTP server tuning.
type ServerConfig struct {
	ListenPort  int    `yaml:"listen_port"`
	AdminPort   int    `yaml:"admin_port"`
	HistoryPath string `yaml:"history_path"`
}

// Load builds a Config from the environment plus an optional YAML overlay.
// A missing YAML file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Secret:      os.Getenv(EnvSecret),
		GitHubToken: os.Getenv(EnvGitHubToken),
		GitHubOwner: os.Getenv(EnvGitHubOwner),
		GroqAPIKey:  os.Getenv(EnvGroqAPIKey),
		Server: ServerConfig{
			ListenPort:  DefaultListenPort,
			AdminPort:   DefaultAdminPort,
			HistoryPath: DefaultHistoryPath,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenPort == 0 {
		c.Server.ListenPort = DefaultListenPort
	}
	if c.Server.AdminPort == 0 {
		c.Server.AdminPort = DefaultAdminPort
	}
	if c.Server.HistoryPath == "" {
		c.Server.HistoryPath = DefaultHistoryPath
	}
}

// Validate ensures all required credentials are present.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("missing required environment variable %s", EnvSecret)
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("missing required environment variable %s", EnvGitHubToken)
	}
	if c.GitHubOwner == "" {
		return fmt.Errorf("missing required environment variable %s", EnvGitHubOwner)
	}
	if c.GroqAPIKey == "" {
		return fmt.Errorf("missing required environment variable %s", EnvGroqAPIKey)
	}
	if c.Server.ListenPort < 0 || c.Server.ListenPort > 65535 {
		return fmt.Errorf("invalid listen port %d", c.Server.ListenPort)
	}
	if c.Server.AdminPort < 0 || c.Server.AdminPort > 65535 {
		return fmt.Errorf("invalid admin port %d", c.Server.AdminPort)
	}
	return nil
}
