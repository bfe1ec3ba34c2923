package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/mesh/internal/role"
	"gopkg.in/yaml.v3"
)

// Generation configures the external text-generation endpoint.
type Generation struct {
	APIURL      string  `yaml:"api-url"`
	APIKeyEnv   string  `yaml:"api-key-env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max-tokens"`
	Timeout     int     `yaml:"timeout"` // seconds per call
}

// Config is the project-wide mesh configuration, shared by every role daemon.
type Config struct {
	Project             string         `yaml:"project"`
	Host                string         `yaml:"host"`
	Ports               map[string]int `yaml:"ports"`
	Generation          Generation     `yaml:"generation"`
	WatchInterval       int            `yaml:"watch-interval"`        // seconds between poll sweeps
	MaxRecoveryAttempts int            `yaml:"max-recovery-attempts"` // continuation budget per response

	// Root is the project root directory, set by Load.
	Root string `yaml:"-"`
}

// Load reads a YAML config file and returns a validated Config.
func Load(path, projectRoot string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Root = projectRoot
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APIKey resolves the generation API key from the configured environment
// variable. A missing key is a startup-time configuration error.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.Generation.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("config: environment variable %s is not set", c.Generation.APIKeyEnv)
	}
	return key, nil
}

// ProjectDir returns the directory holding every role's output directory.
func (c *Config) ProjectDir() string {
	return filepath.Join(c.Root, "projects", c.Project)
}

// OutputDir returns the output directory owned by a role. Only that role's
// daemon writes here; other roles read or watch it.
func (c *Config) OutputDir(r role.Role) string {
	return filepath.Join(c.ProjectDir(), string(r))
}

// Port returns the configured listen port for a role, falling back to the
// role's conventional port.
func (c *Config) Port(r role.Role) int {
	if p, ok := c.Ports[string(r)]; ok {
		return p
	}
	return r.DefaultPort()
}

// Addr returns host:port for a role's notification listener.
func (c *Config) Addr(r role.Role) string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port(r))
}
