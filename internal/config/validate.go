package config

import (
	"fmt"
	"net/url"

	"github.com/jorge-barreto/mesh/internal/role"
)

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	if cfg.Project == "" {
		return fmt.Errorf("config: 'project' is required")
	}

	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	for name, port := range cfg.Ports {
		if _, err := role.Parse(name); err != nil {
			return fmt.Errorf("config: ports: %w", err)
		}
		if port <= 0 || port > 65535 {
			return fmt.Errorf("config: ports: %s: invalid port %d", name, port)
		}
	}
	seen := make(map[int]role.Role)
	for _, r := range role.All {
		p := cfg.Port(r)
		if other, dup := seen[p]; dup {
			return fmt.Errorf("config: ports: %s and %s both listen on %d", other, r, p)
		}
		seen[p] = r
	}

	g := &cfg.Generation
	if g.APIURL == "" {
		return fmt.Errorf("config: generation: 'api-url' is required")
	}
	if u, err := url.Parse(g.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: generation: 'api-url' %q is not a valid URL", g.APIURL)
	}
	if g.Model == "" {
		return fmt.Errorf("config: generation: 'model' is required")
	}
	if g.APIKeyEnv == "" {
		g.APIKeyEnv = "LLM_API_KEY"
	}
	if g.Temperature == 0 {
		g.Temperature = 0.7
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("config: generation: temperature must be between 0 and 2")
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = 4096
	}
	if g.MaxTokens < 0 {
		return fmt.Errorf("config: generation: max-tokens must be >= 0")
	}
	if g.Timeout == 0 {
		g.Timeout = 30
	}
	if g.Timeout < 0 {
		return fmt.Errorf("config: generation: timeout must be >= 0")
	}

	if cfg.WatchInterval == 0 {
		cfg.WatchInterval = 2
	}
	if cfg.WatchInterval < 0 {
		return fmt.Errorf("config: watch-interval must be >= 0")
	}

	if cfg.MaxRecoveryAttempts == 0 {
		cfg.MaxRecoveryAttempts = 3
	}
	if cfg.MaxRecoveryAttempts < 0 {
		return fmt.Errorf("config: max-recovery-attempts must be >= 0")
	}

	return nil
}
