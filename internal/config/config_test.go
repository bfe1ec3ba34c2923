package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jorge-barreto/mesh/internal/role"
)

func writeConfig(t *testing.T, content string) *Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, dir)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

const minimal = `project: demo
generation:
  api-url: https://api.example.com/v1/chat/completions
  model: test-model
`

func TestLoad_Defaults(t *testing.T) {
	cfg := writeConfig(t, minimal)
	if cfg.Host != "localhost" {
		t.Fatalf("Host = %q", cfg.Host)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Fatalf("Temperature = %v", cfg.Generation.Temperature)
	}
	if cfg.Generation.MaxTokens != 4096 {
		t.Fatalf("MaxTokens = %d", cfg.Generation.MaxTokens)
	}
	if cfg.Generation.Timeout != 30 {
		t.Fatalf("Timeout = %d", cfg.Generation.Timeout)
	}
	if cfg.Generation.APIKeyEnv != "LLM_API_KEY" {
		t.Fatalf("APIKeyEnv = %q", cfg.Generation.APIKeyEnv)
	}
	if cfg.WatchInterval != 2 {
		t.Fatalf("WatchInterval = %d", cfg.WatchInterval)
	}
	if cfg.MaxRecoveryAttempts != 3 {
		t.Fatalf("MaxRecoveryAttempts = %d", cfg.MaxRecoveryAttempts)
	}
}

func TestPorts_DefaultsAndOverrides(t *testing.T) {
	cfg := writeConfig(t, minimal+"ports:\n  qa: 6003\n")
	if cfg.Port(role.QA) != 6003 {
		t.Fatalf("qa port = %d", cfg.Port(role.QA))
	}
	if cfg.Port(role.Business) != 5000 {
		t.Fatalf("business port = %d", cfg.Port(role.Business))
	}
	if cfg.Addr(role.Audit) != "localhost:5004" {
		t.Fatalf("audit addr = %q", cfg.Addr(role.Audit))
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing project", Config{}},
		{"missing api-url", Config{Project: "p"}},
		{"bad api-url", Config{Project: "p", Generation: Generation{APIURL: "::not-a-url", Model: "m"}}},
		{"missing model", Config{Project: "p", Generation: Generation{APIURL: "https://x.test/v1"}}},
		{"unknown port role", Config{Project: "p", Ports: map[string]int{"frontend": 5009},
			Generation: Generation{APIURL: "https://x.test/v1", Model: "m"}}},
		{"duplicate port", Config{Project: "p", Ports: map[string]int{"qa": 5000},
			Generation: Generation{APIURL: "https://x.test/v1", Model: "m"}}},
		{"negative timeout", Config{Project: "p",
			Generation: Generation{APIURL: "https://x.test/v1", Model: "m", Timeout: -1}}},
	}
	for _, c := range cases {
		if err := Validate(&c.cfg); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestOutputDir(t *testing.T) {
	cfg := writeConfig(t, minimal)
	got := cfg.OutputDir(role.Developer)
	want := filepath.Join(cfg.ProjectDir(), "developer")
	if got != want {
		t.Fatalf("OutputDir = %q, want %q", got, want)
	}
}

func TestAPIKey(t *testing.T) {
	cfg := writeConfig(t, minimal)
	t.Setenv("LLM_API_KEY", "")
	if _, err := cfg.APIKey(); err == nil {
		t.Fatal("expected error for missing key")
	}
	t.Setenv("LLM_API_KEY", "sk-test")
	key, err := cfg.APIKey()
	if err != nil {
		t.Fatal(err)
	}
	if key != "sk-test" {
		t.Fatalf("key = %q", key)
	}
}
