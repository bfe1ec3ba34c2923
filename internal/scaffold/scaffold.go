package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/mesh/internal/ux"
)

var configTemplate = `project: my-project
host: localhost

generation:
  api-url: http://localhost:1234/v1/chat/completions
  api-key-env: LLM_API_KEY
  model: qwen2.5-coder-32b-instruct
  temperature: 0.7
  max-tokens: 4096
  timeout: 120

# Per-role listen ports. Omitted roles use the defaults below.
ports:
  business: 5000
  architecture: 5001
  developer: 5002
  qa: 5003
  audit: 5004
  documentation: 5005

watch-interval: 2
max-recovery-attempts: 3
`

var briefTemplate = `Describe the product you want the pipeline to build.

Example:

  A command-line habit tracker. Users record daily habits, view streaks,
  and export their history as CSV. Single-user, local storage only.

Seed the pipeline with:

  mesh notify business --brief brief.md
`

// Init creates a new .mesh/ directory with a starter config and brief.
func Init(targetDir string) error {
	meshDir := filepath.Join(targetDir, ".mesh")
	if _, err := os.Stat(meshDir); err == nil {
		return fmt.Errorf(".mesh directory already exists in %s", targetDir)
	}

	projectsDir := filepath.Join(meshDir, "projects")
	if err := os.MkdirAll(projectsDir, 0755); err != nil {
		return fmt.Errorf("creating .mesh/projects: %w", err)
	}

	configPath := filepath.Join(meshDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	briefPath := filepath.Join(meshDir, "brief.md")
	if err := os.WriteFile(briefPath, []byte(briefTemplate), 0644); err != nil {
		return fmt.Errorf("writing brief.md: %w", err)
	}

	gitignorePath := filepath.Join(meshDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("projects/\n"), 0644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized .mesh/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s.mesh/config.yaml%s — pipeline configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.mesh/brief.md%s    — starter project brief\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Edit %s.mesh/config.yaml%s to point at your generation endpoint\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Start the roles: %smesh serve --all%s\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Seed the pipeline: %smesh notify business --brief .mesh/brief.md%s\n\n", ux.Cyan, ux.Reset)

	return nil
}
