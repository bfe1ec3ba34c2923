package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jorge-barreto/mesh/internal/agent"
	"github.com/jorge-barreto/mesh/internal/config"
	"github.com/jorge-barreto/mesh/internal/coordinator"
	"github.com/jorge-barreto/mesh/internal/docs"
	"github.com/jorge-barreto/mesh/internal/doctor"
	"github.com/jorge-barreto/mesh/internal/llm"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/scaffold"
	"github.com/jorge-barreto/mesh/internal/state"
	"github.com/jorge-barreto/mesh/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:        "mesh",
		Usage:       "Role-based agent pipeline",
		Description: "Run 'mesh docs' for documentation on roles, config, notifications, and more.",
		Commands: []*cli.Command{
			initCmd(),
			serveCmd(),
			statusCmd(),
			notifyCmd(),
			graphCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run one role, or the whole pipeline with --all",
		ArgsUsage: "[role]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Run every role in this process"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var roles []role.Role
			if cmd.Bool("all") {
				if cmd.Args().First() != "" {
					return fmt.Errorf("--all and a role argument are mutually exclusive")
				}
				roles = role.All
			} else {
				r, err := role.Parse(cmd.Args().First())
				if err != nil {
					return err
				}
				roles = []role.Role{r}
			}

			// Missing credentials are a startup error, not something to
			// discover one failed generation call at a time.
			key, err := cfg.APIKey()
			if err != nil {
				return err
			}
			gen := llm.NewClient(cfg.Generation, key)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			errs := make(chan error, len(roles))
			for _, r := range roles {
				c, err := coordinator.New(r, cfg, role.DefaultGraph(), gen)
				if err != nil {
					return err
				}
				go func() {
					errs <- c.Run(ctx)
				}()
			}

			for range roles {
				if err := <-errs; err != nil {
					stop()
					return err
				}
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show every role's state and reachability",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("\n%sProject %s%s\n\n", ux.Bold, cfg.Project, ux.Reset)
			fmt.Printf("  %-14s %-10s %-13s %s\n", "ROLE", "SERVICE", "STATUS", "LAST UPDATE")

			probe := notify.NewClient("status", cfg)
			for _, r := range role.All {
				st, err := state.Load(cfg.OutputDir(r), string(r))
				if err != nil {
					return fmt.Errorf("loading %s state: %w", r, err)
				}
				_, probeErr := probe.Status(ctx, r)
				ux.RenderStatus(st, probeErr == nil)
			}
			fmt.Println()
			return nil
		},
	}
}

func notifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "notify",
		Usage:     "Push a notification to a role",
		ArgsUsage: "<role>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "brief", Usage: "Seed with the contents of a brief file"},
			&cli.StringFlag{Name: "payload", Usage: "Seed with an inline JSON payload"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			target, err := role.Parse(cmd.Args().First())
			if err != nil {
				return err
			}

			brief := cmd.String("brief")
			inline := cmd.String("payload")
			if brief != "" && inline != "" {
				return fmt.Errorf("--brief and --payload are mutually exclusive")
			}

			var payload json.RawMessage
			switch {
			case brief != "":
				data, err := os.ReadFile(brief)
				if err != nil {
					return fmt.Errorf("reading brief: %w", err)
				}
				payload = agent.SeedPayload(cfg.Project, string(data))
			case inline != "":
				if !json.Valid([]byte(inline)) {
					return fmt.Errorf("--payload is not valid JSON")
				}
				payload = json.RawMessage(inline)
			default:
				payload = agent.SeedPayload(cfg.Project, "")
			}

			n, err := notify.NewUpdate(target, payload)
			if err != nil {
				return err
			}
			client := notify.NewClient(target, cfg)
			if err := client.Notify(ctx, target, n); err != nil {
				return fmt.Errorf("notifying %s: %w", target, err)
			}
			fmt.Printf("%s✓%s notified %s\n", ux.Green, ux.Reset, target)
			return nil
		},
	}
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Print the dependency graph",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ux.RenderGraph(role.DefaultGraph())
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Diagnose configuration and stuck roles",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return doctor.Run(ctx, cfg)
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .mesh/ directory with example config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'mesh docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// loadConfig locates the project root and loads .mesh/config.yaml.
func loadConfig() (*config.Config, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(projectRoot, ".mesh", "config.yaml")
	cfg, err := config.Load(configPath, filepath.Join(projectRoot, ".mesh"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// findProjectRoot walks up from cwd looking for .mesh/config.yaml.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		configPath := filepath.Join(dir, ".mesh", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .mesh/config.yaml found (searched from cwd to root)")
		}
		dir = parent
	}
}
