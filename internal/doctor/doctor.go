package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorge-barreto/mesh/internal/config"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/state"
	"github.com/jorge-barreto/mesh/internal/ux"
)

// stuckAfter is how long a role may sit in processing before doctor
// flags it. Generation plus continuations should finish well inside this.
const stuckAfter = 15 * time.Minute

// Finding is a single diagnostic observation about one role or the
// pipeline as a whole.
type Finding struct {
	Role     string // empty for pipeline-wide findings
	Severity string // "ok", "warn", "fail"
	Message  string
}

// Run inspects the configuration, every role's persisted state, and every
// role's live endpoint, then prints findings with suggested next steps.
func Run(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("\n%s%s══ Doctor: inspecting pipeline %q ══%s\n\n",
		ux.Bold, ux.Cyan, cfg.Project, ux.Reset)

	findings := Diagnose(ctx, cfg)

	failures := 0
	for _, f := range findings {
		printFinding(f)
		if f.Severity == "fail" {
			failures++
		}
	}

	fmt.Println()
	if failures > 0 {
		return fmt.Errorf("%d problem(s) found", failures)
	}
	fmt.Printf("%sNo problems found.%s\n\n", ux.Green, ux.Reset)
	return nil
}

// Diagnose produces findings without printing. Checks run in a fixed
// order: environment, then per-role state, then per-role liveness.
func Diagnose(ctx context.Context, cfg *config.Config) []Finding {
	var findings []Finding

	findings = append(findings, checkAPIKey(cfg))

	for _, r := range role.All {
		findings = append(findings, checkState(cfg, r)...)
	}

	probe := notify.NewClient("doctor", cfg)
	for _, r := range role.All {
		findings = append(findings, checkLiveness(ctx, probe, cfg, r))
	}

	return findings
}

func checkAPIKey(cfg *config.Config) Finding {
	env := cfg.Generation.APIKeyEnv
	if os.Getenv(env) == "" {
		return Finding{
			Severity: "warn",
			Message:  fmt.Sprintf("%s is not set; generation calls will be unauthenticated", env),
		}
	}
	return Finding{Severity: "ok", Message: fmt.Sprintf("%s is set", env)}
}

// checkState reads one role's persisted state and flags error states,
// stale processing, and completed runs that never published a result.
func checkState(cfg *config.Config, r role.Role) []Finding {
	name := string(r)
	outputDir := cfg.OutputDir(r)

	st, err := state.Load(outputDir, name)
	if err != nil {
		return []Finding{{Role: name, Severity: "fail",
			Message: fmt.Sprintf("state unreadable: %v", err)}}
	}

	switch st.Status {
	case state.StatusError:
		msg := "failed"
		if st.Error != "" {
			msg = fmt.Sprintf("failed: %s", firstLine(st.Error))
		}
		return []Finding{{Role: name, Severity: "fail", Message: msg}}

	case state.StatusProcessing:
		age := time.Since(st.LastUpdate)
		if age > stuckAfter {
			return []Finding{{Role: name, Severity: "warn",
				Message: fmt.Sprintf("processing for %s; likely stuck", age.Round(time.Minute))}}
		}
		return []Finding{{Role: name, Severity: "ok", Message: "processing"}}

	case state.StatusCompleted:
		if _, err := os.Stat(filepath.Join(outputDir, state.ResultFile)); err != nil {
			return []Finding{{Role: name, Severity: "warn",
				Message: "completed but result.json is missing; dependents will not see this run"}}
		}
		return []Finding{{Role: name, Severity: "ok", Message: "completed"}}

	default:
		return []Finding{{Role: name, Severity: "ok", Message: "idle"}}
	}
}

func checkLiveness(ctx context.Context, probe *notify.Client, cfg *config.Config, r role.Role) Finding {
	name := string(r)
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status, err := probe.Status(probeCtx, r)
	if err != nil {
		return Finding{Role: name, Severity: "warn",
			Message: fmt.Sprintf("not reachable on %s; start it with 'mesh serve %s'", cfg.Addr(r), name)}
	}
	if status["service"] != name {
		return Finding{Role: name, Severity: "fail",
			Message: fmt.Sprintf("port %d answers as %q; check the ports table", cfg.Port(r), status["service"])}
	}
	return Finding{Role: name, Severity: "ok", Message: "reachable"}
}

func printFinding(f Finding) {
	label := "pipeline"
	if f.Role != "" {
		label = f.Role
	}
	switch f.Severity {
	case "fail":
		fmt.Printf("  %s✗%s %-14s %s\n", ux.Red, ux.Reset, label, f.Message)
	case "warn":
		fmt.Printf("  %s!%s %-14s %s\n", ux.Yellow, ux.Reset, label, f.Message)
	default:
		fmt.Printf("  %s✓%s %-14s %s\n", ux.Green, ux.Reset, label, f.Message)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
