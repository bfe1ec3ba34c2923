package doctor

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jorge-barreto/mesh/internal/config"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	ports := make(map[string]int)
	for _, r := range role.All {
		ports[string(r)] = 1 // closed
	}
	return &config.Config{
		Project: "demo",
		Host:    "127.0.0.1",
		Ports:   ports,
		Generation: config.Generation{
			APIKeyEnv: "MESH_DOCTOR_TEST_KEY",
		},
		Root: t.TempDir(),
	}
}

func TestCheckAPIKey(t *testing.T) {
	cfg := testConfig(t)

	f := checkAPIKey(cfg)
	if f.Severity != "warn" {
		t.Errorf("unset key severity = %q, want warn", f.Severity)
	}

	t.Setenv("MESH_DOCTOR_TEST_KEY", "secret")
	f = checkAPIKey(cfg)
	if f.Severity != "ok" {
		t.Errorf("set key severity = %q, want ok", f.Severity)
	}
}

func TestCheckState_Idle(t *testing.T) {
	cfg := testConfig(t)
	findings := checkState(cfg, role.Business)
	if len(findings) != 1 || findings[0].Severity != "ok" {
		t.Fatalf("findings = %+v", findings)
	}
	if findings[0].Message != "idle" {
		t.Errorf("Message = %q", findings[0].Message)
	}
}

func TestCheckState_Error(t *testing.T) {
	cfg := testConfig(t)
	dir := cfg.OutputDir(role.QA)
	if err := state.EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	st := &state.ServiceState{Role: "qa", Status: state.StatusError, Error: "generation call failed\nstack trace"}
	if err := st.Save(dir); err != nil {
		t.Fatal(err)
	}

	findings := checkState(cfg, role.QA)
	if len(findings) != 1 || findings[0].Severity != "fail" {
		t.Fatalf("findings = %+v", findings)
	}
	if findings[0].Message != "failed: generation call failed" {
		t.Errorf("Message = %q, want first line only", findings[0].Message)
	}
}

func TestCheckState_StaleProcessing(t *testing.T) {
	cfg := testConfig(t)
	dir := cfg.OutputDir(role.Developer)
	if err := state.EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	// Save always refreshes LastUpdate, so write a stale file directly.
	old := time.Now().Add(-time.Hour).Format(time.RFC3339Nano)
	raw := []byte(`{"role":"developer","last_update":"` + old + `","status":"processing"}`)
	if err := os.WriteFile(filepath.Join(dir, "state.json"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	findings := checkState(cfg, role.Developer)
	if len(findings) != 1 || findings[0].Severity != "warn" {
		t.Fatalf("findings = %+v", findings)
	}
}

func TestCheckState_CompletedWithoutResult(t *testing.T) {
	cfg := testConfig(t)
	dir := cfg.OutputDir(role.Architecture)
	if err := state.EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	st := &state.ServiceState{Role: "architecture", Status: state.StatusCompleted}
	if err := st.Save(dir); err != nil {
		t.Fatal(err)
	}

	findings := checkState(cfg, role.Architecture)
	if len(findings) != 1 || findings[0].Severity != "warn" {
		t.Fatalf("findings = %+v", findings)
	}

	if err := state.WriteResult(dir, map[string]string{"status": "success"}); err != nil {
		t.Fatal(err)
	}
	findings = checkState(cfg, role.Architecture)
	if findings[0].Severity != "ok" {
		t.Fatalf("findings after result = %+v", findings)
	}
}

func TestCheckLiveness(t *testing.T) {
	cfg := testConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"audit","status":"running","project":"demo"}`))
	}))
	defer srv.Close()
	_, portStr, _ := net.SplitHostPort(srv.Listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	cfg.Ports["audit"] = port

	probe := notify.NewClient("doctor", cfg)

	f := checkLiveness(context.Background(), probe, cfg, role.Audit)
	if f.Severity != "ok" {
		t.Errorf("reachable role severity = %q (%s)", f.Severity, f.Message)
	}

	f = checkLiveness(context.Background(), probe, cfg, role.Business)
	if f.Severity != "warn" {
		t.Errorf("unreachable role severity = %q", f.Severity)
	}
}

func TestCheckLiveness_WrongService(t *testing.T) {
	cfg := testConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"developer","status":"running","project":"demo"}`))
	}))
	defer srv.Close()
	_, portStr, _ := net.SplitHostPort(srv.Listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	cfg.Ports["audit"] = port

	probe := notify.NewClient("doctor", cfg)
	f := checkLiveness(context.Background(), probe, cfg, role.Audit)
	if f.Severity != "fail" {
		t.Errorf("mismatched service severity = %q (%s)", f.Severity, f.Message)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo"); got != "one" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
}
