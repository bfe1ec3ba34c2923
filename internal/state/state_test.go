package state

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jorge-barreto/mesh/internal/extract"
)

func TestLoad_NoExistingState(t *testing.T) {
	dir := t.TempDir()
	st, err := Load(dir, "qa")
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != StatusIdle {
		t.Fatalf("Status = %q, want idle", st.Status)
	}
	if st.Role != "qa" {
		t.Fatalf("Role = %q", st.Role)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := &ServiceState{Role: "developer", Status: StatusCompleted}
	if err := original.SetResult(map[string]any{"files": 3}); err != nil {
		t.Fatal(err)
	}
	if err := original.Save(dir); err != nil {
		t.Fatal(err)
	}
	if original.LastUpdate.IsZero() {
		t.Fatal("Save did not stamp LastUpdate")
	}
	loaded, err := Load(dir, "developer")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != StatusCompleted {
		t.Fatalf("Status = %q", loaded.Status)
	}
	// The state file is written indented, which reformats the embedded
	// raw message; compare the result compacted.
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, loaded.LastResult); err != nil {
		t.Fatal(err)
	}
	if compacted.String() != `{"files":3}` {
		t.Fatalf("LastResult = %s", loaded.LastResult)
	}
}

func TestSetStatus_ClearsError(t *testing.T) {
	s := &ServiceState{Status: StatusError, Error: "boom"}
	s.SetStatus(StatusProcessing)
	if s.Error != "" {
		t.Fatalf("Error = %q, want cleared", s.Error)
	}
	s.Error = "boom again"
	s.SetStatus(StatusError)
	if s.Error != "boom again" {
		t.Fatal("error status must retain description")
	}
}

func TestListArtifacts(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "tests"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"result.json", "tests/test_unit.py", "state.json.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ListArtifacts(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "result.json" || got[1] != "tests/test_unit.py" {
		t.Fatalf("artifacts = %v", got)
	}
}

func TestListArtifacts_MissingDir(t *testing.T) {
	got, err := ListArtifacts(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("artifacts = %v", got)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteFiles(dir, []extract.FileBlock{
		{Path: "src/app.py", Content: "print('hi')"},
		{Path: "README.md", Content: "docs"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(filepath.Join(dir, "src", "app.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "print('hi')" {
		t.Fatalf("content = %q", data)
	}
}

func TestWriteFiles_RejectsEscape(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteFiles(dir, []extract.FileBlock{{Path: "../evil.sh", Content: "rm -rf"}}); err == nil {
		t.Fatal("expected error for escaping path")
	}
	if _, err := WriteFiles(dir, []extract.FileBlock{{Path: "/etc/passwd", Content: "x"}}); err == nil {
		t.Fatal("expected error for absolute path")
	}
}
