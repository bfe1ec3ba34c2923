package extract

import (
	"testing"
)

func asMap(t *testing.T, r Result) map[string]any {
	t.Helper()
	if r.Kind != KindJSON {
		t.Fatalf("Kind = %q, want json (raw: %q)", r.Kind, r.Raw)
	}
	m, ok := r.JSON.(map[string]any)
	if !ok {
		t.Fatalf("JSON is %T, want map", r.JSON)
	}
	return m
}

func TestExtract_DirectJSON(t *testing.T) {
	m := asMap(t, Extract(`{"status": "success", "count": 3}`, ModeJSON))
	if m["status"] != "success" {
		t.Fatalf("status = %v", m["status"])
	}
}

func TestExtract_FencedWrapper(t *testing.T) {
	m := asMap(t, Extract("```json\n{\"a\": 1}\n```", ModeJSON))
	if m["a"] != float64(1) {
		t.Fatalf("a = %v", m["a"])
	}
}

func TestExtract_SmartPunctuation(t *testing.T) {
	// Curly quotes and a trailing comma, as endpoints love to produce.
	input := "{“title”: “plan”, \"items\": [1, 2,]}"
	m := asMap(t, Extract(input, ModeJSON))
	if m["title"] != "plan" {
		t.Fatalf("title = %v", m["title"])
	}
}

func TestExtract_BraceRepair(t *testing.T) {
	m := asMap(t, Extract(`{"a": 1, "b": {"c": 2}`, ModeJSON))
	b, ok := m["b"].(map[string]any)
	if !ok || b["c"] != float64(2) {
		t.Fatalf("b = %v", m["b"])
	}
}

// A fenced json block must win over a longer unfenced object found later:
// the strategy order is fixed, not best-candidate-across-strategies.
func TestExtract_FencedBeatsLongerUnfenced(t *testing.T) {
	input := "Here is the summary:\n" +
		"```json\n{\"picked\": \"fenced\"}\n```\n" +
		"And for context, the full record was " +
		`{"picked": "unfenced", "padding": "a much longer object than the fenced one"} as shown.`
	m := asMap(t, Extract(input, ModeJSON))
	if m["picked"] != "fenced" {
		t.Fatalf("picked = %v, want fenced", m["picked"])
	}
}

// Direct parse of the whole blob fails here because of the commentary, so
// extraction falls through to the balanced scan; the longest parseable
// candidate wins over the first.
func TestExtract_BalancedScanLongestWins(t *testing.T) {
	input := `The config {"short": 1} is applied before ` +
		`{"longer": {"nested": true}, "fields": "this candidate is longer"} finally.`
	m := asMap(t, Extract(input, ModeJSON))
	if _, ok := m["longer"]; !ok {
		t.Fatalf("got %v, want longest candidate", m)
	}
}

func TestExtract_RawFallback(t *testing.T) {
	r := Extract("no structure here at all", ModeJSON)
	if r.OK() {
		t.Fatal("expected raw fallback")
	}
	if r.Kind != KindRaw || r.Raw != "no structure here at all" {
		t.Fatalf("Kind = %q, Raw = %q", r.Kind, r.Raw)
	}
}

func TestExtract_RawFallbackIsNormalized(t *testing.T) {
	r := Extract("nothing “structured” here", ModeJSON)
	if r.OK() {
		t.Fatal("expected raw fallback")
	}
	if r.Raw != `nothing "structured" here` {
		t.Fatalf("Raw = %q", r.Raw)
	}
}

func TestExtract_FilesMode(t *testing.T) {
	input := "### File: src/app.py\n```\nprint('hi')\n```\n### File: README.md\nJust text.\n"
	r := Extract(input, ModeFiles)
	if r.Kind != KindFiles {
		t.Fatalf("Kind = %q", r.Kind)
	}
	if len(r.Files) != 2 {
		t.Fatalf("got %d files", len(r.Files))
	}
	if r.Files[0].Path != "src/app.py" || r.Files[0].Content != "print('hi')" {
		t.Fatalf("file 0 = %+v", r.Files[0])
	}
	if r.Files[1].Path != "README.md" || r.Files[1].Content != "Just text." {
		t.Fatalf("file 1 = %+v", r.Files[1])
	}
}

// Zero files in files mode is a failure, not an empty success.
func TestExtract_FilesModeNoMarkers(t *testing.T) {
	r := Extract(`{"this": "is json, not a manifest"}`, ModeFiles)
	if r.Kind != KindRaw {
		t.Fatalf("Kind = %q, want raw", r.Kind)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a — b", "a - b"},
		{"wait…", "wait..."},
		{"• item", "- item"},
		{"│ cell │", "| cell |"},
		{"keep\ttabs\nand lines", "keep\ttabs\nand lines"},
		{"ctrl\x00\x07chars", "ctrlchars"},
		{`{"a": 1,}`, `{"a": 1}`},
		{`[1, 2, ]`, `[1, 2]`},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
