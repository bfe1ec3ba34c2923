package recovery

import (
	"context"
	"errors"
	"testing"
)

func TestLikelyTruncated(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"abrupt ending", "the result is ...done", true},
		{"balanced json", `{"a": 1}`, false},
		{"trailing newline", "all good\n", false},
		{"prose then newline", "### File: README.md\nAll done.\n", false},
		{"unterminated fence", "```json\n{\"a\": 1}", true},
		{"even fences", "```json\n{\"a\": 1}\n```\n", false},
		{"unbalanced braces", `{"a": {"b": 1}`, true},
		{"ends mid-sentence", "and then we", true},
		{"ends with bracket", `[1, 2, 3]`, false},
		{"whitespace only", "   \n\t", false},
	}
	for _, c := range cases {
		if got := LikelyTruncated(c.text); got != c.want {
			t.Fatalf("%s: LikelyTruncated(%q) = %v, want %v", c.name, c.text, got, c.want)
		}
	}
}

func TestRecover_StopsWhenComplete(t *testing.T) {
	e := &Engine{MaxAttempts: 3}
	calls := 0
	got, used := e.Recover(context.Background(), `{"done": true}`, func(context.Context) (string, error) {
		calls++
		return "more", nil
	})
	if calls != 0 {
		t.Fatalf("continuation called %d times for complete text", calls)
	}
	if used != 0 || got != `{"done": true}` {
		t.Fatalf("got %q, used %d", got, used)
	}
}

func TestRecover_EmptyContinuationEndsLoop(t *testing.T) {
	e := &Engine{MaxAttempts: 3}
	calls := 0
	original := "this response was cut of"
	got, used := e.Recover(context.Background(), original, func(context.Context) (string, error) {
		calls++
		return "", nil
	})
	if calls != 1 {
		t.Fatalf("continuation called %d times, want 1", calls)
	}
	if got != original || used != 0 {
		t.Fatalf("got %q (used %d), want original unchanged", got, used)
	}
}

func TestRecover_AppendsUntilComplete(t *testing.T) {
	e := &Engine{MaxAttempts: 3}
	parts := []string{`"b": 2`, `}`}
	i := 0
	got, used := e.Recover(context.Background(), `{"a": 1,`, func(context.Context) (string, error) {
		p := parts[i]
		i++
		return p, nil
	})
	want := "{\"a\": 1,\n\"b\": 2\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if used != 2 {
		t.Fatalf("used = %d, want 2", used)
	}
}

func TestRecover_ContinuationErrorReturnsPartial(t *testing.T) {
	e := &Engine{MaxAttempts: 3}
	got, used := e.Recover(context.Background(), `{"a": 1,`, func(context.Context) (string, error) {
		return "", errors.New("endpoint down")
	})
	if got != `{"a": 1,` || used != 0 {
		t.Fatalf("got %q (used %d), want partial text preserved", got, used)
	}
}

func TestRecover_AttemptBudget(t *testing.T) {
	e := &Engine{MaxAttempts: 2}
	calls := 0
	_, used := e.Recover(context.Background(), "never complete because", func(context.Context) (string, error) {
		calls++
		return "still not complete and", nil
	})
	if calls != 2 || used != 2 {
		t.Fatalf("calls = %d, used = %d, want 2", calls, used)
	}
}
