// Package recovery repairs truncated generation output by asking the
// endpoint to continue from where it stopped.
package recovery

import (
	"context"
	"strings"
)

// ContinuePrompt is appended to the original conversation when requesting a
// continuation.
const ContinuePrompt = "The previous response was truncated. Continue the response from where it stopped, " +
	"using the same format. Do NOT repeat content already fully returned; only provide the continuation."

// ContinueFunc requests one continuation of a truncated response.
type ContinueFunc func(ctx context.Context) (string, error)

// closers are characters a complete response plausibly ends with.
const closers = "\n}]>;\"')"

// LikelyTruncated reports whether text shows signs of being cut short:
// an unterminated code fence, an abrupt final character, or more opening
// than closing braces. The signals are independent; any one is enough.
func LikelyTruncated(text string) bool {
	if text == "" {
		return false
	}

	if strings.Count(text, "```")%2 != 0 {
		return true
	}

	// Trailing spaces are noise, but a trailing newline is itself a closer
	// and must survive for the final-character check.
	trimmed := strings.TrimRight(text, " \t\r")
	if trimmed == "" {
		return false
	}
	if !strings.ContainsRune(closers, rune(trimmed[len(trimmed)-1])) {
		return true
	}

	return strings.Count(text, "{") > strings.Count(text, "}")
}

// Engine runs the bounded continuation loop.
type Engine struct {
	MaxAttempts int
}

// Recover extends text with continuation responses until the truncation
// heuristic clears or the attempt budget runs out. It never fails: a
// continuation error or an empty continuation ends the loop and whatever has
// accumulated so far is returned, along with the number of continuations
// actually appended.
func (e *Engine) Recover(ctx context.Context, text string, next ContinueFunc) (string, int) {
	full := text
	used := 0
	for attempt := 0; attempt < e.MaxAttempts; attempt++ {
		if !LikelyTruncated(full) {
			break
		}
		addition, err := next(ctx)
		if err != nil || addition == "" {
			break
		}
		full = full + "\n" + addition
		used++
	}
	return full, used
}
