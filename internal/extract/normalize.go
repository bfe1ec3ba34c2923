package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// punctReplacer maps "smart" Unicode punctuation that generation endpoints
// like to emit onto plain ASCII. Box-drawing characters show up when a
// response embeds a rendered table or tree.
var punctReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"…", "...", // ellipsis
	"•", "-", // bullet
	"◦", "-", // white bullet
	"▪", "-", // small square bullet
	" ", " ", // no-break space
	"─", "-", // box horizontal
	"│", "|", // box vertical
	"┌", "+", // box corners and tees
	"┐", "+",
	"└", "+",
	"┘", "+",
	"├", "+",
	"┤", "+",
	"┬", "+",
	"┴", "+",
	"┼", "+",
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Normalize rewrites smart punctuation to ASCII, drops non-printable runes
// (keeping newlines and tabs), and removes trailing commas before a closing
// brace or bracket.
func Normalize(text string) string {
	text = punctReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// cleanJSON strips markdown code fences, trims whitespace, and appends any
// closing braces the text is short of. The brace repair is naive and
// best-effort; it makes a truncated object parseable, not correct.
func cleanJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	open := strings.Count(text, "{")
	closed := strings.Count(text, "}")
	if open > closed {
		text += strings.Repeat("}", open-closed)
	}
	return text
}
