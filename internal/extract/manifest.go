package extract

import (
	"strings"
)

// FileBlock represents a single extracted file from generation output.
type FileBlock struct {
	Path    string // e.g. "src/server.py"
	Content string // everything between this marker and the next
}

// fileMarker opens a new file block in a manifest response.
const fileMarker = "### File: "

// ParseManifest extracts file blocks from text formatted as:
//
//	### File: path/to/file.ext
//	```
//	file content
//	```
//
// Every line after a marker belongs to that file until the next marker or
// end of text; code fences inside a body are content, not structure. A
// single leading and trailing fence line around a body is cosmetic and gets
// stripped. Returns blocks in order of appearance.
func ParseManifest(text string) []FileBlock {
	lines := strings.Split(text, "\n")
	var blocks []FileBlock
	var current *FileBlock
	var buf []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = trimFences(buf)
		blocks = append(blocks, *current)
		current = nil
		buf = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, fileMarker) {
			flush()
			path := strings.TrimSpace(line[len(fileMarker):])
			if path == "" {
				continue
			}
			current = &FileBlock{Path: path}
			continue
		}
		if current != nil {
			buf = append(buf, line)
		}
	}
	flush()

	return blocks
}

// trimFences drops a single fence line at the start and end of a block body,
// plus surrounding blank lines. Interior fences stay.
func trimFences(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start < end && isFence(lines[start]) {
		start++
	}
	if end > start && isFence(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// isFence reports whether a line is exactly a code fence, optionally with a
// language tag.
func isFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	rest := strings.TrimPrefix(trimmed, "```")
	return !strings.ContainsAny(rest, " \t`")
}
