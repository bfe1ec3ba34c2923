// Package extract recovers a structured payload from noisy generation
// output. Strategies are tried in a fixed order and the first success wins;
// when every strategy fails the caller gets the normalized text back as a
// raw result, never an error.
package extract

import (
	"encoding/json"
	"regexp"
)

// Mode selects what the caller expects the payload to be.
type Mode int

const (
	// ModeJSON expects a single JSON document.
	ModeJSON Mode = iota
	// ModeFiles expects a file manifest ("### File: path" blocks).
	ModeFiles
)

// Kind tags which strategy family produced a Result.
type Kind string

const (
	KindJSON  Kind = "json"
	KindFiles Kind = "files"
	KindRaw   Kind = "raw"
)

// Result is the discriminated outcome of an extraction. Exactly one of JSON
// or Files is populated for its kind; Raw always carries the normalized
// source text for diagnosis.
type Result struct {
	Kind  Kind
	JSON  any
	Files []FileBlock
	Raw   string
}

// OK reports whether a structured payload was recovered.
func (r Result) OK() bool {
	return r.Kind != KindRaw
}

// Extract runs the strategy chain appropriate for mode. It keeps no state
// between calls; the result is owned by the caller.
func Extract(text string, mode Mode) Result {
	normalized := Normalize(text)

	if mode == ModeFiles {
		if files := ParseManifest(text); len(files) > 0 {
			return Result{Kind: KindFiles, Files: files, Raw: normalized}
		}
		return Result{Kind: KindRaw, Raw: normalized}
	}

	if v, ok := tryParse(cleanJSON(text)); ok {
		return Result{Kind: KindJSON, JSON: v, Raw: normalized}
	}
	if v, ok := tryParse(cleanJSON(normalized)); ok {
		return Result{Kind: KindJSON, JSON: v, Raw: normalized}
	}
	if v, ok := fencedJSON(text); ok {
		return Result{Kind: KindJSON, JSON: v, Raw: normalized}
	}
	if v, ok := scanBalanced(normalized); ok {
		return Result{Kind: KindJSON, JSON: v, Raw: normalized}
	}
	return Result{Kind: KindRaw, Raw: normalized}
}

func tryParse(text string) (any, bool) {
	if text == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// fencedJSON parses every fenced block explicitly labeled json and returns
// the first that parses.
func fencedJSON(text string) (any, bool) {
	for _, m := range fencedJSONRe.FindAllStringSubmatch(text, -1) {
		if v, ok := tryParse(cleanJSON(Normalize(m[1]))); ok {
			return v, true
		}
	}
	return nil, false
}

// balancedRe matches brace-delimited substrings tolerant of one level of
// nesting.
var balancedRe = regexp.MustCompile(`(?s)\{(?:[^{}]|\{[^{}]*\})*\}`)

// scanBalanced parses every balanced-brace candidate and returns the longest
// one that parses. Longest wins over first so the most complete candidate is
// preferred.
func scanBalanced(text string) (any, bool) {
	var best any
	bestLen := 0
	for _, candidate := range balancedRe.FindAllString(text, -1) {
		v, ok := tryParse(candidate)
		if !ok {
			continue
		}
		if len(candidate) > bestLen {
			bestLen = len(candidate)
			best = v
		}
	}
	return best, bestLen > 0
}
