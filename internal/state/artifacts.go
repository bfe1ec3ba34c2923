package state

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jorge-barreto/mesh/internal/extract"
)

// ResultFile is the artifact a role writes on completion. Downstream
// watchers treat a create/modify of this (or any .json artifact) as a
// candidate notification.
const ResultFile = "result.json"

// EnsureDir creates a role's output directory.
func EnsureDir(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", outputDir, err)
	}
	return nil
}

// ListArtifacts returns the relative paths of every file under a role's
// output directory, sorted. Temp files from in-flight atomic writes are
// skipped.
func ListArtifacts(outputDir string) ([]string, error) {
	var artifacts []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(artifacts)
	return artifacts, nil
}

// WriteResult saves a run's structured outcome to result.json.
func WriteResult(outputDir string, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(outputDir, ResultFile), data, 0644)
}

// WriteFiles saves an extracted file manifest under the output directory,
// creating parent directories as needed. Paths that escape the output
// directory are rejected. Returns the relative paths written.
func WriteFiles(outputDir string, files []extract.FileBlock) ([]string, error) {
	var written []string
	for _, f := range files {
		rel := filepath.Clean(filepath.FromSlash(f.Path))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return written, fmt.Errorf("file path %q escapes output directory", f.Path)
		}
		path := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return written, err
		}
		written = append(written, filepath.ToSlash(rel))
	}
	return written, nil
}
