package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// FunctionSuffix marks background function modules.
	FunctionSuffix = ".function.go"
	// EndpointSuffix marks HTTP endpoint modules.
	EndpointSuffix = ".endpoint.go"
)

// DefaultExcludes lists dependency-install directories skipped by Scan.
var DefaultExcludes = []string{"vendor", "node_modules"}

// Pattern returns the recursive glob matching every file ending in suffix.
func Pattern(suffix string) string {
	return "**/*" + suffix
}

// Scan walks root and returns the absolute paths of files whose
// slash-separated path relative to root matches pattern. Directories named in
// excludes are not descended into. Paths are returned in walk order.
func Scan(root, pattern string, excludes []string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("discovery: invalid pattern %q", pattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve root %q: %w", root, err)
	}

	files := []string{}
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && slices.Contains(excludes, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: scan %s: %w", absRoot, err)
	}

	return files, nil
}

// ResolveGroup derives the group of the file at path. With groupByFolder the
// group is the parent of the file's directory, otherwise the directory
// itself. A path too shallow for the requested segment yields "".
func ResolveGroup(path string, groupByFolder bool) string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." {
		dir = ""
	}
	segments := strings.Split(dir, "/")

	idx := len(segments) - 1
	if groupByFolder {
		idx = len(segments) - 2
	}
	if idx < 0 || idx >= len(segments) {
		return ""
	}
	return segments[idx]
}

// TrimSuffix returns the base name of path without the convention suffix.
func TrimSuffix(path, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}
