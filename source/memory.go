package source

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/drblury/fnweaver/discovery"
)

// Memory is a Source backed by modules registered in memory. List returns
// paths in registration order and, like Dir, skips modules below an
// excluded directory name.
type Memory struct {
	root     string
	excludes []string

	mu      sync.Mutex
	paths   []string
	rels    map[string]string
	exports map[string]map[string]any
	errs    map[string]error
	loads   map[string]int
}

// NewMemory returns an empty Memory whose paths are joined onto root.
func NewMemory(root string) *Memory {
	return &Memory{
		root:     root,
		excludes: append([]string(nil), discovery.DefaultExcludes...),
		rels:     make(map[string]string),
		exports:  make(map[string]map[string]any),
		errs:     make(map[string]error),
		loads:    make(map[string]int),
	}
}

// Add registers a module at rel, a slash-separated path relative to the
// root, and returns its full path.
func (m *Memory) Add(rel string, exports map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.register(rel)
	m.exports[path] = exports
	delete(m.errs, path)
	return path
}

// AddError registers a module whose Load fails with err.
func (m *Memory) AddError(rel string, err error) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.register(rel)
	m.errs[path] = err
	delete(m.exports, path)
	return path
}

// SetExcludes replaces the directory names List skips.
func (m *Memory) SetExcludes(excludes ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.excludes = append([]string(nil), excludes...)
}

func (m *Memory) excluded(rel string) bool {
	dir := path.Dir(rel)
	if dir == "." {
		return false
	}
	return slices.ContainsFunc(strings.Split(dir, "/"), func(seg string) bool {
		return slices.Contains(m.excludes, seg)
	})
}

func (m *Memory) register(rel string) string {
	path := filepath.Join(m.root, filepath.FromSlash(rel))
	if _, ok := m.rels[path]; !ok {
		m.paths = append(m.paths, path)
	}
	m.rels[path] = filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	return path
}

// List implements Source.
func (m *Memory) List(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("source: invalid pattern %q", pattern)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matches := []string{}
	for _, p := range m.paths {
		rel := m.rels[p]
		if m.excluded(rel) {
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Load implements Source.
func (m *Memory) Load(path string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads[path]++
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	exports, ok := m.exports[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return exports, nil
}

// Loads reports how many times Load was called for path.
func (m *Memory) Loads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[path]
}
