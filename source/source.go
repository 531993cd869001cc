package source

import "errors"

// Source lists and loads modules.
type Source interface {
	// List returns the paths of the modules whose path relative to the
	// source root matches pattern.
	List(pattern string) ([]string, error)
	// Load returns the exports of the module at path.
	Load(path string) (map[string]any, error)
}

var (
	// ErrNotMain is returned for module files outside package main.
	ErrNotMain = errors.New("source: module must declare package main")
	// ErrNotFound is returned by Memory for unknown paths.
	ErrNotFound = errors.New("source: module not found")
)
