// Package export holds the map a serverless host consumes: one bucket per
// group, each carrying background functions and at most one HTTP entry point.
package export

import (
	"maps"
	"net/http"
	"slices"
)

// EntryPointKey is the reserved bucket key holding a group's HTTP entry point.
const EntryPointKey = "api"

// Bucket maps symbol names to exported values for a single group.
type Bucket map[string]any

// Map maps group identifiers to their buckets. It is owned by the caller and
// mutated in place during assembly.
type Map map[string]Bucket

// Bucket returns the bucket for group, creating it when absent.
func (m Map) Bucket(group string) Bucket {
	b, ok := m[group]
	if !ok || b == nil {
		b = make(Bucket)
		m[group] = b
	}
	return b
}

// Merge copies values into the group's bucket in sorted key order and
// returns the keys that replaced an existing entry. Values from later calls
// win on collision.
func (m Map) Merge(group string, values map[string]any) []string {
	b := m.Bucket(group)

	var replaced []string
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, exists := b[key]; exists {
			replaced = append(replaced, key)
		}
		b[key] = values[key]
	}
	return replaced
}

// SetEntryPoint stores h under EntryPointKey, replacing any previous value.
func (m Map) SetEntryPoint(group string, h http.Handler) {
	m.Bucket(group)[EntryPointKey] = h
}

// EntryPoint returns the group's HTTP entry point, if any.
func (m Map) EntryPoint(group string) (http.Handler, bool) {
	b, ok := m[group]
	if !ok {
		return nil, false
	}
	h, ok := b[EntryPointKey].(http.Handler)
	return h, ok
}

// Groups returns the group identifiers in sorted order.
func (m Map) Groups() []string {
	return slices.Sorted(maps.Keys(m))
}

// Functions returns the sorted names of every entry except the entry point.
func (b Bucket) Functions() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		if name == EntryPointKey {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
