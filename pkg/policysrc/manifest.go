package policysrc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gateview-dev/gateview/pkg/authz"
)

// Manifest holds requirement entries keyed by page path pattern. A
// pattern is either a page path, matched exactly, or a prefix ending in
// "/*", which matches every page path under it. Manifest entries append
// to whatever requirements a page declares in code; they cannot remove
// them. Safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string][]authz.Spec
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string][]authz.Spec),
	}
}

// Parse replaces the manifest's entries with the given JSON document,
// an object mapping path patterns to requirement spec lists:
//
//	{
//	  "/admin/*":   [{"kind": "role", "value": "admin"}],
//	  "/dashboard": [{"kind": "authenticated"}]
//	}
//
// Patterns must start with "/" and every spec must validate. On error
// the manifest keeps its previous entries.
func (m *Manifest) Parse(data []byte) error {
	var raw map[string][]authz.Spec
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing requirement manifest: %w", err)
	}

	for pattern, specs := range raw {
		if !strings.HasPrefix(pattern, "/") {
			return fmt.Errorf("manifest pattern %q must start with /", pattern)
		}
		for i, spec := range specs {
			if err := spec.Validate(); err != nil {
				return fmt.Errorf("manifest pattern %q, spec %d: %w", pattern, i, err)
			}
		}
	}

	m.mu.Lock()
	m.entries = raw
	m.mu.Unlock()
	return nil
}

// Specs returns the manifest requirements covering a page path: exact
// entries first, then wildcard entries in pattern order. The returned
// slice is the caller's to keep.
func (m *Manifest) Specs(path string) []authz.Spec {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var patterns []string
	for pattern := range m.entries {
		if matchPattern(pattern, path) {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	sort.Slice(patterns, func(i, j int) bool {
		wi := strings.HasSuffix(patterns[i], "/*")
		wj := strings.HasSuffix(patterns[j], "/*")
		if wi != wj {
			return !wi
		}
		return patterns[i] < patterns[j]
	})

	var specs []authz.Spec
	for _, pattern := range patterns {
		specs = append(specs, m.entries[pattern]...)
	}
	return specs
}

// Set replaces the entry for a single pattern.
func (m *Manifest) Set(pattern string, specs []authz.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[string][]authz.Spec)
	}
	m.entries[pattern] = specs
}

// Len returns the number of patterns in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Patterns returns the manifest's patterns, sorted.
func (m *Manifest) Patterns() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	patterns := make([]string, 0, len(m.entries))
	for pattern := range m.entries {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// matchPattern reports whether a manifest pattern covers a page path.
// "/admin/*" covers "/admin/users" and "/admin/users/{id}" but not
// "/admin" itself; "/*" covers every page.
func matchPattern(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(path, pattern[:len(pattern)-1])
	}
	return false
}
