// ABOUTME: YAML-backed component allocation list with explicit reload
// ABOUTME: Lets offline scanners run the registry tier without a database

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/releasekit/asfcred/internal/token"
)

// Entry is one allocated component in a YAML allocation list.
type Entry struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner,omitempty"`
}

// allocationList is the on-disk document shape:
//
//	components:
//	  - name: tooling
//	    owner: infrastructure
type allocationList struct {
	Components []Entry `yaml:"components"`
}

// File is a registry backed by a YAML allocation list. The list is read
// once at load time; call Reload to pick up external edits. Lookups are
// served from memory, so a missing or changed file never fails
// IsAllocated between reloads.
type File struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// LoadFile reads the allocation list at path. Entries with invalid
// component names make the whole list invalid; a half-trusted registry
// is worse than none.
func LoadFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{path: path, logger: logger.With("component", "registry")}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the allocation list from disk, replacing the current
// set atomically on success and leaving it untouched on failure.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("reading allocation list: %w", err)
	}

	var list allocationList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parsing allocation list: %w", err)
	}

	entries := make(map[string]Entry, len(list.Components))
	for _, e := range list.Components {
		if !token.ValidComponent(e.Name) {
			return fmt.Errorf("%w: %q in %s", token.ErrInvalidComponent, e.Name, f.path)
		}
		entries[e.Name] = e
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()

	f.logger.Debug("allocation list loaded", "path", f.path, "components", len(entries))
	return nil
}

// IsAllocated reports whether component is in the loaded list.
func (f *File) IsAllocated(ctx context.Context, component string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.entries[component]
	return ok, nil
}

// Entries returns a copy of the loaded allocation entries.
func (f *File) Entries() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out
}
