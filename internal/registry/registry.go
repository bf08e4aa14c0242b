// ABOUTME: In-memory component namespace registry with explicit allocation
// ABOUTME: Implements the token.Registry membership check for embedded callers

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/releasekit/asfcred/internal/token"
)

// Static is a thread-safe, in-memory allocation set. It suits tests and
// embedded use where the allocation list is known up front.
type Static struct {
	mu         sync.RWMutex
	components map[string]struct{}
}

// NewStatic returns a Static registry seeded with the given components.
// Component names that fail the syntax rule are rejected by Allocate;
// the constructor panics on them so misconfigured seeds fail loudly.
func NewStatic(components ...string) *Static {
	s := &Static{components: make(map[string]struct{}, len(components))}
	for _, c := range components {
		if err := s.Allocate(c); err != nil {
			panic(err)
		}
	}
	return s
}

// IsAllocated reports whether component is in the set. It never fails.
func (s *Static) IsAllocated(ctx context.Context, component string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[component]
	return ok, nil
}

// Allocate adds component to the set after checking its syntax.
func (s *Static) Allocate(component string) error {
	if !token.ValidComponent(component) {
		return fmt.Errorf("%w: %q", token.ErrInvalidComponent, component)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[component] = struct{}{}
	return nil
}

// Release removes component from the set. Releasing an absent component
// is a no-op.
func (s *Static) Release(component string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.components, component)
}

// Components returns the allocated names in sorted order.
func (s *Static) Components() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.components))
	for c := range s.components {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
