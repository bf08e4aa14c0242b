// ABOUTME: Token generation for allocated component namespaces
// ABOUTME: Entropy is drawn by rejection sampling for a uniform base62 alphabet

package token

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/releasekit/asfcred/internal/base62"
)

// Generator mints tokens for allocated component namespaces. It is safe
// for concurrent use when its entropy reader is; crypto/rand.Reader is.
type Generator struct {
	registry Registry
	entropy  io.Reader
}

// NewGenerator returns a Generator backed by the given registry. A nil
// registry skips the allocation check, for callers that mint tokens
// outside any allocation discipline. If entropy is nil,
// crypto/rand.Reader is used. Any substitute source
// must be cryptographically secure outside of tests; the token's
// unguessability depends entirely on it.
func NewGenerator(registry Registry, entropy io.Reader) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{registry: registry, entropy: entropy}
}

// Generate mints a token for component. The component syntax is checked
// before the registry is consulted, and the registry answer before any
// entropy is consumed, so callers can distinguish ErrInvalidComponent,
// ErrUnallocatedComponent, and ErrEntropySource cleanly.
func (g *Generator) Generate(ctx context.Context, component string) (Token, error) {
	if !ValidComponent(component) {
		return Token{}, fmt.Errorf("%w: %q", ErrInvalidComponent, component)
	}
	if g.registry != nil {
		allocated, err := g.registry.IsAllocated(ctx, component)
		if err != nil {
			return Token{}, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
		}
		if !allocated {
			return Token{}, fmt.Errorf("%w: %q", ErrUnallocatedComponent, component)
		}
	}
	entropy, err := drawEntropy(g.entropy)
	if err != nil {
		return Token{}, err
	}
	return Token{component: component, entropy: entropy, checksum: checksumSegment(entropy)}, nil
}

// rejectAbove is the smallest byte value rejected by the sampler: 248
// is the greatest multiple of 62 that fits in a byte, so values below
// it map onto the alphabet without modulo bias.
const rejectAbove = 248

// drawEntropy draws EntropyLen characters, each independently uniform
// over the base62 alphabet, from src.
func drawEntropy(src io.Reader) (string, error) {
	out := make([]byte, 0, EntropyLen)
	buf := make([]byte, 2*EntropyLen)
	for len(out) < EntropyLen {
		n, err := src.Read(buf)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEntropySource, err)
		}
		if n == 0 {
			return "", fmt.Errorf("%w: empty read", ErrEntropySource)
		}
		for _, b := range buf[:n] {
			if b >= rejectAbove {
				continue
			}
			out = append(out, base62.Alphabet[b%base62.Base])
			if len(out) == EntropyLen {
				break
			}
		}
	}
	return string(out), nil
}
