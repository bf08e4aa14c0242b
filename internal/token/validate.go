// ABOUTME: Token validation: anchored parse, checksum recompute, optional registry tier
// ABOUTME: Each failure surfaces a distinct error kind so callers can branch

package token

import (
	"context"
	"fmt"
)

// Validate checks candidate against the grammar and recomputes its
// checksum from the entropy segment. It does not consult any registry,
// which lets scanning tools run fully offline; use ValidateAllocated
// for the strict tier. On success the reconstructed Token is returned.
func Validate(candidate string) (Token, error) {
	tok, err := Parse(candidate)
	if err != nil {
		return Token{}, err
	}
	if tok.checksum != checksumSegment(tok.entropy) {
		return Token{}, ErrChecksumMismatch
	}
	return tok, nil
}

// ValidateAllocated runs Validate and then confirms the component is
// allocated in the registry. A registry lookup failure is reported as
// ErrRegistryUnavailable, never as ErrUnallocatedComponent.
func ValidateAllocated(ctx context.Context, candidate string, registry Registry) (Token, error) {
	tok, err := Validate(candidate)
	if err != nil {
		return Token{}, err
	}
	allocated, err := registry.IsAllocated(ctx, tok.component)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if !allocated {
		return Token{}, fmt.Errorf("%w: %q", ErrUnallocatedComponent, tok.component)
	}
	return tok, nil
}
