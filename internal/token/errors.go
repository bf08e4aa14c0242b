// ABOUTME: Error taxonomy for token generation, parsing, and validation
// ABOUTME: Callers branch on sentinel errors; ParseError carries the rejecting state

package token

import (
	"errors"
	"fmt"
)

// ErrInvalidComponent indicates a component that fails the 3-6
// lowercase-letter rule. Generation reports it before any registry or
// entropy access.
var ErrInvalidComponent = errors.New("invalid component format")

// ErrUnallocatedComponent indicates a syntactically valid component
// that is not present in the registry.
var ErrUnallocatedComponent = errors.New("component not allocated")

// ErrRegistryUnavailable indicates the registry could not answer the
// membership check. Distinct from ErrUnallocatedComponent so callers
// can retry instead of treating the token as forged.
var ErrRegistryUnavailable = errors.New("registry unavailable")

// ErrMalformedToken indicates a candidate string that fails the
// structural grammar. Structural failures carry a *ParseError, which
// unwraps to this sentinel.
var ErrMalformedToken = errors.New("malformed token")

// ErrChecksumMismatch indicates a structurally valid token whose
// checksum segment does not match the CRC-32 recomputed from its
// entropy segment.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrEntropySource indicates the secure random source failed to supply
// bytes. Generation fails outright; there is no weaker fallback.
var ErrEntropySource = errors.New("entropy source failure")

// ParseError reports where the grammar state machine rejected a
// candidate string.
type ParseError struct {
	State  State  // machine state that rejected the input
	Pos    int    // byte offset of the offending character, or input end
	Reason string // short description of the mismatch
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed token: %s (state %s, byte %d)", e.Reason, e.State, e.Pos)
}

// Unwrap lets callers match structural failures with
// errors.Is(err, ErrMalformedToken).
func (e *ParseError) Unwrap() error { return ErrMalformedToken }
