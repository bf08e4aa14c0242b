// ABOUTME: Explicit state-machine parser for the token grammar
// ABOUTME: Anchored whole-string parsing plus restartable unanchored scanning

package token

import (
	"strings"

	"github.com/releasekit/asfcred/internal/base62"
)

// State identifies a position in the grammar state machine:
// Start -> Prefix -> Component -> Separator -> Entropy -> Checksum -> Accept,
// with Reject reachable from any state on a character-class mismatch or
// premature end of input.
type State int

const (
	StateStart State = iota
	StatePrefix
	StateComponent
	StateSeparator
	StateEntropy
	StateChecksum
	StateAccept
	StateReject
)

var stateNames = [...]string{
	StateStart:     "start",
	StatePrefix:    "prefix",
	StateComponent: "component",
	StateSeparator: "separator",
	StateEntropy:   "entropy",
	StateChecksum:  "checksum",
	StateAccept:    "accept",
	StateReject:    "reject",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// matchAt runs the grammar machine against s from offset start. On
// success it returns the parsed token and the offset just past the
// checksum. On rejection it returns a ParseError whose Pos is an
// absolute offset into s.
func matchAt(s string, start int) (Token, int, *ParseError) {
	const literal = Prefix + "_"
	state := StateStart
	i := start

	reject := func(reason string) (Token, int, *ParseError) {
		return Token{}, 0, &ParseError{State: state, Pos: i, Reason: reason}
	}

	// Literal "asf_".
	state = StatePrefix
	for k := 0; k < len(literal); k++ {
		if i >= len(s) {
			return reject("unexpected end of input")
		}
		if s[i] != literal[k] {
			return reject(`expected literal "asf_"`)
		}
		i++
	}

	// Component: 3-6 lowercase ASCII letters, consumed greedily.
	state = StateComponent
	compStart := i
	for i < len(s) && i-compStart < ComponentMaxLen && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	if i-compStart < ComponentMinLen {
		if i >= len(s) {
			return reject("unexpected end of input")
		}
		return reject("component shorter than 3 lowercase letters")
	}
	component := s[compStart:i]

	// Separator between component and entropy.
	state = StateSeparator
	if i >= len(s) {
		return reject("unexpected end of input")
	}
	if s[i] != '_' {
		return reject("expected '_' after component")
	}
	i++

	// Entropy: exactly 27 base62 characters.
	state = StateEntropy
	entStart := i
	for i < len(s) && i-entStart < EntropyLen {
		if !base62.IsDigit(s[i]) {
			return reject("character outside base62 alphabet")
		}
		i++
	}
	if i-entStart < EntropyLen {
		return reject("unexpected end of input")
	}
	entropy := s[entStart:i]

	// Checksum: 6 base62 characters, leading digit value 0-4.
	state = StateChecksum
	ckStart := i
	if i >= len(s) {
		return reject("unexpected end of input")
	}
	if s[i] < '0' || s[i] > '4' {
		return reject("leading checksum digit outside 0-4")
	}
	i++
	for i < len(s) && i-ckStart < ChecksumLen {
		if !base62.IsDigit(s[i]) {
			return reject("character outside base62 alphabet")
		}
		i++
	}
	if i-ckStart < ChecksumLen {
		return reject("unexpected end of input")
	}
	checksum := s[ckStart:i]

	return Token{component: component, entropy: entropy, checksum: checksum}, i, nil
}

// Parse matches the entire candidate string against the grammar. The
// checksum segment is read but not verified; use Validate for that.
// Structural failures are reported as a *ParseError wrapping
// ErrMalformedToken.
func Parse(candidate string) (Token, error) {
	tok, end, perr := matchAt(candidate, 0)
	if perr != nil {
		return Token{}, perr
	}
	if end != len(candidate) {
		return Token{}, &ParseError{State: StateAccept, Pos: end, Reason: "trailing data after checksum"}
	}
	return tok, nil
}

// Span is a structural grammar match inside free text. The spanned
// token's checksum has not yet been verified.
type Span struct {
	Start int // byte offset of the token's first byte
	End   int // byte offset just past the checksum
	Token Token
}

// FindNext returns the first structural match at or after offset from.
// Matches are leftmost-first; resuming with the previous span's End
// yields non-overlapping matches, mirroring the unanchored semantics of
// the published Pattern. ok is false when no further match exists.
func FindNext(text string, from int) (span Span, ok bool) {
	if from < 0 {
		from = 0
	}
	for from < len(text) {
		idx := strings.Index(text[from:], Prefix+"_")
		if idx < 0 {
			return Span{}, false
		}
		at := from + idx
		tok, end, perr := matchAt(text, at)
		if perr == nil {
			return Span{Start: at, End: end, Token: tok}, true
		}
		from = at + 1
	}
	return Span{}, false
}
