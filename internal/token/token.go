// ABOUTME: Token value type and wire-format constants for asf credential tokens
// ABOUTME: Wire form is asf_<component>_<entropy><checksum> with base62 segments

package token

import "context"

const (
	// Prefix is the literal issuer prefix carried by every token.
	Prefix = "asf"

	// ComponentMinLen and ComponentMaxLen bound the component segment,
	// which is lowercase ASCII letters only.
	ComponentMinLen = 3
	ComponentMaxLen = 6

	// EntropyLen is the exact length of the random segment.
	EntropyLen = 27

	// ChecksumLen is the exact length of the checksum segment.
	ChecksumLen = 6

	// MinLen and MaxLen are the total token lengths for the shortest
	// and longest component.
	MinLen = len(Prefix) + 1 + ComponentMinLen + 1 + EntropyLen + ChecksumLen
	MaxLen = len(Prefix) + 1 + ComponentMaxLen + 1 + EntropyLen + ChecksumLen
)

// Pattern is the published, unanchored detection pattern for the wire
// format. Third-party secret scanners can configure rules against it
// verbatim; the parser in this package implements the same grammar as
// an explicit state machine, so the two always agree. The leading
// checksum digit is restricted to 0-4 because the maximum CRC-32 value
// encodes to "4gfFC3".
const Pattern = `asf_([a-z]{3,6})_([0-9A-Za-z]{27})([0-4][0-9A-Za-z]{5})`

// Token is an immutable credential token value. Tokens are comparable
// and carry no ownership relationships; the zero value is not valid.
// Construct one through a Generator, Parse, or Validate.
type Token struct {
	component string
	entropy   string
	checksum  string
}

// Component returns the issuer namespace segment.
func (t Token) Component() string { return t.component }

// Entropy returns the 27-character random segment.
func (t Token) Entropy() string { return t.entropy }

// Checksum returns the 6-character base62 checksum segment.
func (t Token) Checksum() string { return t.checksum }

// String assembles the full wire form.
func (t Token) String() string {
	return Prefix + "_" + t.component + "_" + t.entropy + t.checksum
}

// ValidComponent reports whether s satisfies the component rule:
// 3 to 6 lowercase ASCII letters.
func ValidComponent(s string) bool {
	if len(s) < ComponentMinLen || len(s) > ComponentMaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Registry answers whether a component namespace is currently
// allocated. Implementations must be safe for concurrent use. A lookup
// that cannot produce a definitive answer must return a non-nil error
// rather than false.
type Registry interface {
	IsAllocated(ctx context.Context, component string) (bool, error)
}
