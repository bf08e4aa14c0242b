// ABOUTME: Two-tier detector for leaked credential tokens in free text
// ABOUTME: Structural grammar matches are confirmed by checksum before reporting

package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/releasekit/asfcred/internal/token"
)

// Finding is a confirmed token occurrence inside the scanned text. The
// token's grammar and checksum have both been verified; registry
// membership has not (see Confirm).
type Finding struct {
	Start int // byte offset of the token's first byte
	End   int // byte offset just past the token
	Token token.Token
}

// Scanner lazily yields confirmed findings from a block of text. It is
// restartable: each Next call picks up where the previous one stopped.
// Structural matches are non-overlapping, mirroring the published
// pattern's unanchored semantics; matches that fail the checksum tier
// are discarded silently, which is the primary false-positive filter.
type Scanner struct {
	text string
	pos  int
}

// New returns a Scanner over text.
func New(text string) *Scanner {
	return &Scanner{text: text}
}

// Next returns the next confirmed finding, or ok=false when the text is
// exhausted.
func (s *Scanner) Next() (finding Finding, ok bool) {
	for {
		span, found := token.FindNext(s.text, s.pos)
		if !found {
			s.pos = len(s.text)
			return Finding{}, false
		}
		s.pos = span.End

		tok, err := token.Validate(s.text[span.Start:span.End])
		if err != nil {
			continue // near miss, wrong checksum
		}
		return Finding{Start: span.Start, End: span.End, Token: tok}, true
	}
}

// All drains a fresh scanner over text and returns every confirmed
// finding in order.
func All(text string) []Finding {
	var findings []Finding
	s := New(text)
	for {
		f, ok := s.Next()
		if !ok {
			return findings
		}
		findings = append(findings, f)
	}
}

// Confirm applies the optional third tier: findings whose component is
// not allocated in the registry are dropped. A registry lookup failure
// aborts with token.ErrRegistryUnavailable rather than guessing.
func Confirm(ctx context.Context, findings []Finding, registry token.Registry) ([]Finding, error) {
	confirmed := make([]Finding, 0, len(findings))
	for _, f := range findings {
		allocated, err := registry.IsAllocated(ctx, f.Token.Component())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", token.ErrRegistryUnavailable, err)
		}
		if allocated {
			confirmed = append(confirmed, f)
		}
	}
	return confirmed, nil
}

// LineFinding locates a confirmed token within a line-oriented stream.
type LineFinding struct {
	Line  int // 1-based line number
	Col   int // 1-based byte column of the token's first byte
	Token token.Token
}

// maxLineLen bounds a single scanned line. Tokens never contain line
// breaks, so line-oriented scanning cannot split a match.
const maxLineLen = 1 << 20

// Reader scans r line by line and returns every confirmed finding.
func Reader(r io.Reader) ([]LineFinding, error) {
	var findings []LineFinding

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)

	line := 0
	for sc.Scan() {
		line++
		for _, f := range All(sc.Text()) {
			findings = append(findings, LineFinding{
				Line:  line,
				Col:   f.Start + 1,
				Token: f.Token,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return findings, nil
}
