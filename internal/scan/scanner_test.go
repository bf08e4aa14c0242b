// ABOUTME: Tests for the free-text token detector and its confirmation tiers
// ABOUTME: Covers embedding, near misses, adjacency, streams, and registry filtering

package scan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releasekit/asfcred/internal/token"
)

const (
	tokenZeros = "asf_sample_0000000000000000000000000002MvMGi"
	tokenZs    = "asf_sample_zzzzzzzzzzzzzzzzzzzzzzzzzzz13hv5A"

	// Correct grammar, wrong checksum (the zeros entropy with the z
	// vector's checksum).
	nearMiss = "asf_sample_00000000000000000000000000013hv5A"
)

type stubRegistry struct {
	allocated map[string]bool
	err       error
}

func (r *stubRegistry) IsAllocated(ctx context.Context, component string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.allocated[component], nil
}

func TestScanner_EmbeddedToken(t *testing.T) {
	text := "2026-08-25T10:11:12Z ERROR auth failed header=Authorization:" + tokenZeros + " retrying"

	findings := All(text)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, tokenZeros, text[f.Start:f.End])
	assert.Equal(t, "sample", f.Token.Component())
}

func TestScanner_NearMissDiscarded(t *testing.T) {
	text := "before " + nearMiss + " after"
	assert.Empty(t, All(text))
}

func TestScanner_NearMissAdjacentToRealToken(t *testing.T) {
	// The checksum tier must reject the near miss and still report the
	// adjacent real token.
	text := nearMiss + " " + tokenZeros

	findings := All(text)
	require.Len(t, findings, 1)
	assert.Equal(t, tokenZeros, text[findings[0].Start:findings[0].End])
}

func TestScanner_NoPartialOrOverlappingMatches(t *testing.T) {
	text := "x" + tokenZeros + tokenZs + "y"

	findings := All(text)
	require.Len(t, findings, 2)
	assert.Equal(t, 1, findings[0].Start)
	assert.Equal(t, 1+len(tokenZeros), findings[0].End)
	assert.Equal(t, findings[0].End, findings[1].Start)
	assert.Equal(t, tokenZs, text[findings[1].Start:findings[1].End])
}

func TestScanner_Restartable(t *testing.T) {
	text := tokenZeros + "\n" + tokenZs
	s := New(text)

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, tokenZeros, text[first.Start:first.End])

	second, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, tokenZs, text[second.Start:second.End])

	_, ok = s.Next()
	assert.False(t, ok)

	// A drained scanner stays drained.
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestScanner_PlainText(t *testing.T) {
	texts := []string{
		"",
		"nothing to see here",
		"asf_ is not a token, nor is asf_sample_",
		strings.Repeat("asf_", 50),
	}
	for _, text := range texts {
		assert.Empty(t, All(text), "text %q", text)
	}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	findings := All(tokenZeros + " " + tokenZs)
	require.Len(t, findings, 2)

	t.Run("drops unallocated components", func(t *testing.T) {
		reg := &stubRegistry{allocated: map[string]bool{}}
		confirmed, err := Confirm(ctx, findings, reg)
		require.NoError(t, err)
		assert.Empty(t, confirmed)
	})

	t.Run("keeps allocated components", func(t *testing.T) {
		reg := &stubRegistry{allocated: map[string]bool{"sample": true}}
		confirmed, err := Confirm(ctx, findings, reg)
		require.NoError(t, err)
		assert.Len(t, confirmed, 2)
	})

	t.Run("registry failure aborts", func(t *testing.T) {
		reg := &stubRegistry{err: errors.New("timeout")}
		_, err := Confirm(ctx, findings, reg)
		assert.ErrorIs(t, err, token.ErrRegistryUnavailable)
	})
}

func TestReader(t *testing.T) {
	input := "clean line\n" +
		"leak: " + tokenZeros + "\n" +
		"near miss: " + nearMiss + "\n" +
		tokenZs + " and " + tokenZeros + "\n"

	findings, err := Reader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, len("leak: ")+1, findings[0].Col)
	assert.Equal(t, tokenZeros, findings[0].Token.String())

	assert.Equal(t, 4, findings[1].Line)
	assert.Equal(t, 1, findings[1].Col)
	assert.Equal(t, tokenZs, findings[1].Token.String())

	assert.Equal(t, 4, findings[2].Line)
	assert.Equal(t, tokenZeros, findings[2].Token.String())
}
