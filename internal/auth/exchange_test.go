// ABOUTME: Tests for the personal token exchange path
// ABOUTME: Runs against a real in-memory SQLite store end to end

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releasekit/asfcred/internal/store"
	"github.com/releasekit/asfcred/internal/token"
)

func setupExchanger(t *testing.T) (*Exchanger, *store.SQLiteStore, *Issuer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.NewSQLiteStore(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	issuer := NewIssuer([]byte("test-secret"), time.Hour)
	return NewExchanger(s, issuer, logger), s, issuer
}

// mintToken generates a real token and registers its fingerprint.
func mintToken(t *testing.T, s *store.SQLiteStore, uid string, expires time.Time) string {
	t.Helper()
	gen := token.NewGenerator(nil, nil)
	tok, err := gen.Generate(context.Background(), "sample")
	require.NoError(t, err)

	_, err = s.AddToken(context.Background(), uid, Fingerprint(tok.String()), "test token", expires)
	require.NoError(t, err)
	return tok.String()
}

func TestExchange(t *testing.T) {
	ex, s, issuer := setupExchanger(t)
	ctx := context.Background()

	text := mintToken(t, s, "alice", time.Now().Add(time.Hour))

	signed, err := ex.Exchange(ctx, "alice", text)
	require.NoError(t, err)

	uid, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	// A successful exchange stamps last-used.
	record, err := s.FindTokenByHash(ctx, "alice", Fingerprint(text))
	require.NoError(t, err)
	assert.False(t, record.LastUsed.IsZero())
}

func TestExchange_MalformedToken(t *testing.T) {
	ex, _, _ := setupExchanger(t)

	for _, text := range []string{
		"",
		"not a token",
		"asf_sample_000000000000000000000000000000000",
	} {
		_, err := ex.Exchange(context.Background(), "alice", text)
		assert.ErrorIs(t, err, ErrExchangeDenied, "text %q", text)
	}
}

func TestExchange_BadChecksum(t *testing.T) {
	ex, s, _ := setupExchanger(t)

	text := mintToken(t, s, "alice", time.Now().Add(time.Hour))

	// Flip one entropy character to something it is not.
	pos := len(text) - 12
	flip := byte('X')
	if text[pos] == flip {
		flip = 'Y'
	}
	corrupted := text[:pos] + string(flip) + text[pos+1:]

	_, err := ex.Exchange(context.Background(), "alice", corrupted)
	assert.ErrorIs(t, err, ErrExchangeDenied)
}

func TestExchange_UnknownFingerprint(t *testing.T) {
	ex, _, _ := setupExchanger(t)

	// Structurally valid but never registered.
	gen := token.NewGenerator(nil, nil)
	tok, err := gen.Generate(context.Background(), "sample")
	require.NoError(t, err)

	_, err = ex.Exchange(context.Background(), "alice", tok.String())
	assert.ErrorIs(t, err, ErrExchangeDenied)
}

func TestExchange_WrongUser(t *testing.T) {
	ex, s, _ := setupExchanger(t)

	text := mintToken(t, s, "alice", time.Now().Add(time.Hour))

	_, err := ex.Exchange(context.Background(), "bob", text)
	assert.ErrorIs(t, err, ErrExchangeDenied)
}

func TestExchange_Expired(t *testing.T) {
	ex, s, _ := setupExchanger(t)

	text := mintToken(t, s, "alice", time.Now().Add(-time.Minute))

	_, err := ex.Exchange(context.Background(), "alice", text)
	assert.ErrorIs(t, err, ErrExchangeDenied)
}
