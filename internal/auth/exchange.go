// ABOUTME: Exchanges a personal access token for a short-lived JWT
// ABOUTME: Checks token syntax, checksum, fingerprint, and expiry in order

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/releasekit/asfcred/internal/store"
	"github.com/releasekit/asfcred/internal/token"
)

// ErrExchangeDenied is returned whenever a presented token cannot be
// exchanged. The log carries the precise reason; the caller does not,
// so a probing client learns nothing from the error.
var ErrExchangeDenied = errors.New("token exchange denied")

// Exchanger swaps a valid, unexpired personal token for a JWT.
type Exchanger struct {
	tokens store.TokenStore
	issuer *Issuer
	logger *slog.Logger
}

// NewExchanger creates an exchanger over the given token store and
// JWT issuer.
func NewExchanger(tokens store.TokenStore, issuer *Issuer, logger *slog.Logger) *Exchanger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchanger{
		tokens: tokens,
		issuer: issuer,
		logger: logger.With("component", "exchange"),
	}
}

// Exchange validates the presented token text for uid and returns a
// signed JWT. The token must parse, carry a correct checksum, match a
// stored fingerprint for uid, and not be expired. Successful exchanges
// update the record's last-used time.
func (e *Exchanger) Exchange(ctx context.Context, uid, tokenText string) (string, error) {
	if _, err := token.Validate(tokenText); err != nil {
		e.logger.Warn("exchange rejected", "uid", uid, "reason", "malformed token", "error", err)
		return "", ErrExchangeDenied
	}

	record, err := e.tokens.FindTokenByHash(ctx, uid, Fingerprint(tokenText))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("exchange rejected", "uid", uid, "reason", "unknown fingerprint")
			return "", ErrExchangeDenied
		}
		return "", fmt.Errorf("looking up token: %w", err)
	}

	now := time.Now()
	if now.After(record.Expires) {
		e.logger.Warn("exchange rejected", "uid", uid, "reason", "token expired",
			"label", record.Label, "expired", record.Expires)
		return "", ErrExchangeDenied
	}

	jwt, err := e.issuer.Issue(uid)
	if err != nil {
		return "", fmt.Errorf("issuing JWT: %w", err)
	}

	if err := e.tokens.TouchToken(ctx, record.ID, now); err != nil {
		// The JWT is already minted; a failed touch only loses the
		// last-used timestamp.
		e.logger.Error("recording token use failed", "uid", uid, "id", record.ID, "error", err)
	}

	e.logger.Info("token exchanged", "uid", uid, "label", record.Label)
	return jwt, nil
}
