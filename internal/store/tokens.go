// ABOUTME: Personal access token records keyed by SHA3-256 fingerprint
// ABOUTME: Plaintext tokens are never stored, only their hashes

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddToken stores a new personal token record. The label is required so
// users can tell their tokens apart when revoking; hash must be the hex
// SHA3-256 fingerprint of the token text.
func (s *SQLiteStore) AddToken(ctx context.Context, userID, hash, label string, expires time.Time) (*PersonalToken, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrLabelRequired
	}

	pt := &PersonalToken{
		ID:      uuid.New().String(),
		UserID:  userID,
		Hash:    hash,
		Label:   label,
		Created: time.Now().UTC(),
		Expires: expires.UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personal_tokens (id, user_id, token_hash, label, created, expires, last_used)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		pt.ID, pt.UserID, pt.Hash, pt.Label,
		pt.Created.Format(time.RFC3339), pt.Expires.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("adding personal token: %w", err)
	}

	s.audit(ctx, "token.add", userID, pt.ID, label)
	s.logger.Info("personal token added", "user", userID, "label", label)
	return pt, nil
}

// DeleteToken removes a token record. The record must belong to userID;
// deleting another user's token reads as ErrNotFound.
func (s *SQLiteStore) DeleteToken(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM personal_tokens WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting personal token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: token %s", ErrNotFound, id)
	}

	s.audit(ctx, "token.delete", userID, id, "")
	s.logger.Info("personal token deleted", "user", userID, "id", id)
	return nil
}

// ListTokens returns all token records for a user, newest first.
func (s *SQLiteStore) ListTokens(ctx context.Context, userID string) ([]*PersonalToken, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, token_hash, label, created, expires, last_used
		FROM personal_tokens WHERE user_id = ? ORDER BY created DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing personal tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*PersonalToken
	for rows.Next() {
		pt, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, pt)
	}
	return tokens, rows.Err()
}

// FindTokenByHash looks up a user's token record by fingerprint.
// Returns ErrNotFound when no record matches.
func (s *SQLiteStore) FindTokenByHash(ctx context.Context, userID, hash string) (*PersonalToken, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, token_hash, label, created, expires, last_used
		FROM personal_tokens WHERE user_id = ? AND token_hash = ?`, userID, hash)
	if err != nil {
		return nil, fmt.Errorf("finding personal token: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no token with that fingerprint", ErrNotFound)
	}
	return scanToken(rows)
}

// TouchToken records when a token was last exchanged.
func (s *SQLiteStore) TouchToken(ctx context.Context, id string, usedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE personal_tokens SET last_used = ? WHERE id = ?",
		usedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching personal token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking touch result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: token %s", ErrNotFound, id)
	}
	return nil
}

func scanToken(rows *sql.Rows) (*PersonalToken, error) {
	var pt PersonalToken
	var created, expires string
	var lastUsed sql.NullString

	if err := rows.Scan(&pt.ID, &pt.UserID, &pt.Hash, &pt.Label,
		&created, &expires, &lastUsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning personal token: %w", err)
	}

	var err error
	if pt.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("parsing created time: %w", err)
	}
	if pt.Expires, err = time.Parse(time.RFC3339, expires); err != nil {
		return nil, fmt.Errorf("parsing expiry time: %w", err)
	}
	if lastUsed.Valid {
		if pt.LastUsed, err = time.Parse(time.RFC3339, lastUsed.String); err != nil {
			return nil, fmt.Errorf("parsing last-used time: %w", err)
		}
	}
	return &pt, nil
}
