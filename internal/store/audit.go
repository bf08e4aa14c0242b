// ABOUTME: Append-only audit trail for allocation and token lifecycle events
// ABOUTME: Audit failures are logged but never fail the audited operation

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one recorded lifecycle event.
type AuditEntry struct {
	ID        string
	Action    string // e.g. "component.allocate", "token.delete"
	Actor     string
	Target    string
	Timestamp time.Time
	Detail    string
}

// audit appends an entry to the audit log. A failed append is logged
// and swallowed; the audited operation has already committed.
func (s *SQLiteStore) audit(ctx context.Context, action, actor, target, detail string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, actor, target, timestamp, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), action, actor, target,
		time.Now().UTC().Format(time.RFC3339), nullString(detail))
	if err != nil {
		s.logger.Error("audit append failed", "action", action, "error", err)
	}
}

// AuditLog returns the most recent audit entries, newest first, up to
// limit. A limit of 0 or less returns everything.
func (s *SQLiteStore) AuditLog(ctx context.Context, limit int) ([]*AuditEntry, error) {
	query := `
		SELECT id, action, actor, target, timestamp, detail
		FROM audit_log ORDER BY timestamp DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var ts string
		var detail *string
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.Target, &ts, &detail); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}
		if detail != nil {
			e.Detail = *detail
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
