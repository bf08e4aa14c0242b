// ABOUTME: Component allocation operations backed by the components table
// ABOUTME: Implements token.Registry so validation can run against the database

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/releasekit/asfcred/internal/token"
)

// IsAllocated reports whether the component name is in the allocation
// table. This satisfies token.Registry.
func (s *SQLiteStore) IsAllocated(ctx context.Context, component string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM components WHERE name = ?", component).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking component allocation: %w", err)
	}
	return true, nil
}

// AllocateComponent reserves a component name. The name must satisfy
// the wire-format syntax and must not already be allocated.
func (s *SQLiteStore) AllocateComponent(ctx context.Context, name, owner, allocatedBy string) (*Component, error) {
	if !token.ValidComponent(name) {
		return nil, fmt.Errorf("%w: %q", token.ErrInvalidComponent, name)
	}

	c := &Component{
		Name:        name,
		Owner:       owner,
		AllocatedBy: allocatedBy,
		AllocatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO components (name, owner, allocated_by, allocated_at)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Owner, c.AllocatedBy, c.AllocatedAt.Format(time.RFC3339))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrComponentExists, name)
		}
		return nil, fmt.Errorf("allocating component: %w", err)
	}

	s.audit(ctx, "component.allocate", allocatedBy, name, owner)
	s.logger.Info("component allocated", "name", name, "owner", owner)
	return c, nil
}

// ReleaseComponent removes a component from the allocation table.
// Returns ErrNotFound when the name was never allocated.
func (s *SQLiteStore) ReleaseComponent(ctx context.Context, name, releasedBy string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM components WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("releasing component: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking release result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: component %s", ErrNotFound, name)
	}

	s.audit(ctx, "component.release", releasedBy, name, "")
	s.logger.Info("component released", "name", name)
	return nil
}

// ListComponents returns all allocated components ordered by name.
func (s *SQLiteStore) ListComponents(ctx context.Context) ([]*Component, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, owner, allocated_by, allocated_at
		FROM components ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	defer rows.Close()

	var components []*Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func scanComponent(rows *sql.Rows) (*Component, error) {
	var c Component
	var allocatedAt string

	if err := rows.Scan(&c.Name, &c.Owner, &c.AllocatedBy, &allocatedAt); err != nil {
		return nil, fmt.Errorf("scanning component: %w", err)
	}

	t, err := time.Parse(time.RFC3339, allocatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing allocation time: %w", err)
	}
	c.AllocatedAt = t
	return &c, nil
}
