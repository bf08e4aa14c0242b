// ABOUTME: Store interfaces and data types for component and token persistence
// ABOUTME: Defines Component, PersonalToken, and the errors callers branch on

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrComponentExists is returned when allocating a component name that
// is already taken.
var ErrComponentExists = errors.New("component already allocated")

// ErrLabelRequired is returned when adding a personal token without a
// label.
var ErrLabelRequired = errors.New("label is required")

// Component is an allocated issuer namespace.
type Component struct {
	Name        string    // 3-6 lowercase letters, unique
	Owner       string    // committee or team responsible for the namespace
	AllocatedBy string    // uid of the allocating admin
	AllocatedAt time.Time
}

// PersonalToken is a stored personal access token. Only the SHA3-256
// fingerprint of the token text is persisted, never the plaintext.
type PersonalToken struct {
	ID       string    // UUID v4
	UserID   string    // owning user's uid
	Hash     string    // hex SHA3-256 of the token text
	Label    string    // user-supplied description, required
	Created  time.Time
	Expires  time.Time
	LastUsed time.Time // zero until the token is first exchanged
}

// ComponentStore manages the persistent component allocation list. It
// satisfies token.Registry via IsAllocated.
type ComponentStore interface {
	IsAllocated(ctx context.Context, component string) (bool, error)
	AllocateComponent(ctx context.Context, name, owner, allocatedBy string) (*Component, error)
	ReleaseComponent(ctx context.Context, name, releasedBy string) error
	ListComponents(ctx context.Context) ([]*Component, error)
}

// TokenStore manages personal access token records.
type TokenStore interface {
	AddToken(ctx context.Context, userID, hash, label string, expires time.Time) (*PersonalToken, error)
	DeleteToken(ctx context.Context, userID, id string) error
	ListTokens(ctx context.Context, userID string) ([]*PersonalToken, error)
	FindTokenByHash(ctx context.Context, userID, hash string) (*PersonalToken, error)
	TouchToken(ctx context.Context, id string, usedAt time.Time) error
}
