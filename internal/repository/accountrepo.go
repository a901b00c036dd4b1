// Package repository defines storage interfaces implemented by concrete backends.
//
// Every mutating method is a single atomic statement against one account or one
// artwork; none of them read-then-write.
package repository

import (
	"context"

	"github.com/and161185/gallery/internal/model"
	"github.com/gofrs/uuid/v5"
)

// AccountRepository provides access to account documents.
type AccountRepository interface {
	// Create inserts a new account. Returns errs.ErrDuplicateUsername on conflict.
	Create(ctx context.Context, a *model.Account) error
	// GetByID loads an account by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// GetByUsername loads an account by username.
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	// SetSessionToken overwrites the active session token unconditionally.
	SetSessionToken(ctx context.Context, id uuid.UUID, token string) error
	// ClearSessionToken clears the token only if it is still the given one.
	ClearSessionToken(ctx context.Context, id uuid.UUID, token string) (bool, error)
	// SetArtist sets the role flag.
	SetArtist(ctx context.Context, id uuid.UUID, isArtist bool) error
	// AddFollowedArtist adds artist to the followed set if absent.
	AddFollowedArtist(ctx context.Context, id uuid.UUID, artist string) error
	// RemoveFollowedArtist removes artist from the followed set.
	RemoveFollowedArtist(ctx context.Context, id uuid.UUID, artist string) error
}

// NotificationRepository provides access to an account's notification inbox.
type NotificationRepository interface {
	// Append adds an unread notification stamped with the current time.
	Append(ctx context.Context, accountID uuid.UUID, message string) error
	// List returns notifications oldest first.
	List(ctx context.Context, accountID uuid.UUID) ([]model.Notification, error)
	// MarkAllRead flips the read flag on every notification of the account.
	MarkAllRead(ctx context.Context, accountID uuid.UUID) error
}
