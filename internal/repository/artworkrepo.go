package repository

import (
	"context"

	"github.com/and161185/gallery/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ArtworkRepository provides catalog reads and the likes/reviews sub-collections.
type ArtworkRepository interface {
	// GetByID returns a single artwork.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error)
	// List returns the whole catalog.
	List(ctx context.Context) ([]model.Artwork, error)
	// Search returns artworks whose field contains query, ignoring case.
	Search(ctx context.Context, field model.SearchField, query string) ([]model.Artwork, error)
	// LikedBy returns artworks whose likes set contains the account.
	LikedBy(ctx context.Context, accountID uuid.UUID) ([]model.Artwork, error)

	// ToggleLike flips membership of accountID in the likes set and reports the
	// resulting state along with the artwork title.
	ToggleLike(ctx context.Context, artworkID, accountID uuid.UUID) (liked bool, title string, err error)
	// RemoveLike removes accountID from the likes set; absent is not an error.
	RemoveLike(ctx context.Context, artworkID, accountID uuid.UUID) error

	// UpsertReview creates the reviewer's review or replaces its text.
	UpsertReview(ctx context.Context, artworkID, reviewerID uuid.UUID, text string) error
	// Reviews returns an artwork's reviews oldest first.
	Reviews(ctx context.Context, artworkID uuid.UUID) ([]model.Review, error)
}
