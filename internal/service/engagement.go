package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// Notifier appends a message to an account's inbox.
type Notifier interface {
	Notify(ctx context.Context, id uuid.UUID, message string) error
}

// EngagementService mutates likes, reviews and followed artists. Each call is one
// atomic write on one artwork or one account.
type EngagementService interface {
	// ToggleLike flips the account's like and reports the resulting state.
	// A new like notifies the account exactly once.
	ToggleLike(ctx context.Context, artworkID, accountID uuid.UUID) (bool, error)
	// Unlike removes the like; not having liked is not an error.
	Unlike(ctx context.Context, artworkID, accountID uuid.UUID) error
	// SubmitReview creates the account's review or replaces its text.
	SubmitReview(ctx context.Context, artworkID, accountID uuid.UUID, text string) error
	FollowArtist(ctx context.Context, accountID uuid.UUID, artist string) error
	UnfollowArtist(ctx context.Context, accountID uuid.UUID, artist string) error
}

type EngagementServiceImpl struct {
	artworks repository.ArtworkRepository
	accounts repository.AccountRepository
	notifier Notifier
}

// NewEngagementService constructs EngagementService.
func NewEngagementService(artworks repository.ArtworkRepository, accounts repository.AccountRepository, n Notifier) *EngagementServiceImpl {
	return &EngagementServiceImpl{artworks: artworks, accounts: accounts, notifier: n}
}

// LikeMessage is the notification recorded when an artwork is liked.
func LikeMessage(title string) string {
	return fmt.Sprintf("You liked '%s'", title)
}

func (s *EngagementServiceImpl) ToggleLike(ctx context.Context, artworkID, accountID uuid.UUID) (bool, error) {
	liked, title, err := s.artworks.ToggleLike(ctx, artworkID, accountID)
	if err != nil {
		return false, err
	}
	if !liked {
		return false, nil
	}
	if err := s.notifier.Notify(ctx, accountID, LikeMessage(title)); err != nil {
		return true, fmt.Errorf("like notification: %w", err)
	}
	return true, nil
}

func (s *EngagementServiceImpl) Unlike(ctx context.Context, artworkID, accountID uuid.UUID) error {
	return s.artworks.RemoveLike(ctx, artworkID, accountID)
}

func (s *EngagementServiceImpl) SubmitReview(ctx context.Context, artworkID, accountID uuid.UUID, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty review", errs.ErrValidation)
	}
	return s.artworks.UpsertReview(ctx, artworkID, accountID, text)
}

// FollowArtist adds the name exactly as given; matching on storage is case-sensitive.
func (s *EngagementServiceImpl) FollowArtist(ctx context.Context, accountID uuid.UUID, artist string) error {
	if artist == "" {
		return fmt.Errorf("%w: empty artist", errs.ErrValidation)
	}
	return s.accounts.AddFollowedArtist(ctx, accountID, artist)
}

func (s *EngagementServiceImpl) UnfollowArtist(ctx context.Context, accountID uuid.UUID, artist string) error {
	if artist == "" {
		return fmt.Errorf("%w: empty artist", errs.ErrValidation)
	}
	return s.accounts.RemoveFollowedArtist(ctx, accountID, artist)
}
