package service

import (
	"context"
	"fmt"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// CatalogService answers read-only artwork queries. Searches match anywhere in
// the field and ignore case; no match is an empty slice, not an error.
type CatalogService interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error)
	All(ctx context.Context) ([]model.Artwork, error)
	ByArtist(ctx context.Context, q string) ([]model.Artwork, error)
	ByTitle(ctx context.Context, q string) ([]model.Artwork, error)
	ByCategory(ctx context.Context, q string) ([]model.Artwork, error)
	LikedBy(ctx context.Context, accountID uuid.UUID) ([]model.Artwork, error)
	Reviews(ctx context.Context, artworkID uuid.UUID) ([]model.Review, error)
}

type CatalogServiceImpl struct {
	artworks repository.ArtworkRepository
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(artworks repository.ArtworkRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{artworks: artworks}
}

// ParseID parses an artwork or account id from a path or form value.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %q", errs.ErrInvalidID, s)
	}
	return id, nil
}

func (s *CatalogServiceImpl) ByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error) {
	return s.artworks.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) All(ctx context.Context) ([]model.Artwork, error) {
	return s.artworks.List(ctx)
}

func (s *CatalogServiceImpl) ByArtist(ctx context.Context, q string) ([]model.Artwork, error) {
	return s.artworks.Search(ctx, model.FieldArtist, q)
}

func (s *CatalogServiceImpl) ByTitle(ctx context.Context, q string) ([]model.Artwork, error) {
	return s.artworks.Search(ctx, model.FieldTitle, q)
}

func (s *CatalogServiceImpl) ByCategory(ctx context.Context, q string) ([]model.Artwork, error) {
	return s.artworks.Search(ctx, model.FieldCategory, q)
}

func (s *CatalogServiceImpl) LikedBy(ctx context.Context, accountID uuid.UUID) ([]model.Artwork, error) {
	return s.artworks.LikedBy(ctx, accountID)
}

func (s *CatalogServiceImpl) Reviews(ctx context.Context, artworkID uuid.UUID) ([]model.Review, error) {
	return s.artworks.Reviews(ctx, artworkID)
}
