package postgres

import (
	"context"
	"fmt"

	"github.com/and161185/gallery/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ArtworkRepo implements repository.ArtworkRepository using PostgreSQL.
// Likes are stored as a text[] of account ids on the artwork row.
type ArtworkRepo struct{ db *DB }

// NewArtworkRepo constructs an artwork repository.
func NewArtworkRepo(db *DB) *ArtworkRepo { return &ArtworkRepo{db: db} }

const selectArtwork = `
SELECT id, title, artist, year, category, medium, description, poster, likes
FROM artworks`

func scanArtwork(row pgx.Row) (model.Artwork, error) {
	var (
		a     model.Artwork
		likes []string
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Artist, &a.Year, &a.Category, &a.Medium, &a.Description, &a.Poster, &likes); err != nil {
		return model.Artwork{}, err
	}
	a.Likes = make([]uuid.UUID, 0, len(likes))
	for _, s := range likes {
		id, err := uuid.FromString(s)
		if err != nil {
			return model.Artwork{}, fmt.Errorf("artwork %s: bad like %q: %w", a.ID, s, err)
		}
		a.Likes = append(a.Likes, id)
	}
	return a, nil
}

func (r *ArtworkRepo) list(ctx context.Context, q string, args ...any) ([]model.Artwork, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []model.Artwork{}
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID selects an artwork by ID.
func (r *ArtworkRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error) {
	a, err := scanArtwork(r.db.Pool.QueryRow(ctx, selectArtwork+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// List returns the whole catalog ordered by title.
func (r *ArtworkRepo) List(ctx context.Context) ([]model.Artwork, error) {
	return r.list(ctx, selectArtwork+` ORDER BY title, id`)
}

func searchColumn(f model.SearchField) (string, error) {
	switch f {
	case model.FieldArtist:
		return "artist", nil
	case model.FieldTitle:
		return "title", nil
	case model.FieldCategory:
		return "category", nil
	default:
		return "", fmt.Errorf("unknown search field %q", f)
	}
}

// Search matches query anywhere in the field, ignoring case. The query is
// compared literally; it is never interpreted as a pattern.
func (r *ArtworkRepo) Search(ctx context.Context, field model.SearchField, query string) ([]model.Artwork, error) {
	col, err := searchColumn(field)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, selectArtwork+` WHERE strpos(lower(`+col+`), lower($1)) > 0 ORDER BY title, id`, query)
}

// LikedBy returns artworks liked by the account.
func (r *ArtworkRepo) LikedBy(ctx context.Context, accountID uuid.UUID) ([]model.Artwork, error) {
	return r.list(ctx, selectArtwork+` WHERE $1 = ANY(likes) ORDER BY title, id`, accountID.String())
}

// ToggleLike flips membership in one statement; the row lock taken by UPDATE
// serializes concurrent toggles on the same artwork.
func (r *ArtworkRepo) ToggleLike(ctx context.Context, artworkID, accountID uuid.UUID) (bool, string, error) {
	const q = `
UPDATE artworks
SET likes = CASE WHEN $2 = ANY(likes) THEN array_remove(likes, $2) ELSE array_append(likes, $2) END
WHERE id = $1
RETURNING $2 = ANY(likes), title`
	var (
		liked bool
		title string
	)
	if err := r.db.Pool.QueryRow(ctx, q, artworkID, accountID.String()).Scan(&liked, &title); err != nil {
		return false, "", mapErr(err)
	}
	return liked, title, nil
}

// RemoveLike removes the account from the likes set.
func (r *ArtworkRepo) RemoveLike(ctx context.Context, artworkID, accountID uuid.UUID) error {
	const q = `UPDATE artworks SET likes = array_remove(likes, $2) WHERE id = $1`
	return affectedOne(r.db.Pool.Exec(ctx, q, artworkID, accountID.String()))
}

// UpsertReview keeps at most one review per (artwork, reviewer). On conflict only
// the text changes; created_at keeps the first submission time.
func (r *ArtworkRepo) UpsertReview(ctx context.Context, artworkID, reviewerID uuid.UUID, text string) error {
	const q = `
INSERT INTO artwork_reviews (artwork_id, reviewer_id, text)
VALUES ($1, $2, $3)
ON CONFLICT (artwork_id, reviewer_id) DO UPDATE SET text = EXCLUDED.text`
	_, err := r.db.Pool.Exec(ctx, q, artworkID, reviewerID, text)
	return mapErr(err)
}

// Reviews returns an artwork's reviews with reviewer names, oldest first.
func (r *ArtworkRepo) Reviews(ctx context.Context, artworkID uuid.UUID) ([]model.Review, error) {
	const q = `
SELECT r.artwork_id, r.reviewer_id, a.username, r.text, r.created_at
FROM artwork_reviews r JOIN accounts a ON a.id = r.reviewer_id
WHERE r.artwork_id = $1
ORDER BY r.created_at, r.reviewer_id`
	rows, err := r.db.Pool.Query(ctx, q, artworkID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ArtworkID, &rv.ReviewerID, &rv.ReviewerName, &rv.Text, &rv.Date); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
