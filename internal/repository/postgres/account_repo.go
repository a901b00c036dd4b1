package postgres

import (
	"context"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements repository.AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

const selectAccount = `
SELECT id, username, pwd_hash, is_artist, active_session_token, followed_artists, created_at
FROM accounts`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		a     model.Account
		token *string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.PwdHash, &a.IsArtist, &token, &a.FollowedArtists, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	if token != nil {
		a.ActiveSessionToken = *token
	}
	return &a, nil
}

// Create inserts a new account row.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, username, pwd_hash, is_artist)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, a.ID, a.Username, a.PwdHash, a.IsArtist)
	if isUniqueViolation(err) {
		return errs.ErrDuplicateUsername
	}
	return err
}

// GetByID selects an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return scanAccount(r.db.Pool.QueryRow(ctx, selectAccount+` WHERE id = $1`, id))
}

// GetByUsername selects an account by username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	return scanAccount(r.db.Pool.QueryRow(ctx, selectAccount+` WHERE username = $1`, username))
}

// SetSessionToken overwrites the active session; last writer wins.
func (r *AccountRepo) SetSessionToken(ctx context.Context, id uuid.UUID, token string) error {
	const q = `UPDATE accounts SET active_session_token = $2 WHERE id = $1`
	return affectedOne(r.db.Pool.Exec(ctx, q, id, token))
}

// ClearSessionToken nulls the token if it still equals token.
func (r *AccountRepo) ClearSessionToken(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	const q = `
UPDATE accounts SET active_session_token = NULL
WHERE id = $1 AND active_session_token = $2`
	tag, err := r.db.Pool.Exec(ctx, q, id, token)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetArtist sets the role flag.
func (r *AccountRepo) SetArtist(ctx context.Context, id uuid.UUID, isArtist bool) error {
	const q = `UPDATE accounts SET is_artist = $2 WHERE id = $1`
	return affectedOne(r.db.Pool.Exec(ctx, q, id, isArtist))
}

// AddFollowedArtist appends artist unless it is already present.
func (r *AccountRepo) AddFollowedArtist(ctx context.Context, id uuid.UUID, artist string) error {
	const q = `
UPDATE accounts
SET followed_artists = CASE WHEN $2 = ANY(followed_artists) THEN followed_artists
                            ELSE array_append(followed_artists, $2) END
WHERE id = $1`
	return affectedOne(r.db.Pool.Exec(ctx, q, id, artist))
}

// RemoveFollowedArtist removes artist from the followed set.
func (r *AccountRepo) RemoveFollowedArtist(ctx context.Context, id uuid.UUID, artist string) error {
	const q = `UPDATE accounts SET followed_artists = array_remove(followed_artists, $2) WHERE id = $1`
	return affectedOne(r.db.Pool.Exec(ctx, q, id, artist))
}

// NotificationRepo implements repository.NotificationRepository using PostgreSQL.
type NotificationRepo struct{ db *DB }

// NewNotificationRepo constructs a notification repository.
func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Append inserts an unread notification. A missing account surfaces as ErrNotFound.
func (r *NotificationRepo) Append(ctx context.Context, accountID uuid.UUID, message string) error {
	const q = `INSERT INTO notifications (account_id, message) VALUES ($1, $2)`
	_, err := r.db.Pool.Exec(ctx, q, accountID, message)
	return mapErr(err)
}

// List returns notifications oldest first.
func (r *NotificationRepo) List(ctx context.Context, accountID uuid.UUID) ([]model.Notification, error) {
	const q = `
SELECT id, account_id, message, created_at, is_read
FROM notifications WHERE account_id = $1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.Date, &n.IsRead); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkAllRead marks every notification of the account as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, accountID uuid.UUID) error {
	const q = `UPDATE notifications SET is_read = true WHERE account_id = $1 AND NOT is_read`
	_, err := r.db.Pool.Exec(ctx, q, accountID)
	return mapErr(err)
}
