package limiter

import (
	"context"
	"crypto/sha256"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the limiter needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG is a PostgreSQL-backed limiter with a sliding window and lockout.
type PG struct {
	db  Querier
	p   Policy
	now func() time.Time
}

// NewPG constructs a PostgreSQL-backed limiter. Zero fields of p fall back to DefaultPolicy.
func NewPG(db Querier, p Policy) *PG {
	if p.Window <= 0 {
		p.Window = DefaultPolicy.Window
	}
	if p.MaxFails <= 0 {
		p.MaxFails = DefaultPolicy.MaxFails
	}
	if p.BlockFor <= 0 {
		p.BlockFor = DefaultPolicy.BlockFor
	}
	return &PG{db: db, p: p, now: time.Now}
}

// HashIP returns a stable hash of the client host so raw addresses are never stored.
// The port is dropped when present.
func HashIP(remoteAddr string) []byte {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	sum := sha256.Sum256([]byte(host))
	return sum[:]
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (l *PG) Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM auth_limiter WHERE username = $1 AND ip_hash = $2`
	var blockedUntil time.Time
	err := l.db.QueryRow(ctx, q, username, ipHash).Scan(&blockedUntil)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	case err != nil:
		return false, 0, err
	}
	if left := blockedUntil.Sub(l.now()); left > 0 {
		return false, left, nil
	}
	return true, 0, nil
}

// Success resets counters for (username, ip).
func (l *PG) Success(ctx context.Context, username string, ipHash []byte) error {
	const q = `
INSERT INTO auth_limiter (username, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 0, 'epoch', now())
ON CONFLICT (username, ip_hash)
DO UPDATE SET fail_count = 0, blocked_until = 'epoch', updated_at = now()`
	_, err := l.db.Exec(ctx, q, username, ipHash)
	return err
}

// Failure records a failed attempt and blocks the pair once MaxFails is reached inside Window.
func (l *PG) Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	const q = `
INSERT INTO auth_limiter (username, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 1, 'epoch', now())
ON CONFLICT (username, ip_hash) DO UPDATE
SET fail_count = CASE WHEN now() - auth_limiter.updated_at > $3::interval THEN 1
                      ELSE auth_limiter.fail_count + 1 END,
    updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.db.QueryRow(ctx, q, username, ipHash, l.p.Window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.p.MaxFails {
		return false, 0, nil
	}

	const block = `UPDATE auth_limiter SET blocked_until = $3 WHERE username = $1 AND ip_hash = $2`
	if _, err := l.db.Exec(ctx, block, username, ipHash, l.now().Add(l.p.BlockFor)); err != nil {
		return false, 0, err
	}
	return true, l.p.BlockFor, nil
}
