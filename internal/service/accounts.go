// Package service contains the gallery's application services: credentials,
// sessions, account state, engagement and catalog queries.
package service

import (
	"context"
	"errors"
	"fmt"

	pkgcrypto "github.com/and161185/gallery/internal/crypto"
	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/limiter"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// CredentialStore creates accounts and verifies passwords.
type CredentialStore interface {
	// Create registers a patron account. Returns errs.ErrDuplicateUsername on conflict.
	Create(ctx context.Context, username, password string) (uuid.UUID, error)
	// Verify checks credentials with rate limiting by (username, client address).
	Verify(ctx context.Context, username, password, remoteAddr string) (*model.Account, error)
}

// ErrPasswordTooLong rejects passwords bcrypt cannot hash. It is a validation error.
var ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", errs.ErrValidation, pkgcrypto.MaxPasswordLen)

type CredentialStoreImpl struct {
	accounts repository.AccountRepository
	lim      limiter.Limiter
}

// NewCredentialStore constructs a CredentialStore. A nil limiter disables throttling.
func NewCredentialStore(accounts repository.AccountRepository, lim limiter.Limiter) *CredentialStoreImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	return &CredentialStoreImpl{accounts: accounts, lim: lim}
}

// Create hashes the password once and stores the new account.
func (s *CredentialStoreImpl) Create(ctx context.Context, username, password string) (uuid.UUID, error) {
	if username == "" || password == "" {
		return uuid.Nil, fmt.Errorf("%w: empty username/password", errs.ErrValidation)
	}
	if len(password) > pkgcrypto.MaxPasswordLen {
		return uuid.Nil, ErrPasswordTooLong
	}
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	hash, err := pkgcrypto.HashPassword([]byte(password))
	if err != nil {
		return uuid.Nil, err
	}
	a := &model.Account{ID: id, Username: username, PwdHash: hash}
	if err := s.accounts.Create(ctx, a); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Verify re-hashes the candidate against the stored hash. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *CredentialStoreImpl) Verify(ctx context.Context, username, password, remoteAddr string) (*model.Account, error) {
	ipHash := limiter.HashIP(remoteAddr)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), a.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return nil, errs.ErrRateLimited
		}
		return nil, errs.ErrAuthFailure
	}

	// best-effort
	_ = s.lim.Success(ctx, username, ipHash)
	return a, nil
}

// AccountService manages role transitions, profile updates and the notification inbox.
type AccountService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// Upgrade makes the account an artist. Upgrading an artist is a no-op.
	Upgrade(ctx context.Context, id uuid.UUID) error
	// Downgrade makes the account a patron. Downgrading a patron is a no-op.
	Downgrade(ctx context.Context, id uuid.UUID) error
	// UpdateProfile applies recognized ops in order.
	UpdateProfile(ctx context.Context, id uuid.UUID, ops []model.ProfileOp) error
	// Notify appends one unread notification stamped now.
	Notify(ctx context.Context, id uuid.UUID, message string) error
	// Notifications lists the inbox oldest first.
	Notifications(ctx context.Context, id uuid.UUID) ([]model.Notification, error)
}

type AccountServiceImpl struct {
	accounts repository.AccountRepository
	notes    repository.NotificationRepository
}

// NewAccountService constructs AccountService.
func NewAccountService(accounts repository.AccountRepository, notes repository.NotificationRepository) *AccountServiceImpl {
	return &AccountServiceImpl{accounts: accounts, notes: notes}
}

func (s *AccountServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountServiceImpl) Upgrade(ctx context.Context, id uuid.UUID) error {
	return s.accounts.SetArtist(ctx, id, true)
}

func (s *AccountServiceImpl) Downgrade(ctx context.Context, id uuid.UUID) error {
	return s.accounts.SetArtist(ctx, id, false)
}

// UpdateProfile stops at the first failing op; ops already applied stay applied.
func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, ops []model.ProfileOp) error {
	for _, op := range ops {
		var err error
		switch op {
		case model.OpUpgrade:
			err = s.Upgrade(ctx, id)
		case model.OpDowngrade:
			err = s.Downgrade(ctx, id)
		case model.OpMarkNotificationsRead:
			err = s.notes.MarkAllRead(ctx, id)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("profile op %s: %w", op, err)
		}
	}
	return nil
}

func (s *AccountServiceImpl) Notify(ctx context.Context, id uuid.UUID, message string) error {
	return s.notes.Append(ctx, id, message)
}

func (s *AccountServiceImpl) Notifications(ctx context.Context, id uuid.UUID) ([]model.Notification, error) {
	return s.notes.List(ctx, id)
}
