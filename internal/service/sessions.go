package service

import (
	"context"
	"crypto/subtle"
	"errors"

	pkgcrypto "github.com/and161185/gallery/internal/crypto"
	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// SessionRegistry keeps at most one live session token per account.
// A login anywhere replaces the previous token; the dropped session fails its
// next Authorize.
type SessionRegistry interface {
	// Login issues and stores a fresh token, overwriting any existing one.
	Login(ctx context.Context, accountID uuid.UUID) (string, error)
	// Logout clears the stored token if it is still token.
	Logout(ctx context.Context, accountID uuid.UUID, token string) error
	// Authorize returns the account when token is its active session and
	// errs.ErrUnauthenticated otherwise.
	Authorize(ctx context.Context, accountID uuid.UUID, token string) (*model.Account, error)
}

type SessionRegistryImpl struct {
	accounts repository.AccountRepository
	newToken func() (string, error)
}

// NewSessionRegistry constructs SessionRegistry.
func NewSessionRegistry(accounts repository.AccountRepository) *SessionRegistryImpl {
	return &SessionRegistryImpl{accounts: accounts, newToken: pkgcrypto.NewSessionToken}
}

func (s *SessionRegistryImpl) Login(ctx context.Context, accountID uuid.UUID) (string, error) {
	token, err := s.newToken()
	if err != nil {
		return "", err
	}
	if err := s.accounts.SetSessionToken(ctx, accountID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Logout from a session that was already replaced leaves the newer session alone.
func (s *SessionRegistryImpl) Logout(ctx context.Context, accountID uuid.UUID, token string) error {
	if accountID == uuid.Nil || token == "" {
		return nil
	}
	_, err := s.accounts.ClearSessionToken(ctx, accountID, token)
	return err
}

// Authorize fails closed. A vanished account is unauthenticated, not an error.
func (s *SessionRegistryImpl) Authorize(ctx context.Context, accountID uuid.UUID, token string) (*model.Account, error) {
	if accountID == uuid.Nil || token == "" {
		return nil, errs.ErrUnauthenticated
	}
	a, err := s.accounts.GetByID(ctx, accountID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil, errs.ErrUnauthenticated
	case err != nil:
		return nil, err
	}
	if !a.HasSession() || subtle.ConstantTimeCompare([]byte(a.ActiveSessionToken), []byte(token)) != 1 {
		return nil, errs.ErrUnauthenticated
	}
	return a, nil
}
