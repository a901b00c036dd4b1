package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCredentials_CreateAndVerify(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.creds.Create(ctx, "", "pw")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = e.creds.Create(ctx, "alice", "")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = e.creds.Create(ctx, "carol", strings.Repeat("p", 73))
	require.ErrorIs(t, err, errs.ErrValidation)
	require.ErrorIs(t, err, ErrPasswordTooLong)
	_, err = e.accounts.GetByUsername(ctx, "carol")
	require.ErrorIs(t, err, errs.ErrNotFound)

	// exactly the bcrypt limit is accepted
	_, err = e.creds.Create(ctx, "dave", strings.Repeat("p", 72))
	require.NoError(t, err)

	id, err := e.creds.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	stored, err := e.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, []byte("pw1"), stored.PwdHash)
	require.False(t, stored.IsArtist)
	require.False(t, stored.HasSession())

	_, err = e.creds.Create(ctx, "alice", "other")
	require.ErrorIs(t, err, errs.ErrDuplicateUsername)

	a, err := e.creds.Verify(ctx, "alice", "pw1", "10.0.0.1:1234")
	require.NoError(t, err)
	require.Equal(t, id, a.ID)
	require.Equal(t, 1, e.lim.successCalls)

	_, err = e.creds.Verify(ctx, "alice", "wrong", "10.0.0.1:1234")
	require.ErrorIs(t, err, errs.ErrAuthFailure)
	_, err = e.creds.Verify(ctx, "nobody", "pw1", "10.0.0.1:1234")
	require.ErrorIs(t, err, errs.ErrAuthFailure)
	require.Equal(t, 2, e.lim.failureCalls)
}

func TestCredentials_Verify_RateLimited(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedAccount("bob")

	e.lim.allowOK = false
	_, err := e.creds.Verify(ctx, "bob", "x", "1.1.1.1")
	require.ErrorIs(t, err, errs.ErrRateLimited)

	e.lim.allowOK = true
	e.lim.failBlocked = true
	_, err = e.creds.Verify(ctx, "bob", "wrong", "1.1.1.1")
	require.ErrorIs(t, err, errs.ErrRateLimited)

	e.lim.allowErr = errors.New("limiter down")
	_, err = e.creds.Verify(ctx, "bob", "x", "1.1.1.1")
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrAuthFailure)
}

func TestCredentials_Verify_StorageErrorIsNotAuthFailure(t *testing.T) {
	e := newEnv()
	e.accounts.getErr = errors.New("db down")

	_, err := e.creds.Verify(context.Background(), "bob", "x", "1.1.1.1")
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrAuthFailure)
	require.Zero(t, e.lim.failureCalls)
}

func TestAccounts_UpgradeIsIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	bob := e.seedAccount("bob")

	require.NoError(t, e.accountSvc.Upgrade(ctx, bob))
	a, err := e.accountSvc.Get(ctx, bob)
	require.NoError(t, err)
	require.True(t, a.IsArtist)

	require.NoError(t, e.accountSvc.Upgrade(ctx, bob))
	a, err = e.accountSvc.Get(ctx, bob)
	require.NoError(t, err)
	require.True(t, a.IsArtist)

	require.NoError(t, e.accountSvc.Downgrade(ctx, bob))
	require.NoError(t, e.accountSvc.Downgrade(ctx, bob))
	a, err = e.accountSvc.Get(ctx, bob)
	require.NoError(t, err)
	require.False(t, a.IsArtist)
}

func TestAccounts_UpdateProfile(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	bob := e.seedAccount("bob")
	require.NoError(t, e.accountSvc.Upgrade(ctx, bob))
	require.NoError(t, e.accountSvc.Notify(ctx, bob, "hello"))

	ops := model.ProfileOpsFromForm(map[string][]string{
		"downgradeAccount":      {"true"},
		"markNotificationsRead": {"true"},
		"isArtist":              {"true"},
		"username":              {"mallory"},
	})
	require.NoError(t, e.accountSvc.UpdateProfile(ctx, bob, ops))

	a, err := e.accountSvc.Get(ctx, bob)
	require.NoError(t, err)
	require.False(t, a.IsArtist)
	require.Equal(t, "bob", a.Username)

	notes, err := e.accountSvc.Notifications(ctx, bob)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.True(t, notes[0].IsRead)

	require.NoError(t, e.accountSvc.UpdateProfile(ctx, bob, nil))
	require.NoError(t, e.accountSvc.UpdateProfile(ctx, bob, []model.ProfileOp{model.ProfileOp(99)}))
}

func TestAccounts_UpdateProfile_MissingAccount(t *testing.T) {
	e := newEnv()
	err := e.accountSvc.UpdateProfile(context.Background(), e.seedAccount("x"), nil)
	require.NoError(t, err)

	err = e.accountSvc.UpdateProfile(context.Background(), [16]byte{1}, []model.ProfileOp{model.OpUpgrade})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccounts_NotifyAppendsInOrder(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	bob := e.seedAccount("bob")

	require.NoError(t, e.accountSvc.Notify(ctx, bob, "first"))
	require.NoError(t, e.accountSvc.Notify(ctx, bob, "second"))

	notes, err := e.accountSvc.Notifications(ctx, bob)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "first", notes[0].Message)
	require.Equal(t, "second", notes[1].Message)
	require.False(t, notes[1].IsRead)
	require.False(t, notes[1].Date.IsZero())
}
