package httpserver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/service"
	"github.com/gofrs/uuid/v5"
)

// fakeGallery implements every service the handlers use over in-memory maps.
type fakeGallery struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*model.Account
	passwords map[string]string
	artworks  map[uuid.UUID]*model.Artwork
	reviews   map[uuid.UUID][]model.Review
	notes     map[uuid.UUID][]model.Notification
	seq       int

	authErr  error
	allPanic bool
}

var (
	_ service.CredentialStore   = (*fakeGallery)(nil)
	_ service.SessionRegistry   = (*fakeGallery)(nil)
	_ service.AccountService    = (*fakeGallery)(nil)
	_ service.EngagementService = (*fakeGallery)(nil)
	_ service.CatalogService    = (*fakeGallery)(nil)
)

func newFakeGallery() *fakeGallery {
	return &fakeGallery{
		accounts:  map[uuid.UUID]*model.Account{},
		passwords: map[string]string{},
		artworks:  map[uuid.UUID]*model.Artwork{},
		reviews:   map[uuid.UUID][]model.Review{},
		notes:     map[uuid.UUID][]model.Notification{},
	}
}

func (f *fakeGallery) addArtwork(a model.Artwork) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.Must(uuid.NewV4())
	f.artworks[a.ID] = &a
	return a.ID
}

func (f *fakeGallery) snapshot(id uuid.UUID) *model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil
	}
	c := *a
	c.FollowedArtists = slices.Clone(a.FollowedArtists)
	return &c
}

/************ credentials ************/

func (f *fakeGallery) Create(_ context.Context, username, password string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "" || password == "" {
		return uuid.Nil, errs.ErrValidation
	}
	if len(password) > 72 {
		return uuid.Nil, service.ErrPasswordTooLong
	}
	if _, ok := f.passwords[username]; ok {
		return uuid.Nil, errs.ErrDuplicateUsername
	}
	id := uuid.Must(uuid.NewV4())
	f.accounts[id] = &model.Account{ID: id, Username: username, FollowedArtists: []string{}, CreatedAt: time.Now()}
	f.passwords[username] = password
	return id, nil
}

func (f *fakeGallery) Verify(_ context.Context, username, password, _ string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "locked" {
		return nil, errs.ErrRateLimited
	}
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return nil, errs.ErrAuthFailure
	}
	for _, a := range f.accounts {
		if a.Username == username {
			c := *a
			return &c, nil
		}
	}
	return nil, errs.ErrAuthFailure
}

/************ sessions ************/

func (f *fakeGallery) Login(_ context.Context, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return "", errs.ErrNotFound
	}
	f.seq++
	a.ActiveSessionToken = fmt.Sprintf("tok-%d", f.seq)
	return a.ActiveSessionToken, nil
}

func (f *fakeGallery) Logout(_ context.Context, id uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok && a.ActiveSessionToken == token {
		a.ActiveSessionToken = ""
	}
	return nil
}

func (f *fakeGallery) Authorize(_ context.Context, id uuid.UUID, token string) (*model.Account, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	a := f.snapshot(id)
	if a == nil || token == "" || a.ActiveSessionToken != token {
		return nil, errs.ErrUnauthenticated
	}
	return a, nil
}

/************ accounts ************/

func (f *fakeGallery) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if a := f.snapshot(id); a != nil {
		return a, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeGallery) setArtist(id uuid.UUID, v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return errs.ErrNotFound
	}
	a.IsArtist = v
	return nil
}

func (f *fakeGallery) Upgrade(_ context.Context, id uuid.UUID) error {
	return f.setArtist(id, true)
}

func (f *fakeGallery) Downgrade(_ context.Context, id uuid.UUID) error {
	return f.setArtist(id, false)
}

func (f *fakeGallery) UpdateProfile(ctx context.Context, id uuid.UUID, ops []model.ProfileOp) error {
	for _, op := range ops {
		switch op {
		case model.OpUpgrade:
			_ = f.setArtist(id, true)
		case model.OpDowngrade:
			_ = f.setArtist(id, false)
		case model.OpMarkNotificationsRead:
			f.mu.Lock()
			for i := range f.notes[id] {
				f.notes[id][i].IsRead = true
			}
			f.mu.Unlock()
		}
	}
	return nil
}

func (f *fakeGallery) Notify(_ context.Context, id uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[id] = append(f.notes[id], model.Notification{AccountID: id, Message: message, Date: time.Now()})
	return nil
}

func (f *fakeGallery) Notifications(_ context.Context, id uuid.UUID) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification{}, f.notes[id]...), nil
}

/************ engagement ************/

func (f *fakeGallery) ToggleLike(ctx context.Context, artworkID, accountID uuid.UUID) (bool, error) {
	f.mu.Lock()
	a, ok := f.artworks[artworkID]
	if !ok {
		f.mu.Unlock()
		return false, errs.ErrNotFound
	}
	if i := slices.Index(a.Likes, accountID); i >= 0 {
		a.Likes = slices.Delete(a.Likes, i, i+1)
		f.mu.Unlock()
		return false, nil
	}
	a.Likes = append(a.Likes, accountID)
	title := a.Title
	f.mu.Unlock()
	return true, f.Notify(ctx, accountID, service.LikeMessage(title))
}

func (f *fakeGallery) Unlike(_ context.Context, artworkID, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.artworks[artworkID]
	if !ok {
		return errs.ErrNotFound
	}
	a.Likes = slices.DeleteFunc(a.Likes, func(x uuid.UUID) bool { return x == accountID })
	return nil
}

func (f *fakeGallery) SubmitReview(_ context.Context, artworkID, accountID uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		return errs.ErrValidation
	}
	if _, ok := f.artworks[artworkID]; !ok {
		return errs.ErrNotFound
	}
	for i, rv := range f.reviews[artworkID] {
		if rv.ReviewerID == accountID {
			f.reviews[artworkID][i].Text = text
			return nil
		}
	}
	name := f.accounts[accountID].Username
	f.reviews[artworkID] = append(f.reviews[artworkID], model.Review{ArtworkID: artworkID, ReviewerID: accountID, ReviewerName: name, Text: text, Date: time.Now()})
	return nil
}

func (f *fakeGallery) FollowArtist(_ context.Context, id uuid.UUID, artist string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if artist == "" {
		return errs.ErrValidation
	}
	a := f.accounts[id]
	if !slices.Contains(a.FollowedArtists, artist) {
		a.FollowedArtists = append(a.FollowedArtists, artist)
	}
	return nil
}

func (f *fakeGallery) UnfollowArtist(_ context.Context, id uuid.UUID, artist string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[id]
	a.FollowedArtists = slices.DeleteFunc(a.FollowedArtists, func(s string) bool { return s == artist })
	return nil
}

/************ catalog ************/

func (f *fakeGallery) ByID(_ context.Context, id uuid.UUID) (*model.Artwork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.artworks[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *a
	c.Likes = slices.Clone(a.Likes)
	return &c, nil
}

func (f *fakeGallery) filter(keep func(*model.Artwork) bool) []model.Artwork {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Artwork{}
	for _, a := range f.artworks {
		if keep(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (f *fakeGallery) All(context.Context) ([]model.Artwork, error) {
	if f.allPanic {
		panic("catalog exploded")
	}
	return f.filter(func(*model.Artwork) bool { return true }), nil
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(q))
}

func (f *fakeGallery) ByArtist(_ context.Context, q string) ([]model.Artwork, error) {
	return f.filter(func(a *model.Artwork) bool { return contains(a.Artist, q) }), nil
}

func (f *fakeGallery) ByTitle(_ context.Context, q string) ([]model.Artwork, error) {
	return f.filter(func(a *model.Artwork) bool { return contains(a.Title, q) }), nil
}

func (f *fakeGallery) ByCategory(_ context.Context, q string) ([]model.Artwork, error) {
	return f.filter(func(a *model.Artwork) bool { return contains(a.Category, q) }), nil
}

func (f *fakeGallery) LikedBy(_ context.Context, id uuid.UUID) ([]model.Artwork, error) {
	return f.filter(func(a *model.Artwork) bool { return a.LikedBy(id) }), nil
}

func (f *fakeGallery) Reviews(_ context.Context, id uuid.UUID) ([]model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Review{}, f.reviews[id]...), nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDBDown = errors.New("db down")
