package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/limiter"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/repository"
	"github.com/gofrs/uuid/v5"
)

/************ accounts ************/

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Account

	getErr error
	setErr error
}

var _ repository.AccountRepository = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[uuid.UUID]*model.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Username == a.Username {
			return errs.ErrDuplicateUsername
		}
	}
	cpy := *a
	cpy.FollowedArtists = []string{}
	cpy.CreatedAt = time.Now()
	f.byID[a.ID] = &cpy
	return nil
}

func (f *fakeAccounts) copyOf(a *model.Account) *model.Account {
	c := *a
	c.FollowedArtists = slices.Clone(a.FollowedArtists)
	return &c
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return f.copyOf(a), nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byID {
		if a.Username == username {
			return f.copyOf(a), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeAccounts) update(id uuid.UUID, fn func(a *model.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	a, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	fn(a)
	return nil
}

func (f *fakeAccounts) SetSessionToken(_ context.Context, id uuid.UUID, token string) error {
	return f.update(id, func(a *model.Account) { a.ActiveSessionToken = token })
}

func (f *fakeAccounts) ClearSessionToken(_ context.Context, id uuid.UUID, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.ActiveSessionToken != token {
		return false, nil
	}
	a.ActiveSessionToken = ""
	return true, nil
}

func (f *fakeAccounts) SetArtist(_ context.Context, id uuid.UUID, isArtist bool) error {
	return f.update(id, func(a *model.Account) { a.IsArtist = isArtist })
}

func (f *fakeAccounts) AddFollowedArtist(_ context.Context, id uuid.UUID, artist string) error {
	return f.update(id, func(a *model.Account) {
		if !slices.Contains(a.FollowedArtists, artist) {
			a.FollowedArtists = append(a.FollowedArtists, artist)
		}
	})
}

func (f *fakeAccounts) RemoveFollowedArtist(_ context.Context, id uuid.UUID, artist string) error {
	return f.update(id, func(a *model.Account) {
		a.FollowedArtists = slices.DeleteFunc(a.FollowedArtists, func(s string) bool { return s == artist })
	})
}

/************ notifications ************/

type fakeNotes struct {
	mu     sync.Mutex
	byAcc  map[uuid.UUID][]model.Notification
	seq    int64
	addErr error
}

var _ repository.NotificationRepository = (*fakeNotes)(nil)

func newFakeNotes() *fakeNotes { return &fakeNotes{byAcc: map[uuid.UUID][]model.Notification{}} }

func (f *fakeNotes) Append(_ context.Context, id uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.seq++
	f.byAcc[id] = append(f.byAcc[id], model.Notification{ID: f.seq, AccountID: id, Message: message, Date: time.Now()})
	return nil
}

func (f *fakeNotes) List(_ context.Context, id uuid.UUID) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification{}, f.byAcc[id]...), nil
}

func (f *fakeNotes) MarkAllRead(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.byAcc[id] {
		f.byAcc[id][i].IsRead = true
	}
	return nil
}

/************ artworks ************/

type fakeArtworks struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*model.Artwork
	reviews  map[uuid.UUID][]model.Review
	accounts *fakeAccounts
}

var _ repository.ArtworkRepository = (*fakeArtworks)(nil)

func newFakeArtworks(accounts *fakeAccounts) *fakeArtworks {
	return &fakeArtworks{byID: map[uuid.UUID]*model.Artwork{}, reviews: map[uuid.UUID][]model.Review{}, accounts: accounts}
}

func (f *fakeArtworks) add(a model.Artwork) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV4())
	}
	if a.Likes == nil {
		a.Likes = []uuid.UUID{}
	}
	f.byID[a.ID] = &a
	return a.ID
}

func cloneArtwork(a *model.Artwork) model.Artwork {
	c := *a
	c.Likes = slices.Clone(a.Likes)
	return c
}

func (f *fakeArtworks) GetByID(_ context.Context, id uuid.UUID) (*model.Artwork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := cloneArtwork(a)
	return &c, nil
}

func (f *fakeArtworks) filter(keep func(a *model.Artwork) bool) []model.Artwork {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Artwork{}
	for _, a := range f.byID {
		if keep(a) {
			out = append(out, cloneArtwork(a))
		}
	}
	slices.SortFunc(out, func(x, y model.Artwork) int { return strings.Compare(x.Title, y.Title) })
	return out
}

func (f *fakeArtworks) List(context.Context) ([]model.Artwork, error) {
	return f.filter(func(*model.Artwork) bool { return true }), nil
}

func (f *fakeArtworks) Search(_ context.Context, field model.SearchField, q string) ([]model.Artwork, error) {
	q = strings.ToLower(q)
	return f.filter(func(a *model.Artwork) bool {
		var v string
		switch field {
		case model.FieldArtist:
			v = a.Artist
		case model.FieldTitle:
			v = a.Title
		case model.FieldCategory:
			v = a.Category
		}
		return strings.Contains(strings.ToLower(v), q)
	}), nil
}

func (f *fakeArtworks) LikedBy(_ context.Context, id uuid.UUID) ([]model.Artwork, error) {
	return f.filter(func(a *model.Artwork) bool { return a.LikedBy(id) }), nil
}

func (f *fakeArtworks) ToggleLike(_ context.Context, artworkID, accountID uuid.UUID) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[artworkID]
	if !ok {
		return false, "", errs.ErrNotFound
	}
	if i := slices.Index(a.Likes, accountID); i >= 0 {
		a.Likes = slices.Delete(a.Likes, i, i+1)
		return false, a.Title, nil
	}
	a.Likes = append(a.Likes, accountID)
	return true, a.Title, nil
}

func (f *fakeArtworks) RemoveLike(_ context.Context, artworkID, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[artworkID]
	if !ok {
		return errs.ErrNotFound
	}
	a.Likes = slices.DeleteFunc(a.Likes, func(x uuid.UUID) bool { return x == accountID })
	return nil
}

func (f *fakeArtworks) UpsertReview(_ context.Context, artworkID, reviewerID uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[artworkID]; !ok {
		return errs.ErrNotFound
	}
	list := f.reviews[artworkID]
	for i := range list {
		if list[i].ReviewerID == reviewerID {
			list[i].Text = text
			return nil
		}
	}
	f.reviews[artworkID] = append(list, model.Review{ArtworkID: artworkID, ReviewerID: reviewerID, Text: text, Date: time.Now()})
	return nil
}

func (f *fakeArtworks) Reviews(ctx context.Context, artworkID uuid.UUID) ([]model.Review, error) {
	f.mu.Lock()
	out := append([]model.Review{}, f.reviews[artworkID]...)
	f.mu.Unlock()
	for i := range out {
		if a, err := f.accounts.GetByID(ctx, out[i].ReviewerID); err == nil {
			out[i].ReviewerName = a.Username
		}
	}
	return out, nil
}

/************ limiter ************/

type fakeLimiter struct {
	allowOK     bool
	allowErr    error
	failBlocked bool

	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, time.Minute, nil
}

/************ wiring ************/

type env struct {
	accounts *fakeAccounts
	notes    *fakeNotes
	artworks *fakeArtworks
	lim      *fakeLimiter

	creds      *CredentialStoreImpl
	sessions   *SessionRegistryImpl
	accountSvc *AccountServiceImpl
	engagement *EngagementServiceImpl
	catalog    *CatalogServiceImpl
}

func newEnv() *env {
	e := &env{accounts: newFakeAccounts(), notes: newFakeNotes(), lim: &fakeLimiter{allowOK: true}}
	e.artworks = newFakeArtworks(e.accounts)
	e.creds = NewCredentialStore(e.accounts, e.lim)
	e.sessions = NewSessionRegistry(e.accounts)
	e.accountSvc = NewAccountService(e.accounts, e.notes)
	e.engagement = NewEngagementService(e.artworks, e.accounts, e.accountSvc)
	e.catalog = NewCatalogService(e.artworks)
	return e
}

// seedAccount inserts an account without paying for bcrypt.
func (e *env) seedAccount(username string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	_ = e.accounts.Create(context.Background(), &model.Account{ID: id, Username: username, PwdHash: []byte("x")})
	return id
}
