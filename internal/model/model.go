// Package model defines domain entities used by services and repositories.
package model

import (
	"net/url"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Account is a registered patron or artist. The password is never stored in plaintext.
type Account struct {
	ID       uuid.UUID // PK
	Username string    // unique
	PwdHash  []byte    // bcrypt(password), cost factor embedded
	IsArtist bool      // patron by default

	// ActiveSessionToken is the single live session; empty means no session.
	ActiveSessionToken string

	// FollowedArtists is a set of artist names, matched exactly on storage.
	FollowedArtists []string
	CreatedAt       time.Time
}

// HasSession reports whether a session is currently live for the account.
func (a *Account) HasSession() bool { return a.ActiveSessionToken != "" }

// Follows reports whether artist is in the followed set.
func (a *Account) Follows(artist string) bool {
	return slices.Contains(a.FollowedArtists, artist)
}

// Notification is an entry of an account's append-only inbox.
type Notification struct {
	ID        int64
	AccountID uuid.UUID
	Message   string
	Date      time.Time
	IsRead    bool
}

// Artwork is a catalog entry. Descriptive fields are immutable for this service;
// only likes and reviews change.
type Artwork struct {
	ID          uuid.UUID
	Title       string
	Artist      string
	Year        string
	Category    string
	Medium      string
	Description string
	Poster      string      // image reference: URL or object key
	Likes       []uuid.UUID // set of account ids
}

// LikedBy reports whether the account is in the likes set.
func (a *Artwork) LikedBy(accountID uuid.UUID) bool {
	return slices.Contains(a.Likes, accountID)
}

// Review is the single review a reviewer may hold on an artwork.
type Review struct {
	ArtworkID    uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerName string // resolved on read, not stored on the review
	Text         string
	Date         time.Time // original submission time, kept on edits
}

// ProfileOp is one recognized account update. Anything else submitted with a
// profile form is ignored.
type ProfileOp int

const (
	OpUpgrade ProfileOp = iota + 1
	OpDowngrade
	OpMarkNotificationsRead
)

func (op ProfileOp) String() string {
	switch op {
	case OpUpgrade:
		return "upgrade"
	case OpDowngrade:
		return "downgrade"
	case OpMarkNotificationsRead:
		return "mark-notifications-read"
	default:
		return "unknown"
	}
}

// profileFields maps whitelisted form keys to the op they enable when set to "true".
var profileFields = []struct {
	key string
	op  ProfileOp
}{
	{"upgradeAccount", OpUpgrade},
	{"downgradeAccount", OpDowngrade},
	{"markNotificationsRead", OpMarkNotificationsRead},
}

// ProfileOpsFromForm extracts recognized ops from submitted form values.
// Order is fixed regardless of form order.
func ProfileOpsFromForm(form url.Values) []ProfileOp {
	var ops []ProfileOp
	for _, f := range profileFields {
		if form.Get(f.key) == "true" {
			ops = append(ops, f.op)
		}
	}
	return ops
}

// SearchField names an artwork field available to substring search.
type SearchField string

const (
	FieldArtist   SearchField = "artist"
	FieldTitle    SearchField = "title"
	FieldCategory SearchField = "category"
)
