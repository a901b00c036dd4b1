// Package session encodes the browser session cookie. The cookie carries the
// account id and the session token issued at login, signed with HS256.
//
// A valid signature only proves the cookie was minted by this server; whether
// the session is still live is decided against the stored active token.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie name.
const CookieName = "gallery_session"

const leeway = 30 * time.Second

// ErrInvalid is returned for any cookie value that does not decode to a usable session.
var ErrInvalid = errors.New("session: invalid cookie")

// Claims is the decoded cookie payload.
type Claims struct {
	AccountID uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// Codec signs and verifies session cookies.
type Codec struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCodec constructs a Codec. key must not be empty.
func NewCodec(key []byte, ttl time.Duration, secure bool) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("session: empty signing key")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: bad ttl %s", ttl)
	}
	return &Codec{key: key, ttl: ttl, secure: secure, now: time.Now}, nil
}

// Encode returns a signed cookie value and its expiry.
func (c *Codec) Encode(accountID uuid.UUID, token string) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		ID:        token,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Decode verifies value and returns its claims. Anything other than an
// unexpired HS256 token with a uuid subject and a token id is ErrInvalid.
func (c *Codec) Decode(value string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &rc,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	id, err := uuid.FromString(rc.Subject)
	if err != nil || id == uuid.Nil || rc.ID == "" {
		return Claims{}, fmt.Errorf("%w: bad subject or id", ErrInvalid)
	}
	return Claims{AccountID: id, Token: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// Cookie wraps a value from Encode in the session cookie.
func (c *Codec) Cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Clear returns a cookie that deletes the session cookie.
func (c *Codec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
