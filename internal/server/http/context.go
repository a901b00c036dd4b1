package httpserver

import (
	"context"

	"github.com/and161185/gallery/internal/model"
)

type ctxKey string

const sessionKey ctxKey = "gallery.session"

type sessionInfo struct {
	account *model.Account
	token   string
}

// WithSession stores the authorized account and its session token in context.
func WithSession(ctx context.Context, a *model.Account, token string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionInfo{account: a, token: token})
}

// AccountFromCtx returns the authorized account, if any.
func AccountFromCtx(ctx context.Context) (*model.Account, bool) {
	s, ok := ctx.Value(sessionKey).(sessionInfo)
	if !ok || s.account == nil {
		return nil, false
	}
	return s.account, true
}

func tokenFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(sessionInfo)
	return s.token
}
