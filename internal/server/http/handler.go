// Package httpserver serves the gallery's HTML interface.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/server/http/views"
	"github.com/and161185/gallery/internal/service"
	"github.com/and161185/gallery/internal/session"
	"go.uber.org/zap"
)

// Services groups the application services the handlers dispatch to.
type Services struct {
	Credentials service.CredentialStore
	Sessions    service.SessionRegistry
	Accounts    service.AccountService
	Engagement  service.EngagementService
	Catalog     service.CatalogService
}

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies shared by every route.
type Handler struct {
	svc     Services
	views   *views.Renderer
	cookies *session.Codec
	health  Pinger
	log     *zap.Logger
}

// NewHandler validates and wires handler dependencies. health may be nil.
func NewHandler(svc Services, v *views.Renderer, cookies *session.Codec, health Pinger, log *zap.Logger) (*Handler, error) {
	if svc.Credentials == nil || svc.Sessions == nil || svc.Accounts == nil || svc.Engagement == nil || svc.Catalog == nil {
		return nil, errors.New("httpserver: missing service")
	}
	if v == nil || cookies == nil {
		return nil, errors.New("httpserver: missing views or cookie codec")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, views: v, cookies: cookies, health: health, log: log}, nil
}

// page starts a view context with the current account and pending flash.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) *views.Page {
	p := &views.Page{Flash: takeFlash(w, r)}
	p.User, _ = AccountFromCtx(r.Context())
	return p
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p *views.Page) {
	if err := h.views.Render(w, status, name, p); err != nil {
		h.fail(w, r, err)
	}
}

// current returns the authorized account. Routes using it sit behind RequireSession.
func current(r *http.Request) *model.Account {
	a, _ := AccountFromCtx(r.Context())
	return a
}
