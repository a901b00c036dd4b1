package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/service"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "welcome", h.page(w, r))
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", h.page(w, r))
}

// Register creates a patron account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	username := r.PostForm.Get("username")

	id, err := h.svc.Credentials.Create(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		h.formError(w, r, "register", username, err)
		return
	}
	h.log.Info("account registered", zap.String("account_id", id.String()))
	h.startSession(w, r, id)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", h.page(w, r))
}

// Login verifies credentials and replaces any session the account had.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	username := r.PostForm.Get("username")

	acc, err := h.svc.Credentials.Verify(r.Context(), username, r.PostForm.Get("password"), r.RemoteAddr)
	if err != nil {
		h.formError(w, r, "login", username, err)
		return
	}
	h.startSession(w, r, acc.ID)
}

// Logout clears the stored session when it is still the current one.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if acc, ok := AccountFromCtx(r.Context()); ok {
		if err := h.svc.Sessions.Logout(r.Context(), acc.ID, tokenFromCtx(r.Context())); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	http.SetCookie(w, h.cookies.Clear())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	token, err := h.svc.Sessions.Login(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	value, exp, err := h.cookies.Encode(id, token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.SetCookie(w, h.cookies.Cookie(value, exp))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// formError re-renders a credentials form with a message for expected failures.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, view, username string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.fail(w, r, err)
		return
	}
	switch {
	case errors.Is(err, service.ErrPasswordTooLong):
		msg = "Password must be at most 72 bytes"
	case errors.Is(err, errs.ErrValidation):
		msg = "Username and password are required"
	}
	p := h.page(w, r)
	p.Error = msg
	p.Query = username
	h.render(w, r, status, view, p)
}

// Healthz reports 200 when storage answers a ping.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			h.log.Warn("health ping", zap.Error(err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
