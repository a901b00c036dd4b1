package httpserver

import (
	"errors"
	"net/http"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/server/http/views"
	"go.uber.org/zap"
)

const (
	msgServerError = "An error occurred"
	msgNotFound    = "Not found"
	msgBadRequest  = "Bad request"
	msgBadCreds    = "Invalid credentials"
	msgRateLimited = "Too many failed attempts, try again later"
	msgDuplicate   = "Username already exists"
)

// statusFor maps an error to its response status and user-visible message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, errs.ErrInvalidID), errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, msgBadRequest
	case errors.Is(err, errs.ErrDuplicateUsername):
		return http.StatusConflict, msgDuplicate
	case errors.Is(err, errs.ErrAuthFailure):
		return http.StatusUnauthorized, msgBadCreds
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

// fail writes the fixed outcome for err. Unauthenticated always redirects to
// the login page; internal detail is logged, never shown.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errs.ErrUnauthenticated) {
		http.SetCookie(w, h.cookies.Clear())
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.renderError(w, r, status, msg)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	p := &views.Page{Status: status, Message: msg}
	p.User, _ = AccountFromCtx(r.Context())
	if err := h.views.Render(w, status, "error", p); err != nil {
		h.log.Error("render error page", zap.Error(err))
		http.Error(w, msg, status)
	}
}
