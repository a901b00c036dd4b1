package httpserver

import (
	"net/http"
	"net/url"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/service"
	"github.com/gofrs/uuid/v5"
)

// formArtwork parses the form and returns the artworkId field.
func formArtwork(r *http.Request) (uuid.UUID, error) {
	if err := r.ParseForm(); err != nil {
		return uuid.Nil, errs.ErrValidation
	}
	return service.ParseID(r.PostForm.Get("artworkId"))
}

func (h *Handler) LikeArtwork(w http.ResponseWriter, r *http.Request) {
	id, err := formArtwork(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.Engagement.ToggleLike(r.Context(), id, current(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	redirectBack(w, r)
}

func (h *Handler) UnlikeArtwork(w http.ResponseWriter, r *http.Request) {
	id, err := formArtwork(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Engagement.Unlike(r.Context(), id, current(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	redirectBack(w, r)
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	id, err := formArtwork(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Engagement.SubmitReview(r.Context(), id, current(r).ID, r.PostForm.Get("reviewText")); err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "Review submitted successfully.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) FollowArtist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	if err := h.svc.Engagement.FollowArtist(r.Context(), current(r).ID, r.PostForm.Get("artistName")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) UnfollowArtist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	if err := h.svc.Engagement.UnfollowArtist(r.Context(), current(r).ID, r.PostForm.Get("artistName")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// redirectBack returns to the referring page on this host, else the dashboard.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/dashboard"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.Path
		if ref.RawQuery != "" {
			target += "?" + ref.RawQuery
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
