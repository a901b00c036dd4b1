package httpserver

import (
	"net/http"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
)

// Dashboard shows followed artists, liked artworks and notifications.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	acc := current(r)
	liked, err := h.svc.Catalog.LikedBy(r.Context(), acc.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	notes, err := h.svc.Accounts.Notifications(r.Context(), acc.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p := h.page(w, r)
	p.FollowedArtists = acc.FollowedArtists
	p.LikedArtworks = liked
	p.Notifications = notes
	h.render(w, r, http.StatusOK, "dashboard", p)
}

func (h *Handler) UpgradePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "upgradeAccount", h.page(w, r))
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Accounts.Upgrade(r.Context(), current(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "Account successfully upgraded to artist.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) MyProfile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "myProfile", h.page(w, r))
}

func (h *Handler) UpdateAccountPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "updateAccountInformation", h.page(w, r))
}

// UpdateAccount applies the recognized profile fields; anything else in the form is ignored.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	ops := model.ProfileOpsFromForm(r.PostForm)
	if err := h.svc.Accounts.UpdateProfile(r.Context(), current(r).ID, ops); err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "Account information updated successfully.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
