package httpserver

import (
	"context"
	"net/http"

	"github.com/and161185/gallery/internal/errs"
	"github.com/and161185/gallery/internal/model"
	"github.com/and161185/gallery/internal/server/http/views"
	"github.com/and161185/gallery/internal/service"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) BrowseArtworks(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.Catalog.All(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := h.page(w, r)
	p.Artworks = all
	h.render(w, r, http.StatusOK, "browseArtworks", p)
}

// ArtworkDetail shows one artwork with its reviews and whether the viewer likes it.
func (h *Handler) ArtworkDetail(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	art, err := h.svc.Catalog.ByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviews, err := h.svc.Catalog.Reviews(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p := h.page(w, r)
	p.Artwork = art
	p.Reviews = reviews
	p.Liked = art.LikedBy(current(r).ID)
	h.render(w, r, http.StatusOK, "artworkDetail", p)
}

// ArtistPage lists artworks whose artist matches the path name; no match is 404.
func (h *Handler) ArtistPage(w http.ResponseWriter, r *http.Request) {
	name := views.ArtistFromPath(chi.URLParam(r, "artistName"))
	arts, err := h.svc.Catalog.ByArtist(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(arts) == 0 {
		h.fail(w, r, errs.ErrNotFound)
		return
	}
	h.renderArtist(w, r, name, arts)
}

func (h *Handler) renderArtist(w http.ResponseWriter, r *http.Request, name string, arts []model.Artwork) {
	p := h.page(w, r)
	p.ArtistName = name
	p.Artworks = arts
	h.render(w, r, http.StatusOK, "artistPage", p)
}

func (h *Handler) SearchArtistsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "searchArtists", h.page(w, r))
}

// SearchArtists renders the artist page on a match and the search form otherwise.
func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errs.ErrValidation)
		return
	}
	q := r.PostForm.Get("artistName")
	arts, err := h.svc.Catalog.ByArtist(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(arts) > 0 {
		h.renderArtist(w, r, q, arts)
		return
	}
	p := h.page(w, r)
	p.Query = q
	p.NoResults = true
	h.render(w, r, http.StatusOK, "searchArtists", p)
}

func (h *Handler) SearchTitlePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "searchArtworkTitle", h.page(w, r))
}

func (h *Handler) SearchCategoryPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "searchArtworkCategory", h.page(w, r))
}

func (h *Handler) PerformTitleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("title")
	h.searchResults(w, r, q, h.svc.Catalog.ByTitle)
}

func (h *Handler) PerformCategorySearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("category")
	h.searchResults(w, r, q, h.svc.Catalog.ByCategory)
}

func (h *Handler) searchResults(w http.ResponseWriter, r *http.Request, q string, search func(context.Context, string) ([]model.Artwork, error)) {
	arts, err := search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := h.page(w, r)
	p.Query = q
	p.Artworks = arts
	h.render(w, r, http.StatusOK, "searchResults", p)
}
