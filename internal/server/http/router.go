package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every gallery route.
//
// Middleware chain: RequestID, RealIP, request logging, panic recovery, session
// loading. Pages past the welcome, register, login and logout screens require a
// live session and redirect to /login otherwise.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.log))
	r.Use(h.Recoverer)
	r.Use(h.LoadSession)

	r.Get("/healthz", h.Healthz)

	r.Get("/", h.Welcome)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/upgrade-account", h.UpgradePage)
		r.Post("/upgrade-account", h.Upgrade)
		r.Get("/my-profile", h.MyProfile)
		r.Get("/update-account-information", h.UpdateAccountPage)
		r.Post("/update-account-information", h.UpdateAccount)

		r.Get("/browse-artworks", h.BrowseArtworks)
		r.Get("/artwork/{id}", h.ArtworkDetail)
		r.Get("/artist/{artistName}", h.ArtistPage)
		r.Get("/search-artists", h.SearchArtistsPage)
		r.Post("/search-artists", h.SearchArtists)
		r.Get("/search-artwork-title", h.SearchTitlePage)
		r.Get("/search-artwork-category", h.SearchCategoryPage)
		r.Get("/perform-title-search", h.PerformTitleSearch)
		r.Get("/perform-category-search", h.PerformCategorySearch)

		r.Post("/like-artwork", h.LikeArtwork)
		r.Post("/unlike-artwork", h.UnlikeArtwork)
		r.Post("/submit-review", h.SubmitReview)
		r.Post("/follow-artist", h.FollowArtist)
		r.Post("/unfollow-artist", h.UnfollowArtist)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, msgNotFound)
	})
	return r
}
