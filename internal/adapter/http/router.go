package http

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/unimarket/listing-service/internal/adapter/http/middleware"
	"github.com/unimarket/listing-service/internal/platform/logger"
)

// NewRouter mounts the API. Catalog reads are public; everything that acts
// on behalf of a user sits behind the JWT middleware.
func NewRouter(h *Handler, jwtSecret string, sessions middleware.SessionChecker, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)

	mux.Post("/api/auth/register", h.HandleRegister)
	mux.Post("/api/auth/login", h.HandleLogin)

	mux.Get("/api/listings", h.HandleListListings)
	mux.Get("/api/listings/search", h.HandleSearchListings)
	mux.Get("/api/listings/{id}", h.HandleGetListing)
	mux.Get("/api/users/{id}", h.HandleGetProfile)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, sessions, log))

		r.Post("/api/auth/logout", h.HandleLogout)

		r.Post("/api/listings", h.HandleCreateListing)
		r.Patch("/api/listings/{id}", h.HandleUpdateListing)
		r.Patch("/api/listings/{id}/status", h.HandleUpdateListingStatus)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)

		r.Get("/api/users/me/listings", h.HandleMyListings)
		r.Patch("/api/users/me", h.HandleUpdateProfile)
		r.Put("/api/users/me/photo", h.HandleUpdateProfilePhoto)
	})

	return mux
}
