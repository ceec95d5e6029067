package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unimarket/listing-service/internal/adapter/http/middleware"
	"github.com/unimarket/listing-service/internal/listing/domain"
)

// maxUploadSize bounds a multipart create/photo request (5 images).
const maxUploadSize = 32 << 20

// HandleListListings serves GET /api/listings with optional category,
// min_price, max_price and sort_by query parameters.
func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	q := domain.CatalogQuery{
		Category: domain.Category(r.URL.Query().Get("category")),
		SortBy:   domain.SortMode(r.URL.Query().Get("sort_by")),
	}

	if raw := r.URL.Query().Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "min_price must be a number", http.StatusBadRequest)
			return
		}
		q.MinPrice = &v
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "max_price must be a number", http.StatusBadRequest)
			return
		}
		q.MaxPrice = &v
	}

	listings, err := h.catalog.ListListings(r.Context(), q)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleSearchListings serves GET /api/listings/search?q=. An empty query
// falls back to the plain catalog, mirroring the app's short-circuit.
func (h *Handler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.HandleListListings(w, r)
		return
	}

	listings, err := h.catalog.SearchListings(r.Context(), query)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.catalog.GetListingByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponse(listing))
}

// HandleMyListings serves GET /api/users/me/listings: every listing of the
// caller, any status.
func (h *Handler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	listings, err := h.catalog.ListUserListings(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleCreateListing serves POST /api/listings as multipart form data:
// text fields plus up to five "images" file parts, kept in input order.
func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		http.Error(w, "price must be a number", http.StatusBadRequest)
		return
	}

	draft := domain.Draft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    domain.Category(r.FormValue("category")),
		Condition:   domain.Condition(r.FormValue("condition")),
	}

	var images [][]byte
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				http.Error(w, "failed to read image: "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, "failed to read image: "+err.Error(), http.StatusBadRequest)
				return
			}
			images = append(images, data)
		}
	}

	id, err := h.listings.CreateListing(r.Context(), userID, draft, images)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
}

// HandleUpdateListing serves PATCH /api/listings/{id}: absent fields are
// left untouched.
func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req updateListingRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	patch := domain.ListingPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		patch.Category = &c
	}
	if req.Status != nil {
		s := domain.ListingStatus(*req.Status)
		patch.Status = &s
	}

	if err := h.listings.UpdateListing(r.Context(), id, userID, patch); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateListingStatus serves PATCH /api/listings/{id}/status.
func (h *Handler) HandleUpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.listings.UpdateListingStatus(r.Context(), id, userID, domain.ListingStatus(req.Status)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.listings.DeleteListing(r.Context(), id, userID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
