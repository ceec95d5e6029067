package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	listingdomain "github.com/unimarket/listing-service/internal/listing/domain"
	listingusecase "github.com/unimarket/listing-service/internal/listing/usecase"
	"github.com/unimarket/listing-service/internal/platform/logger"
	userdomain "github.com/unimarket/listing-service/internal/user/domain"
	userusecase "github.com/unimarket/listing-service/internal/user/usecase"
)

// Handler is the HTTP surface over the usecases. It does JSON/multipart
// glue only; all domain decisions live below it.
type Handler struct {
	catalog  *listingusecase.CatalogUsecase
	listings *listingusecase.ListingUsecase
	auth     *userusecase.AuthUsecase
	profiles *userusecase.ProfileUsecase
	logger   *logger.Logger
}

func NewHandler(
	catalog *listingusecase.CatalogUsecase,
	listings *listingusecase.ListingUsecase,
	auth *userusecase.AuthUsecase,
	profiles *userusecase.ProfileUsecase,
	log *logger.Logger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		listings: listings,
		auth:     auth,
		profiles: profiles,
		logger:   log,
	}
}

type listingResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Status      string    `json:"status"`
	Seller      sellerRef `json:"seller"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type sellerRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PhotoURL   string `json:"photo_url"`
	University string `json:"university"`
}

type profileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	University   string    `json:"university"`
	PhotoURL     string    `json:"photo_url"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toListingResponse(l *listingdomain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Images:      l.Images,
		Category:    string(l.Category),
		Condition:   string(l.Condition),
		Status:      string(l.Status),
		Seller: sellerRef{
			ID:         l.Seller.ID,
			Name:       l.Seller.Name,
			PhotoURL:   l.Seller.PhotoURL,
			University: l.Seller.University,
		},
		PublishedAt: l.PublishedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toListingResponses(listings []*listingdomain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toProfileResponse(u *userdomain.User) profileResponse {
	return profileResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		University:   u.University,
		PhotoURL:     u.PhotoURL,
		Phone:        u.Phone,
		Location:     u.Location,
		RegisteredAt: u.RegisteredAt,
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Handler: failed to encode response", "error", err.Error())
	}
}

// respondError maps domain errors onto HTTP statuses and ships the
// display-ready message through unchanged.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, listingdomain.ErrListingNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, listingdomain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, listingdomain.ErrTooManyImages),
		errors.Is(err, listingdomain.ErrNegativePrice),
		errors.Is(err, listingdomain.ErrInvalidListing):
		status = http.StatusBadRequest
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, userdomain.ErrEmailTaken):
		status = http.StatusConflict
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}
