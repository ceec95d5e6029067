package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimarket/listing-service/internal/listing/domain"
	listingusecase "github.com/unimarket/listing-service/internal/listing/usecase"
	"github.com/unimarket/listing-service/internal/platform/logger"
)

// fakeRepo backs the catalog usecase in handler tests. Fetch order is
// insertion order.
type fakeRepo struct {
	listings []*domain.Listing
}

func (r *fakeRepo) NewID() string { return "id" }

func (r *fakeRepo) Create(ctx context.Context, l *domain.Listing) error {
	r.listings = append(r.listings, l)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	for _, l := range r.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *fakeRepo) FindAvailable(ctx context.Context, category domain.Category) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.Status != domain.StatusAvailable {
			continue
		}
		if category != "" && category != domain.CategoryAll && l.Category != category {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeRepo) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	return nil, nil
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id string, patch domain.ListingPatch) error {
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error { return nil }

func newTestRouter(repo *fakeRepo) http.Handler {
	log := logger.NewNop()
	catalog := listingusecase.NewCatalogUsecase(repo, nil, log)
	h := NewHandler(catalog, nil, nil, nil, log)
	return NewRouter(h, "test-secret", nil, log)
}

func seedRepo() *fakeRepo {
	now := time.Now()
	return &fakeRepo{listings: []*domain.Listing{
		{ID: "l1", Title: "Calc Book", Price: 50000, Category: domain.CategoryBooks,
			Status: domain.StatusAvailable, PublishedAt: now},
		{ID: "l2", Title: "Headphones", Price: 80000, Category: domain.CategoryElectronics,
			Status: domain.StatusAvailable, PublishedAt: now.Add(-time.Hour)},
		{ID: "l3", Title: "Old Coat", Price: 20000, Category: domain.CategoryClothing,
			Status: domain.StatusSold, PublishedAt: now.Add(-2 * time.Hour)},
	}}
}

func TestHandleListListings_FiltersAndSorts(t *testing.T) {
	router := newTestRouter(seedRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings?min_price=40000&sort_by=price_asc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Calc Book", got[0].Title)
	assert.Equal(t, "Headphones", got[1].Title)
}

func TestHandleListListings_BadPrice(t *testing.T) {
	router := newTestRouter(seedRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings?min_price=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchListings(t *testing.T) {
	router := newTestRouter(seedRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/search?q=calc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
}

func TestHandleGetListing_NotFound(t *testing.T) {
	router := newTestRouter(seedRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(seedRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/listings/l1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
