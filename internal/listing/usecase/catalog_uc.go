package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/unimarket/listing-service/internal/listing/domain"
	"github.com/unimarket/listing-service/internal/platform/logger"
)

var tracer = otel.Tracer("listing-service/usecase")

// ListingCache is an optional read-through cache for single-listing reads.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// CatalogUsecase answers catalog queries: the browse/filter/sort pipeline
// and free-text search over available listings.
type CatalogUsecase struct {
	repo   domain.ListingRepository
	cache  ListingCache
	logger *logger.Logger
}

func NewCatalogUsecase(repo domain.ListingRepository, cache ListingCache, log *logger.Logger) *CatalogUsecase {
	return &CatalogUsecase{repo: repo, cache: cache, logger: log}
}

// ListListings fetches available listings (category narrowed at the store
// when set), applies price bounds in memory and sorts by the requested mode.
// Ties keep fetch order.
func (uc *CatalogUsecase) ListListings(ctx context.Context, q domain.CatalogQuery) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.ListListings")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.category", string(q.Category)))

	listings, err := uc.repo.FindAvailable(ctx, q.Category)
	if err != nil {
		uc.logger.Error("CatalogUsecase.ListListings: failed to fetch listings", "error", err.Error())
		return nil, fmt.Errorf("failed to load the catalog: %w", err)
	}

	filtered := listings[:0:0]
	for _, l := range listings {
		if q.MinPrice != nil && l.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && l.Price > *q.MaxPrice {
			continue
		}
		filtered = append(filtered, l)
	}

	sortListings(filtered, q.SortBy)
	return filtered, nil
}

// SearchListings keeps available listings whose title or description
// contains the query as a case-insensitive substring. There is no text
// index behind this; it is a full scan, fine at campus scale.
func (uc *CatalogUsecase) SearchListings(ctx context.Context, query string) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.SearchListings")
	defer span.End()

	listings, err := uc.repo.FindAvailable(ctx, "")
	if err != nil {
		uc.logger.Error("CatalogUsecase.SearchListings: failed to fetch listings", "query", query, "error", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	needle := strings.ToLower(query)
	matched := listings[:0:0]
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), needle) ||
			strings.Contains(strings.ToLower(l.Description), needle) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

// ListUserListings returns all of a seller's listings regardless of status,
// in fetch order.
func (uc *CatalogUsecase) ListUserListings(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.ListUserListings")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.seller_id", sellerID))

	listings, err := uc.repo.FindBySeller(ctx, sellerID)
	if err != nil {
		uc.logger.Error("CatalogUsecase.ListUserListings: failed to fetch listings", "seller_id", sellerID, "error", err.Error())
		return nil, fmt.Errorf("failed to load your listings: %w", err)
	}
	return listings, nil
}

// GetListingByID reads through the cache when one is configured.
func (uc *CatalogUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.GetListingByID")
	defer span.End()

	if uc.cache != nil {
		cached, err := uc.cache.GetListing(ctx, id)
		if err != nil {
			uc.logger.Warn("CatalogUsecase.GetListingByID: cache read failed", "listing_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		uc.logger.Error("CatalogUsecase.GetListingByID: failed to fetch listing", "listing_id", id, "error", err.Error())
		return nil, fmt.Errorf("failed to load the listing: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.SetListing(ctx, listing); err != nil {
			uc.logger.Warn("CatalogUsecase.GetListingByID: cache write failed", "listing_id", id, "error", err.Error())
		}
	}
	return listing, nil
}

func sortListings(listings []*domain.Listing, mode domain.SortMode) {
	switch mode {
	case domain.SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	default:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].PublishedAt.After(listings[j].PublishedAt)
		})
	}
}
