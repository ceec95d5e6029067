package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/unimarket/listing-service/internal/listing/domain"
	"github.com/unimarket/listing-service/internal/platform/logger"
	userdomain "github.com/unimarket/listing-service/internal/user/domain"
)

// NATS subjects for listing lifecycle events.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// EventPublisher pushes lifecycle events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Notifier sends the seller a confirmation mail after a listing is created.
type Notifier interface {
	SendListingCreated(toEmail, listingTitle string) error
}

// ProfileReader resolves the seller profile snapshotted into a new listing.
type ProfileReader interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
}

// ListingUsecase owns the listing lifecycle: create (with image uploads),
// sparse updates, status changes and hard deletes.
type ListingUsecase struct {
	repo      domain.ListingRepository
	profiles  ProfileReader
	storage   domain.Storage
	publisher EventPublisher
	notifier  Notifier
	cache     ListingCache
	logger    *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	profiles ProfileReader,
	storage domain.Storage,
	publisher EventPublisher,
	notifier Notifier,
	cache ListingCache,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		profiles:  profiles,
		storage:   storage,
		publisher: publisher,
		notifier:  notifier,
		cache:     cache,
		logger:    log,
	}
}

// CreateListing reserves an id, uploads the images keyed by that id and
// their input position, then writes the record with status "available".
// The three steps are strictly ordered; a failure at any of them aborts the
// call without leaving a visible record. Blobs already uploaded when a later
// step fails stay orphaned.
func (uc *ListingUsecase) CreateListing(ctx context.Context, sellerID string, draft domain.Draft, images [][]byte) (string, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateListing")
	defer span.End()
	span.SetAttributes(attribute.String("listing.seller_id", sellerID))

	if len(images) > domain.MaxImages {
		return "", domain.ErrTooManyImages
	}
	if draft.Price < 0 {
		return "", domain.ErrNegativePrice
	}
	if draft.Title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrInvalidListing)
	}

	seller, err := uc.profiles.FindByID(ctx, sellerID)
	if err != nil {
		uc.logger.Error("ListingUsecase.CreateListing: failed to load seller profile", "seller_id", sellerID, "error", err.Error())
		return "", fmt.Errorf("failed to load the seller profile: %w", err)
	}

	id := uc.repo.NewID()
	uc.logger.Info("ListingUsecase.CreateListing: creating listing",
		"listing_id", id, "seller_id", sellerID, "title", draft.Title, "images", len(images))

	urls := make([]string, 0, len(images))
	for i, data := range images {
		objectPath := fmt.Sprintf("product_images/%s/%s/%d.jpg", sellerID, id, i)
		url, err := uc.storage.Upload(ctx, objectPath, data)
		if err != nil {
			uc.logger.Error("ListingUsecase.CreateListing: image upload failed",
				"listing_id", id, "index", i, "error", err.Error())
			return "", fmt.Errorf("failed to upload image %d: %w", i+1, err)
		}
		urls = append(urls, url)
	}

	now := time.Now()
	listing := &domain.Listing{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Images:      urls,
		Category:    draft.Category,
		Condition:   draft.Condition,
		Status:      domain.StatusAvailable,
		Seller: domain.SellerRef{
			ID:         seller.ID,
			Name:       seller.Name,
			PhotoURL:   seller.PhotoURL,
			University: seller.University,
		},
		PublishedAt: now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.CreateListing: failed to persist listing", "listing_id", id, "error", err.Error())
		return "", fmt.Errorf("failed to publish the listing: %w", err)
	}

	uc.publishEvent(ctx, SubjectListingCreated, listing)

	if uc.notifier != nil {
		if err := uc.notifier.SendListingCreated(seller.Email, listing.Title); err != nil {
			uc.logger.Warn("ListingUsecase.CreateListing: confirmation mail failed", "listing_id", id, "error", err.Error())
		}
	}

	return id, nil
}

// UpdateListing applies a sparse field update to the caller's own listing.
// Unset fields keep their prior values; values are not revalidated here.
// An empty patch is a no-op, but existence and ownership are still checked.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, userID string, patch domain.ListingPatch) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.UpdateListing")
	defer span.End()

	listing, err := uc.findOwned(ctx, id, userID, "UpdateListing")
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := uc.repo.UpdateFields(ctx, id, patch); err != nil {
		uc.logger.Error("ListingUsecase.UpdateListing: failed to update listing", "listing_id", id, "error", err.Error())
		return fmt.Errorf("failed to update the listing: %w", err)
	}

	uc.invalidate(ctx, id)
	patch.Apply(listing)
	uc.publishEvent(ctx, SubjectListingUpdated, listing)
	return nil
}

// UpdateListingStatus moves a listing between available, reserved and sold.
// Writing the current status again is a no-op at the store and not an error.
func (uc *ListingUsecase) UpdateListingStatus(ctx context.Context, id, userID string, status domain.ListingStatus) error {
	if status == "" {
		return fmt.Errorf("%w: status cannot be empty", domain.ErrInvalidListing)
	}
	return uc.UpdateListing(ctx, id, userID, domain.ListingPatch{Status: &status})
}

// DeleteListing hard-deletes the caller's own listing. Image blobs are left
// behind in the store.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, userID string) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.DeleteListing")
	defer span.End()

	listing, err := uc.findOwned(ctx, id, userID, "DeleteListing")
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: failed to delete listing", "listing_id", id, "error", err.Error())
		return fmt.Errorf("failed to delete the listing: %w", err)
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingDeleted, listing)
	return nil
}

func (uc *ListingUsecase) findOwned(ctx context.Context, id, userID, op string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		uc.logger.Error("ListingUsecase."+op+": failed to find listing", "listing_id", id, "error", err.Error())
		return nil, fmt.Errorf("failed to load the listing: %w", err)
	}
	if listing.Seller.ID != userID {
		uc.logger.Warn("ListingUsecase."+op+": forbidden",
			"listing_id", id, "owner_id", listing.Seller.ID, "user_id", userID)
		return nil, domain.ErrForbidden
	}
	return listing, nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("ListingUsecase: cache invalidation failed", "listing_id", id, "error", err.Error())
	}
}

func (uc *ListingUsecase) publishEvent(ctx context.Context, subject string, listing *domain.Listing) {
	if uc.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"listing_id": listing.ID,
		"seller_id":  listing.Seller.ID,
		"title":      listing.Title,
	}
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("ListingUsecase: failed to publish event", "subject", subject, "listing_id", listing.ID, "error", err.Error())
	}
}
