package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimarket/listing-service/internal/listing/domain"
	"github.com/unimarket/listing-service/internal/platform/logger"
	userdomain "github.com/unimarket/listing-service/internal/user/domain"
)

func newLifecycleFixture() (*ListingUsecase, *fakeListingRepo, *fakeStorage, *fakePublisher, *fakeNotifier, *fakeProfiles) {
	repo := newFakeListingRepo()
	storage := &fakeStorage{}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	profiles := &fakeProfiles{users: map[string]*userdomain.User{
		"seller-1": {
			ID:         "seller-1",
			Name:       "Ana",
			Email:      "ana@uni.edu",
			PhotoURL:   "https://blobs.test/profile_images/seller-1/1.jpg",
			University: "State University",
		},
	}}
	uc := NewListingUsecase(repo, profiles, storage, publisher, notifier, nil, logger.NewNop())
	return uc, repo, storage, publisher, notifier, profiles
}

func TestCreateListing_RoundTrip(t *testing.T) {
	uc, repo, storage, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	draft := domain.Draft{
		Title:       "Calc Book",
		Description: "2nd edition",
		Price:       50000,
		Category:    domain.CategoryBooks,
		Condition:   domain.ConditionUsed,
	}
	images := [][]byte{[]byte("img0"), []byte("img1")}

	id, err := uc.CreateListing(ctx, "seller-1", draft, images)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Uploads are keyed by seller, reserved id and input position.
	require.Equal(t, []string{
		fmt.Sprintf("product_images/seller-1/%s/0.jpg", id),
		fmt.Sprintf("product_images/seller-1/%s/1.jpg", id),
	}, storage.paths)

	catalog := NewCatalogUsecase(repo, nil, logger.NewNop())
	mine, err := catalog.ListUserListings(ctx, "seller-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got := mine[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.Description, got.Description)
	assert.Equal(t, draft.Price, got.Price)
	assert.Equal(t, draft.Category, got.Category)
	assert.Equal(t, draft.Condition, got.Condition)
	assert.Equal(t, domain.StatusAvailable, got.Status)
	assert.Equal(t, []string{
		"https://blobs.test/" + storage.paths[0],
		"https://blobs.test/" + storage.paths[1],
	}, got.Images)
	assert.False(t, got.PublishedAt.IsZero())
}

func TestCreateListing_SnapshotsSellerProfile(t *testing.T) {
	uc, repo, _, _, _, profiles := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	// A later profile edit must not leak into the stored snapshot.
	profiles.users["seller-1"].Name = "Ana Maria"

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Seller.Name)
	assert.Equal(t, "State University", got.Seller.University)
}

func TestCreateListing_TooManyImages(t *testing.T) {
	uc, repo, _, _, _, _ := newLifecycleFixture()

	images := make([][]byte, domain.MaxImages+1)
	_, err := uc.CreateListing(context.Background(), "seller-1", domain.Draft{Title: "Lamp"}, images)
	assert.ErrorIs(t, err, domain.ErrTooManyImages)
	assert.Empty(t, repo.listings)
}

func TestCreateListing_NegativePrice(t *testing.T) {
	uc, _, _, _, _, _ := newLifecycleFixture()

	_, err := uc.CreateListing(context.Background(), "seller-1", domain.Draft{Title: "Lamp", Price: -1}, nil)
	assert.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestCreateListing_UploadFailureLeavesNoRecord(t *testing.T) {
	uc, repo, storage, publisher, notifier, _ := newLifecycleFixture()
	storage.failAt = 2

	images := [][]byte{[]byte("img0"), []byte("img1"), []byte("img2")}
	_, err := uc.CreateListing(context.Background(), "seller-1", domain.Draft{Title: "Lamp"}, images)
	require.Error(t, err)

	assert.Empty(t, repo.listings)
	assert.Empty(t, publisher.subjects)
	assert.Empty(t, notifier.sentTo)
	// The first blob was already uploaded and stays orphaned.
	assert.Len(t, storage.paths, 1)
}

func TestCreateListing_RecordWriteFailure(t *testing.T) {
	uc, repo, storage, _, _, _ := newLifecycleFixture()
	repo.failCreate = fmt.Errorf("write timeout")

	images := [][]byte{[]byte("img0")}
	_, err := uc.CreateListing(context.Background(), "seller-1", domain.Draft{Title: "Lamp"}, images)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish the listing")

	assert.Empty(t, repo.listings)
	assert.Len(t, storage.paths, 1) // orphaned, accepted
}

func TestCreateListing_NotifiesAndPublishes(t *testing.T) {
	uc, _, _, publisher, notifier, _ := newLifecycleFixture()

	_, err := uc.CreateListing(context.Background(), "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{SubjectListingCreated}, publisher.subjects)
	assert.Equal(t, []string{"ana@uni.edu"}, notifier.sentTo)
	assert.Equal(t, "Lamp", notifier.lastTitle)
}

func TestUpdateListing_SparsePatch(t *testing.T) {
	uc, repo, _, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{
		Title: "Lamp", Description: "warm light", Price: 120, Category: domain.CategoryOther,
	}, nil)
	require.NoError(t, err)

	newPrice := 90.0
	require.NoError(t, uc.UpdateListing(ctx, id, "seller-1", domain.ListingPatch{Price: &newPrice}))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Price)
	assert.Equal(t, "Lamp", got.Title)
	assert.Equal(t, "warm light", got.Description)
	assert.Equal(t, domain.CategoryOther, got.Category)
}

// An empty patch changes nothing, but the caller still learns whether the
// listing exists and whether it is theirs.
func TestUpdateListing_EmptyPatchStillChecksOwnership(t *testing.T) {
	uc, _, _, publisher, _, _ := newLifecycleFixture()
	ctx := context.Background()

	err := uc.UpdateListing(ctx, "missing", "seller-1", domain.ListingPatch{})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	err = uc.UpdateListing(ctx, id, "someone-else", domain.ListingPatch{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.UpdateListing(ctx, id, "seller-1", domain.ListingPatch{}))
	assert.NotContains(t, publisher.subjects, SubjectListingUpdated)
}

// The updated event must describe the listing after the patch, not before.
func TestUpdateListing_EventCarriesPatchedValues(t *testing.T) {
	uc, _, _, publisher, _, _ := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Old Lamp"}, nil)
	require.NoError(t, err)

	newTitle := "Vintage Lamp"
	require.NoError(t, uc.UpdateListing(ctx, id, "seller-1", domain.ListingPatch{Title: &newTitle}))

	require.Contains(t, publisher.subjects, SubjectListingUpdated)
	event := publisher.lastPayload()
	require.NotNil(t, event)
	assert.Equal(t, id, event["listing_id"])
	assert.Equal(t, "Vintage Lamp", event["title"])
}

func TestUpdateListingStatus_Idempotent(t *testing.T) {
	uc, repo, _, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.UpdateListingStatus(ctx, id, "seller-1", domain.StatusSold))
	require.NoError(t, uc.UpdateListingStatus(ctx, id, "seller-1", domain.StatusSold))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, got.Status)
}

func TestUpdateListing_Forbidden(t *testing.T) {
	uc, _, _, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	status := domain.StatusSold
	err = uc.UpdateListing(ctx, id, "someone-else", domain.ListingPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteListing_RemovesFromUserListings(t *testing.T) {
	uc, repo, _, publisher, _, _ := newLifecycleFixture()
	ctx := context.Background()

	id, err := uc.CreateListing(ctx, "seller-1", domain.Draft{Title: "Lamp"}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.DeleteListing(ctx, id, "seller-1"))

	catalog := NewCatalogUsecase(repo, nil, logger.NewNop())
	mine, err := catalog.ListUserListings(ctx, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.Contains(t, publisher.subjects, SubjectListingDeleted)
}

func TestDeleteListing_NotFound(t *testing.T) {
	uc, _, _, _, _, _ := newLifecycleFixture()
	err := uc.DeleteListing(context.Background(), "missing", "seller-1")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

// Full scenario: a created listing shows up in the matching catalog query
// and not in a different category.
func TestCreateListing_CatalogScenario(t *testing.T) {
	uc, repo, _, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	draft := domain.Draft{Title: "Calc Book", Price: 50000, Category: domain.CategoryBooks}
	id, err := uc.CreateListing(ctx, "seller-1", draft, [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)

	catalog := NewCatalogUsecase(repo, nil, logger.NewNop())

	books, err := catalog.ListListings(ctx, domain.CatalogQuery{
		Category: domain.CategoryBooks,
		MinPrice: floatPtr(40000),
		MaxPrice: floatPtr(60000),
	})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, id, books[0].ID)

	electronics, err := catalog.ListListings(ctx, domain.CatalogQuery{Category: domain.CategoryElectronics})
	require.NoError(t, err)
	assert.Empty(t, electronics)
}
