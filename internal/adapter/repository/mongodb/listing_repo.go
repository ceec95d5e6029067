package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unimarket/listing-service/internal/listing/domain"
)

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

// NewID reserves an id client-side, before any document exists.
func (r *ListingRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	_, err := r.collection.InsertOne(ctx, toListingDocument(listing))
	return err
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindAvailable(ctx context.Context, category domain.Category) ([]*domain.Listing, error) {
	query := bson.M{"status": domain.StatusAvailable}
	if category != "" && category != domain.CategoryAll {
		query["category"] = category
	}
	return r.find(ctx, query)
}

func (r *ListingRepository) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"seller.id": sellerID})
}

func (r *ListingRepository) UpdateFields(ctx context.Context, id string, patch domain.ListingPatch) error {
	res, err := r.collection.UpdateByID(ctx, id, listingPatchToUpdate(patch))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) find(ctx context.Context, query bson.M) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings, nil
}
