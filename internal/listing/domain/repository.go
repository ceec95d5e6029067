package domain

import "context"

type ListingRepository interface {
	// NewID reserves a fresh listing id before anything is written, so that
	// blob uploads can be keyed by the final id.
	NewID() string

	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)

	// FindAvailable returns listings with status "available", narrowed
	// server-side by exact category match unless category is empty or "All".
	FindAvailable(ctx context.Context, category Category) ([]*Listing, error)

	// FindBySeller returns all of a seller's listings regardless of status.
	FindBySeller(ctx context.Context, sellerID string) ([]*Listing, error)

	UpdateFields(ctx context.Context, id string, patch ListingPatch) error
	Delete(ctx context.Context, id string) error
}

// Storage is the blob store boundary: upload bytes at a path, get back a
// retrievable URL.
type Storage interface {
	Upload(ctx context.Context, objectPath string, data []byte) (string, error)
}
