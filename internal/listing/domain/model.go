package domain

import "time"

type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
	StatusReserved  ListingStatus = "reserved"
)

type Category string

const (
	CategoryBooks       Category = "Books"
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"

	// CategoryAll is a query sentinel, never stored on a listing.
	CategoryAll Category = "All"
)

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// MaxImages bounds the number of photos per listing.
const MaxImages = 5

// SellerRef is a snapshot of the seller's public profile, captured when the
// listing is created. It is intentionally not refreshed on profile edits.
type SellerRef struct {
	ID         string
	Name       string
	PhotoURL   string
	University string
}

type Listing struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Images      []string // URLs, in upload order
	Category    Category
	Condition   Condition
	Status      ListingStatus
	Seller      SellerRef
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// Draft holds the caller-supplied fields of a not-yet-persisted listing.
type Draft struct {
	Title       string
	Description string
	Price       float64
	Category    Category
	Condition   Condition
}

type SortMode string

const (
	SortNewest    SortMode = "newest" // published-at descending, the default
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// CatalogQuery is the ephemeral filter/sort parameter set for catalog reads.
// Nil price bounds mean "no bound".
type CatalogQuery struct {
	Category Category
	MinPrice *float64
	MaxPrice *float64
	SortBy   SortMode
}

// ListingPatch is a sparse update: only non-nil fields are written.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *Category
	Status      *ListingStatus
}

// IsEmpty reports whether the patch would change nothing.
func (p ListingPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Status == nil
}

// Apply writes the set fields onto the listing, leaving the rest untouched.
func (p ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}
