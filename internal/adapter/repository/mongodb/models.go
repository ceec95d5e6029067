package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	listingdomain "github.com/unimarket/listing-service/internal/listing/domain"
	userdomain "github.com/unimarket/listing-service/internal/user/domain"
)

// Documents are stored with the pre-reserved hex id as a plain string _id,
// matching the id handed out by NewID before any blob upload.

type sellerDocument struct {
	ID         string `bson:"id"`
	Name       string `bson:"name"`
	PhotoURL   string `bson:"photo_url"`
	University string `bson:"university"`
}

type listingDocument struct {
	ID          string                      `bson:"_id"`
	Title       string                      `bson:"title"`
	Description string                      `bson:"description"`
	Price       float64                     `bson:"price"`
	Images      []string                    `bson:"images"`
	Category    listingdomain.Category      `bson:"category"`
	Condition   listingdomain.Condition     `bson:"condition"`
	Status      listingdomain.ListingStatus `bson:"status"`
	Seller      sellerDocument              `bson:"seller"`
	PublishedAt time.Time                   `bson:"published_at"`
	UpdatedAt   time.Time                   `bson:"updated_at"`
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	University   string    `bson:"university"`
	PhotoURL     string    `bson:"photo_url"`
	Phone        string    `bson:"phone"`
	Location     string    `bson:"location"`
	RegisteredAt time.Time `bson:"registered_at"`
}

func toListingDocument(l *listingdomain.Listing) *listingDocument {
	if l == nil {
		return nil
	}
	return &listingDocument{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Images:      l.Images,
		Category:    l.Category,
		Condition:   l.Condition,
		Status:      l.Status,
		Seller: sellerDocument{
			ID:         l.Seller.ID,
			Name:       l.Seller.Name,
			PhotoURL:   l.Seller.PhotoURL,
			University: l.Seller.University,
		},
		PublishedAt: l.PublishedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toDomainListing(d *listingDocument) *listingdomain.Listing {
	if d == nil {
		return nil
	}
	return &listingdomain.Listing{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Images:      d.Images,
		Category:    d.Category,
		Condition:   d.Condition,
		Status:      d.Status,
		Seller: listingdomain.SellerRef{
			ID:         d.Seller.ID,
			Name:       d.Seller.Name,
			PhotoURL:   d.Seller.PhotoURL,
			University: d.Seller.University,
		},
		PublishedAt: d.PublishedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toUserDocument(u *userdomain.User) *userDocument {
	if u == nil {
		return nil
	}
	return &userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		University:   u.University,
		PhotoURL:     u.PhotoURL,
		Phone:        u.Phone,
		Location:     u.Location,
		RegisteredAt: u.RegisteredAt,
	}
}

func toDomainUser(d *userDocument) *userdomain.User {
	if d == nil {
		return nil
	}
	return &userdomain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		University:   d.University,
		PhotoURL:     d.PhotoURL,
		Phone:        d.Phone,
		Location:     d.Location,
		RegisteredAt: d.RegisteredAt,
	}
}

// listingPatchToUpdate builds the sparse $set document: only fields present
// on the patch are written, everything else keeps its prior value.
func listingPatchToUpdate(p listingdomain.ListingPatch) bson.M {
	set := bson.M{"updated_at": time.Now()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return bson.M{"$set": set}
}

func userPatchToUpdate(p userdomain.UserPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.University != nil {
		set["university"] = *p.University
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.PhotoURL != nil {
		set["photo_url"] = *p.PhotoURL
	}
	return bson.M{"$set": set}
}
