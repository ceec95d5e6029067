package usecase

import (
	"context"
	"fmt"

	"github.com/unimarket/listing-service/internal/listing/domain"
	userdomain "github.com/unimarket/listing-service/internal/user/domain"
)

// fakeListingRepo is an in-memory ListingRepository. Fetch order is
// insertion order, which the catalog relies on for tie-breaking.
type fakeListingRepo struct {
	listings map[string]*domain.Listing
	order    []string
	nextID   int

	failFind   error
	failCreate error

	// lastCategory records the narrowing passed to FindAvailable.
	lastCategory domain.Category
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*domain.Listing{}}
}

func (r *fakeListingRepo) NewID() string {
	r.nextID++
	return fmt.Sprintf("listing-%d", r.nextID)
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *listing
	r.listings[listing.ID] = &cp
	r.order = append(r.order, listing.ID)
	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) FindAvailable(ctx context.Context, category domain.Category) ([]*domain.Listing, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	r.lastCategory = category
	var out []*domain.Listing
	for _, id := range r.order {
		l := r.listings[id]
		if l.Status != domain.StatusAvailable {
			continue
		}
		if category != "" && category != domain.CategoryAll && l.Category != category {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeListingRepo) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	var out []*domain.Listing
	for _, id := range r.order {
		l := r.listings[id]
		if l.Seller.ID == sellerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) UpdateFields(ctx context.Context, id string, patch domain.ListingPatch) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Category != nil {
		l.Category = *patch.Category
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeStorage records uploads in call order.
type fakeStorage struct {
	paths   []string
	failAt  int // 1-based upload index to fail on, 0 = never
	uploads int
}

func (s *fakeStorage) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	s.uploads++
	if s.failAt != 0 && s.uploads == s.failAt {
		return "", fmt.Errorf("storage unavailable")
	}
	s.paths = append(s.paths, objectPath)
	return "https://blobs.test/" + objectPath, nil
}

type fakePublisher struct {
	subjects []string
	payloads []interface{}
}

func (p *fakePublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

// lastPayload returns the most recent event as the map the usecase builds.
func (p *fakePublisher) lastPayload() map[string]interface{} {
	if len(p.payloads) == 0 {
		return nil
	}
	m, _ := p.payloads[len(p.payloads)-1].(map[string]interface{})
	return m
}

type fakeNotifier struct {
	sentTo    []string
	lastTitle string
}

func (n *fakeNotifier) SendListingCreated(toEmail, listingTitle string) error {
	n.sentTo = append(n.sentTo, toEmail)
	n.lastTitle = listingTitle
	return nil
}

type fakeProfiles struct {
	users map[string]*userdomain.User
}

func (p *fakeProfiles) FindByID(ctx context.Context, id string) (*userdomain.User, error) {
	u, ok := p.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// fakeCache counts hits so read-through behavior can be asserted.
type fakeCache struct {
	entries map[string]*domain.Listing
	gets    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.Listing{}}
}

func (c *fakeCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	c.gets++
	return c.entries[id], nil
}

func (c *fakeCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	c.sets++
	cp := *listing
	c.entries[listing.ID] = &cp
	return nil
}

func (c *fakeCache) DeleteListing(ctx context.Context, id string) error {
	c.deletes++
	delete(c.entries, id)
	return nil
}
