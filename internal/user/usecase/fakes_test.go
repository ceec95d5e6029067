package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/unimarket/listing-service/internal/user/domain"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) NewID() string {
	r.nextID++
	return fmt.Sprintf("user-%d", r.nextID)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id string, patch domain.UserPatch) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.University != nil {
		u.University = *patch.University
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Location != nil {
		u.Location = *patch.Location
	}
	if patch.PhotoURL != nil {
		u.PhotoURL = *patch.PhotoURL
	}
	return nil
}

type fakeTokenCache struct {
	tokens map[string]string
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{tokens: map[string]string{}}
}

func (c *fakeTokenCache) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	c.tokens[userID] = token
	return nil
}

func (c *fakeTokenCache) InvalidateToken(ctx context.Context, userID string) error {
	delete(c.tokens, userID)
	return nil
}

type fakeStorage struct {
	paths []string
}

func (s *fakeStorage) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	s.paths = append(s.paths, objectPath)
	return "https://blobs.test/" + objectPath, nil
}
