package domain

import "context"

type UserRepository interface {
	NewID() string
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateFields(ctx context.Context, id string, patch UserPatch) error
}
