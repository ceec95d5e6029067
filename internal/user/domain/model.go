package domain

import "time"

// User is a marketplace account. Accounts are created at sign-up and
// never deleted by this service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	University   string
	PhotoURL     string
	Phone        string
	Location     string
	RegisteredAt time.Time
}

// UserPatch is a sparse profile update: only non-nil fields are written.
// Email and password are not updatable through profile edits.
type UserPatch struct {
	Name       *string
	University *string
	Phone      *string
	Location   *string
	PhotoURL   *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.University == nil && p.Phone == nil &&
		p.Location == nil && p.PhotoURL == nil
}
