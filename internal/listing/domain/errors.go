package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidListing  = errors.New("invalid listing data")
	ErrTooManyImages   = errors.New("a listing can have at most 5 images")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrForbidden       = errors.New("user not authorized to perform this action")
)
