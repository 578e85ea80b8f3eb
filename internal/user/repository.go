package user

import "context"

// Repository is the user storage contract. The routine engine consumes it
// read-only for plan checks; the HTTP glue uses the write side for profile
// maintenance. Absence is reported as nil, not an error.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u User) (*User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*User, error)
}
