package routine

import (
	"context"
	"time"
)

// Pagination selects a page of a user's routines. Callers are expected to
// hand in sane values; the HTTP layer clamps limit to [1,100].
type Pagination struct {
	Page  int
	Limit int
}

// Page is the common list envelope: one page of items plus the total count
// of matching routines across all pages.
type Page struct {
	Items []Routine `json:"items"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
}

type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Schedule    Schedule   `json:"schedule"`
	AutoShare   bool       `json:"autoShare"`
	Visibility  Visibility `json:"visibility"`
}

// UpdateInput carries a partial update: nil fields are left unchanged. An
// explicit empty-string description clears it to null.
type UpdateInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Schedule    Schedule    `json:"schedule"`
	AutoShare   *bool       `json:"autoShare"`
	Visibility  *Visibility `json:"visibility"`
}

type StreakUpdate struct {
	Current int
	Max     int
}

// DateRange filters completions inclusively by ISO date. Empty bounds are
// open ends.
type DateRange struct {
	From string
	To   string
}

// Repository is the storage contract for routines and their completion
// sub-records. Every method takes the caller's user id and answers as if
// records owned by other users did not exist: reads return nil/false/empty
// rather than a permission error. Only backend failures produce errors.
//
// GetByID returns tombstoned routines; filtering them out is the service
// layer's responsibility, since restore needs to see them.
type Repository interface {
	ListByUser(ctx context.Context, userID string, p Pagination) (Page, error)
	GetByID(ctx context.Context, userID, routineID string) (*Routine, error)
	Create(ctx context.Context, userID string, in CreateInput) (*Routine, error)
	Update(ctx context.Context, userID, routineID string, in UpdateInput) (*Routine, error)
	UpdateStreaks(ctx context.Context, userID, routineID string, s StreakUpdate) (*Routine, error)
	SoftDelete(ctx context.Context, userID, routineID string, deletedAt time.Time) (*Routine, error)
	Restore(ctx context.Context, userID, routineID string) (*Routine, error)
	CountByUser(ctx context.Context, userID string) (int64, error)

	ListCompletions(ctx context.Context, userID, routineID string, r DateRange) ([]Completion, error)
	AddCompletion(ctx context.Context, userID, routineID, date string) (*Completion, error)
	RemoveCompletion(ctx context.Context, userID, routineID, date string) (bool, error)

	// ListByScheduleTime returns active routines whose schedule document
	// carries {"time": "HH:MM"} equal to t, grouped by owner. This is the
	// single place the engine looks inside the schedule, on behalf of the
	// notification reconciliation worker.
	ListByScheduleTime(ctx context.Context, t string) (map[string][]Routine, error)
}
