package routine

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"ritu/internal/apperr"
	"ritu/internal/user"
)

// Soft-deleted routines can be restored for this long.
const restoreWindow = 7 * 24 * time.Hour

// Non-premium users may keep this many active routines.
const freePlanRoutineLimit = 2

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service enforces the business rules on top of the storage contract:
// input validation, plan limits, tombstone visibility, the restore window,
// and streak recomputation after every completion change. All callers go
// through it; handlers and workers never touch the Repository directly for
// mutations.
type Service struct {
	Repo  Repository
	Users user.Repository

	// Now is swappable for deterministic tests; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ListRoutines(ctx context.Context, userID string, p Pagination) (Page, error) {
	return s.Repo.ListByUser(ctx, userID, p)
}

func (s *Service) GetRoutine(ctx context.Context, userID, routineID string) (*Routine, error) {
	r, err := s.Repo.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("routine not found")
	}
	if r.DeletedAt != nil {
		return nil, apperr.Validation("routine is deleted")
	}
	return r, nil
}

func (s *Service) CreateRoutine(ctx context.Context, userID string, in CreateInput) (*Routine, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.Visibility != "" && !in.Visibility.Valid() {
		return nil, apperr.Validation("visibility must be private, public or followers")
	}

	// Unknown users are treated as free plan.
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	isPremium := u != nil && u.IsPremium
	if !isPremium {
		count, err := s.Repo.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= freePlanRoutineLimit {
			return nil, apperr.Validation("Free plan limit reached (2 routines). Upgrade to Premium to create more.")
		}
	}

	if in.Schedule == nil {
		in.Schedule = Schedule{}
	}
	if in.Visibility == "" {
		in.Visibility = VisibilityPrivate
	}
	return s.Repo.Create(ctx, userID, in)
}

func (s *Service) UpdateRoutine(ctx context.Context, userID, routineID string, in UpdateInput) (*Routine, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		in.Title = &t
	}
	if in.Visibility != nil && !in.Visibility.Valid() {
		return nil, apperr.Validation("visibility must be private, public or followers")
	}

	r, err := s.Repo.Update(ctx, userID, routineID, in)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("routine not found")
	}
	if r.DeletedAt != nil {
		return nil, apperr.Validation("routine is deleted")
	}
	return r, nil
}

func (s *Service) DeleteRoutine(ctx context.Context, userID, routineID string) error {
	r, err := s.Repo.SoftDelete(ctx, userID, routineID, s.now())
	if err != nil {
		return err
	}
	if r == nil {
		return apperr.NotFound("routine not found")
	}
	if r.DeletedAt == nil {
		// The repository acknowledged the call but the tombstone is missing.
		return apperr.Internal("failed to delete routine")
	}
	return nil
}

func (s *Service) RestoreRoutine(ctx context.Context, userID, routineID string) (*Routine, error) {
	r, err := s.Repo.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("routine not found")
	}
	if r.DeletedAt == nil {
		return nil, apperr.Validation("routine is not deleted")
	}
	if s.now().Sub(*r.DeletedAt) > restoreWindow {
		return nil, apperr.Validation("restore window (7 days) has expired")
	}
	restored, err := s.Repo.Restore(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if restored == nil {
		return nil, apperr.Internal("failed to restore routine")
	}
	return restored, nil
}

func (s *Service) ListCompletions(ctx context.Context, userID, routineID string, dr DateRange) ([]Completion, error) {
	if _, err := s.ensureRoutineAccessible(ctx, userID, routineID); err != nil {
		return nil, err
	}
	if dr.From != "" && !datePattern.MatchString(dr.From) {
		return nil, apperr.Validation("from must be YYYY-MM-DD")
	}
	if dr.To != "" && !datePattern.MatchString(dr.To) {
		return nil, apperr.Validation("to must be YYYY-MM-DD")
	}
	if dr.From != "" && dr.To != "" && dr.From > dr.To {
		return nil, apperr.Validation("from must be earlier than to")
	}
	return s.Repo.ListCompletions(ctx, userID, routineID, dr)
}

func (s *Service) AddCompletion(ctx context.Context, userID, routineID, date string) (*Completion, error) {
	r, err := s.ensureRoutineAccessible(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if !datePattern.MatchString(date) {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	c, err := s.Repo.AddCompletion(ctx, userID, routineID, date)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("routine not found")
	}
	if err := s.refreshStreaks(ctx, r.UserID, routineID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveCompletion(ctx context.Context, userID, routineID, date string) error {
	r, err := s.ensureRoutineAccessible(ctx, userID, routineID)
	if err != nil {
		return err
	}
	if !datePattern.MatchString(date) {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	removed, err := s.Repo.RemoveCompletion(ctx, userID, routineID, date)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("completion not found")
	}
	return s.refreshStreaks(ctx, r.UserID, routineID)
}

// ensureRoutineAccessible bundles the "exists, owned, not deleted" check
// every completion operation starts with.
func (s *Service) ensureRoutineAccessible(ctx context.Context, userID, routineID string) (*Routine, error) {
	r, err := s.Repo.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("routine not found")
	}
	if r.DeletedAt != nil {
		return nil, apperr.Validation("routine is deleted")
	}
	return r, nil
}

// refreshStreaks recomputes both counters from the full completion list and
// persists them. Always a full recompute: incremental adjustment breaks
// under out-of-order completion edits.
func (s *Service) refreshStreaks(ctx context.Context, ownerID, routineID string) error {
	completions, err := s.Repo.ListCompletions(ctx, ownerID, routineID, DateRange{})
	if err != nil {
		return err
	}
	dates := make([]string, len(completions))
	for i, c := range completions {
		dates[i] = c.Date
	}
	streaks := CalculateStreaks(dates, s.now())
	updated, err := s.Repo.UpdateStreaks(ctx, ownerID, routineID, StreakUpdate{
		Current: streaks.Current,
		Max:     streaks.Max,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return apperr.Internal("failed to update streaks")
	}
	slog.Debug("streaks refreshed",
		"routine_id", routineID,
		"current", streaks.Current,
		"max", streaks.Max,
	)
	return nil
}
