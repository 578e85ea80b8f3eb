package routine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type storedRoutine struct {
	Routine
	completions map[string]Completion // keyed by date
}

// InMemoryRepository is the map-backed reference implementation used by
// tests and local development. It keeps one keyed map per collection with
// no internal locking: single process, single writer. Construct one per
// test; it is deliberately not a package-level singleton.
type InMemoryRepository struct {
	routines map[string]*storedRoutine

	// Now and NewID are swappable for deterministic tests. Nil means
	// time.Now / random UUIDs.
	Now   func() time.Time
	NewID func() string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{routines: make(map[string]*storedRoutine)}
}

var _ Repository = (*InMemoryRepository)(nil)

func (m *InMemoryRepository) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *InMemoryRepository) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

// owned returns the stored routine only when it exists and belongs to the
// caller. Ownership misses look identical to absence.
func (m *InMemoryRepository) owned(userID, routineID string) *storedRoutine {
	r, ok := m.routines[routineID]
	if !ok || r.UserID != userID {
		return nil
	}
	return r
}

func cloneRoutine(r *storedRoutine) *Routine {
	out := r.Routine
	if r.Schedule != nil {
		s := make(Schedule, len(r.Schedule))
		for k, v := range r.Schedule {
			s[k] = v
		}
		out.Schedule = s
	}
	if r.Description != nil {
		d := *r.Description
		out.Description = &d
	}
	if r.DeletedAt != nil {
		t := *r.DeletedAt
		out.DeletedAt = &t
	}
	return &out
}

func (m *InMemoryRepository) ListByUser(_ context.Context, userID string, p Pagination) (Page, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}

	var all []*storedRoutine
	for _, r := range m.routines {
		if r.UserID == userID && r.DeletedAt == nil {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	items := []Routine{}
	start := (page - 1) * limit
	for i := start; i < len(all) && i < start+limit; i++ {
		items = append(items, *cloneRoutine(all[i]))
	}
	return Page{Items: items, Page: page, Limit: limit, Total: int64(len(all))}, nil
}

func (m *InMemoryRepository) GetByID(_ context.Context, userID, routineID string) (*Routine, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) Create(_ context.Context, userID string, in CreateInput) (*Routine, error) {
	now := m.now()
	schedule := in.Schedule
	if schedule == nil {
		schedule = Schedule{}
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	r := &storedRoutine{
		Routine: Routine{
			ID:          m.newID(),
			UserID:      userID,
			Title:       in.Title,
			Description: in.Description,
			Schedule:    schedule,
			AutoShare:   in.AutoShare,
			Visibility:  visibility,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		completions: make(map[string]Completion),
	}
	m.routines[r.ID] = r
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) Update(_ context.Context, userID, routineID string, in UpdateInput) (*Routine, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			r.Description = nil
		} else {
			d := *in.Description
			r.Description = &d
		}
	}
	if in.Schedule != nil {
		r.Schedule = in.Schedule
	}
	if in.AutoShare != nil {
		r.AutoShare = *in.AutoShare
	}
	if in.Visibility != nil {
		r.Visibility = *in.Visibility
	}
	r.UpdatedAt = m.now()
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) UpdateStreaks(_ context.Context, userID, routineID string, s StreakUpdate) (*Routine, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	r.CurrentStreak = s.Current
	r.MaxStreak = s.Max
	r.UpdatedAt = m.now()
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) SoftDelete(_ context.Context, userID, routineID string, deletedAt time.Time) (*Routine, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	t := deletedAt
	r.DeletedAt = &t
	r.UpdatedAt = t
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) Restore(_ context.Context, userID, routineID string) (*Routine, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	r.DeletedAt = nil
	r.UpdatedAt = m.now()
	return cloneRoutine(r), nil
}

func (m *InMemoryRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, r := range m.routines {
		if r.UserID == userID && r.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (m *InMemoryRepository) ListCompletions(_ context.Context, userID, routineID string, dr DateRange) ([]Completion, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return []Completion{}, nil
	}
	items := []Completion{}
	for _, c := range r.completions {
		if dr.From != "" && c.Date < dr.From {
			continue
		}
		if dr.To != "" && c.Date > dr.To {
			continue
		}
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	return items, nil
}

func (m *InMemoryRepository) AddCompletion(_ context.Context, userID, routineID, date string) (*Completion, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return nil, nil
	}
	c, ok := r.completions[date]
	if !ok {
		c = Completion{
			ID:        m.newID(),
			RoutineID: routineID,
			UserID:    userID,
			Date:      date,
			CreatedAt: m.now(),
		}
		r.completions[date] = c
	}
	r.UpdatedAt = m.now()
	return &c, nil
}

func (m *InMemoryRepository) RemoveCompletion(_ context.Context, userID, routineID, date string) (bool, error) {
	r := m.owned(userID, routineID)
	if r == nil {
		return false, nil
	}
	if _, ok := r.completions[date]; !ok {
		return false, nil
	}
	delete(r.completions, date)
	r.UpdatedAt = m.now()
	return true, nil
}

func (m *InMemoryRepository) ListByScheduleTime(_ context.Context, t string) (map[string][]Routine, error) {
	out := make(map[string][]Routine)
	for _, r := range m.routines {
		if r.DeletedAt != nil {
			continue
		}
		v, ok := r.Schedule["time"].(string)
		if !ok || v != t {
			continue
		}
		out[r.UserID] = append(out[r.UserID], *cloneRoutine(r))
	}
	return out, nil
}
