package user

import (
	"context"
	"time"
)

// InMemoryRepository is the map-backed test/dev implementation. Same
// caveats as the routine one: no locking, one instance per test.
type InMemoryRepository struct {
	users map[string]*User

	Now func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

var _ Repository = (*InMemoryRepository)(nil)

func (m *InMemoryRepository) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *InMemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *InMemoryRepository) Create(_ context.Context, u User) (*User, error) {
	now := m.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = &u
	out := u
	return &out, nil
}

func (m *InMemoryRepository) Update(_ context.Context, id string, in UpdateInput) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if in.DisplayName != nil {
		u.DisplayName = *in.DisplayName
	}
	if in.PhotoURL != nil {
		if *in.PhotoURL == "" {
			u.PhotoURL = nil
		} else {
			p := *in.PhotoURL
			u.PhotoURL = &p
		}
	}
	if in.NotificationSettings != nil {
		u.NotificationSettings = *in.NotificationSettings
	}
	if in.IsPremium != nil {
		u.IsPremium = *in.IsPremium
	}
	u.UpdatedAt = m.now()
	out := *u
	return &out, nil
}
