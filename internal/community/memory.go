package community

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type storedPost struct {
	Post
	likes    map[string]Like // keyed by user id
	comments []Comment
}

// InMemoryRepository is the test/dev feed store. Unsynchronized, one
// instance per test.
type InMemoryRepository struct {
	posts map[string]*storedPost

	Now   func() time.Time
	NewID func() string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{posts: make(map[string]*storedPost)}
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

func (m *InMemoryRepository) CreatePost(_ context.Context, userID string, in PostCreateInput) (*Post, error) {
	now := m.now()
	p := &storedPost{
		Post: Post{
			ID:        m.newID(),
			UserID:    userID,
			RoutineID: in.RoutineID,
			Text:      in.Text,
			CreatedAt: now,
			UpdatedAt: now,
		},
		likes: make(map[string]Like),
	}
	m.posts[p.ID] = p
	out := p.Post
	return &out, nil
}

func (m *InMemoryRepository) ListPosts(_ context.Context, limit int) ([]Post, error) {
	all := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, p.Post)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *InMemoryRepository) GetPost(_ context.Context, postID string) (*Post, error) {
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	out := p.Post
	return &out, nil
}

func (m *InMemoryRepository) AddLike(_ context.Context, userID, postID string) (*Like, error) {
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	if existing, ok := p.likes[userID]; ok {
		out := existing
		return &out, nil
	}
	l := Like{
		ID:        m.newID(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: m.now(),
	}
	p.likes[userID] = l
	p.LikeCount++
	p.UpdatedAt = m.now()
	out := l
	return &out, nil
}

func (m *InMemoryRepository) RemoveLike(_ context.Context, userID, postID string) (bool, error) {
	p, ok := m.posts[postID]
	if !ok {
		return false, nil
	}
	if _, ok := p.likes[userID]; !ok {
		return false, nil
	}
	delete(p.likes, userID)
	p.LikeCount--
	p.UpdatedAt = m.now()
	return true, nil
}

func (m *InMemoryRepository) GetLike(_ context.Context, userID, postID string) (*Like, error) {
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	l, ok := p.likes[userID]
	if !ok {
		return nil, nil
	}
	out := l
	return &out, nil
}

func (m *InMemoryRepository) AddComment(_ context.Context, userID, postID string, in CommentCreateInput) (*Comment, error) {
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	c := Comment{
		ID:        m.newID(),
		PostID:    postID,
		UserID:    userID,
		Text:      in.Text,
		CreatedAt: m.now(),
	}
	p.comments = append(p.comments, c)
	p.CommentCount++
	p.UpdatedAt = m.now()
	out := c
	return &out, nil
}

func (m *InMemoryRepository) ListComments(_ context.Context, postID string) ([]Comment, error) {
	p, ok := m.posts[postID]
	if !ok {
		return []Comment{}, nil
	}
	items := make([]Comment, len(p.comments))
	copy(items, p.comments)
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}
