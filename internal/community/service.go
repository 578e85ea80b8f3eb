package community

import (
	"context"
	"strings"

	"ritu/internal/apperr"
)

const feedLimit = 50

// Service applies the feed rules: posts must reference a routine, comments
// must carry text, likes toggle.
type Service struct {
	Repo Repository
}

func (s *Service) CreatePost(ctx context.Context, userID string, in PostCreateInput) (*Post, error) {
	if in.RoutineID == "" {
		return nil, apperr.Validation("routineId is required")
	}
	return s.Repo.CreatePost(ctx, userID, in)
}

// GetFeed returns the global feed, newest first.
func (s *Service) GetFeed(ctx context.Context, _ string) ([]Post, error) {
	return s.Repo.ListPosts(ctx, feedLimit)
}

// ToggleLike likes the post when the caller has not liked it yet and
// removes the like otherwise. Reports the resulting state.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (bool, *Like, error) {
	existing, err := s.Repo.GetLike(ctx, userID, postID)
	if err != nil {
		return false, nil, err
	}
	if existing != nil {
		removed, err := s.Repo.RemoveLike(ctx, userID, postID)
		if err != nil {
			return false, nil, err
		}
		if !removed {
			return false, nil, apperr.NotFound("like not found")
		}
		return false, nil, nil
	}
	like, err := s.Repo.AddLike(ctx, userID, postID)
	if err != nil {
		return false, nil, err
	}
	if like == nil {
		return false, nil, apperr.NotFound("post not found")
	}
	return true, like, nil
}

func (s *Service) AddComment(ctx context.Context, userID, postID string, in CommentCreateInput) (*Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperr.Validation("comment text required")
	}
	comment, err := s.Repo.AddComment(ctx, userID, postID, in)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("post not found")
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	return s.Repo.ListComments(ctx, postID)
}
