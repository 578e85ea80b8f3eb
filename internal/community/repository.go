package community

import "context"

// Repository is the feed storage contract. Like the routine contract,
// absence comes back as nil/false; only backend failures are errors.
type Repository interface {
	CreatePost(ctx context.Context, userID string, in PostCreateInput) (*Post, error)
	ListPosts(ctx context.Context, limit int) ([]Post, error)
	GetPost(ctx context.Context, postID string) (*Post, error)

	AddLike(ctx context.Context, userID, postID string) (*Like, error)
	RemoveLike(ctx context.Context, userID, postID string) (bool, error)
	GetLike(ctx context.Context, userID, postID string) (*Like, error)

	AddComment(ctx context.Context, userID, postID string, in CommentCreateInput) (*Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)
}
