package community

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresRepository stores the feed through GORM. Counter maintenance
// uses atomic column expressions rather than read-modify-write so that
// concurrent likes cannot lose increments.
type PostgresRepository struct {
	DB *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) CreatePost(ctx context.Context, userID string, in PostCreateInput) (*Post, error) {
	now := time.Now()
	p := Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoutineID: in.RoutineID,
		Text:      in.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 20
	}
	items := []Post{}
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) GetPost(ctx context.Context, postID string) (*Post, error) {
	var p Post
	err := r.DB.WithContext(ctx).Where("id = ?", postID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) AddLike(ctx context.Context, userID, postID string) (*Like, error) {
	post, err := r.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	l := Like{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&l)
	if res.Error != nil {
		return nil, fmt.Errorf("add like: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		err = r.DB.WithContext(ctx).Model(&Post{}).
			Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count + ?", 1)).Error
		if err != nil {
			return nil, fmt.Errorf("increment like count: %w", err)
		}
	}
	return r.GetLike(ctx, userID, postID)
}

func (r *PostgresRepository) RemoveLike(ctx context.Context, userID, postID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&Like{})
	if res.Error != nil {
		return false, fmt.Errorf("remove like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	err := r.DB.WithContext(ctx).Model(&Post{}).
		Where("id = ?", postID).
		Update("like_count", gorm.Expr("like_count - ?", 1)).Error
	if err != nil {
		return false, fmt.Errorf("decrement like count: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) GetLike(ctx context.Context, userID, postID string) (*Like, error) {
	var l Like
	err := r.DB.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &l, nil
}

func (r *PostgresRepository) AddComment(ctx context.Context, userID, postID string, in CommentCreateInput) (*Comment, error) {
	post, err := r.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	c := Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Text:      in.Text,
		CreatedAt: time.Now(),
	}
	if err := r.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	err = r.DB.WithContext(ctx).Model(&Post{}).
		Where("id = ?", postID).
		Update("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	if err != nil {
		return nil, fmt.Errorf("increment comment count: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	items := []Comment{}
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return items, nil
}
