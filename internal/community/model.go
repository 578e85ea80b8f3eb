package community

import "time"

// Post is a routine shared to the community feed. LikeCount and
// CommentCount are denormalized counters maintained by the repository.
type Post struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"userId" gorm:"index;not null"`
	RoutineID    string    `json:"routineId" gorm:"index;not null"`
	Text         string    `json:"text" gorm:"type:text;not null;default:''"`
	LikeCount    int       `json:"likeCount" gorm:"not null;default:0"`
	CommentCount int       `json:"commentCount" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"not null"`
}

// Like marks that a user liked a post; at most one per (post, user).
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"not null;uniqueIndex:uq_likes_post_user,priority:1"`
	UserID    string    `json:"userId" gorm:"not null;uniqueIndex:uq_likes_post_user,priority:2"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"index;not null"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

type PostCreateInput struct {
	RoutineID string `json:"routineId"`
	Text      string `json:"text"`
}

type CommentCreateInput struct {
	Text string `json:"text"`
}
