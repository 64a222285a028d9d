package models

import (
	"time"
)

// Likes are join facts, one row per (user, target). The denormalized
// counters on posts and comments are maintained in the same transaction
// as the row insert or delete.
type PostLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type CommentLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CommentID string    `json:"commentId" gorm:"column:comment_id;type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
