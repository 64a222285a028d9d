package models

import (
	"time"
)

// Comment belongs to a post. A reply carries the parent comment's ID and
// must reference a top-level comment of the same post; threads are at
// most one level deep.
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID     string    `json:"postId" gorm:"column:post_id;type:uuid;not null;index"`
	UserID     string    `json:"userId" gorm:"column:user_id;type:uuid;not null"`
	ParentID   *string   `json:"parentId" gorm:"column:parent_id;type:uuid;index"`
	Content    string    `json:"content" binding:"required"`
	LikesCount int       `json:"likesCount" gorm:"column:likes_count;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}

type CommentCreate struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parentId"`
}
