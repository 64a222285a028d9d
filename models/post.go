package models

import (
	"time"
)

// PublicTier marks a post readable without any subscription.
const PublicTier = "public"

type Post struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID     string     `json:"creatorId" gorm:"column:creator_id;type:uuid;not null;index"`
	Title         string     `json:"title" binding:"required"`
	Content       string     `json:"content"`
	MediaURL      string     `json:"mediaUrl" gorm:"column:media_url"`
	Tier          string     `json:"tier" gorm:"default:'public'"`
	LikesCount    int        `json:"likesCount" gorm:"column:likes_count;default:0"`
	CommentsCount int        `json:"commentsCount" gorm:"column:comments_count;default:0"`
	Enable        bool       `json:"enable" gorm:"default:true"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty" gorm:"index"`
}

type PostCreate struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl"`
	Tier     string `json:"tier"`
}

type PostUpdate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tier    string `json:"tier"`
	Enable  *bool  `json:"enable"`
}

func (Post) TableName() string {
	return "posts"
}
