package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationNewSubscriber NotificationType = "NEW_SUBSCRIBER"
	NotificationNewComment    NotificationType = "NEW_COMMENT"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string           `json:"userId" gorm:"column:user_id;type:uuid;not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30)"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      datatypes.JSON   `json:"data" gorm:"type:jsonb"`
	IsRead    bool             `json:"isRead" gorm:"column:is_read;default:false"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
