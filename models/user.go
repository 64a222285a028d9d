package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

// Roles are fixed at registration, there is no role-change flow.
const (
	FanRole     Role = "FAN"
	CreatorRole Role = "CREATOR"
	AdminRole   Role = "ADMIN"
)

type User struct {
	ID               string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string          `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	Password         string          `json:"-"`
	UserName         string          `json:"username"`
	DisplayName      string          `json:"displayName"`
	Role             Role            `json:"role" gorm:"type:varchar(20);default:'FAN'"`
	Bio              string          `json:"bio"`
	Avatar           string          `json:"avatar"`
	CoverImage       string          `json:"coverImage"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings" gorm:"type:decimal(12,2);default:0"`
	TotalSubscribers int             `json:"totalSubscribers" gorm:"default:0"`
	CommentsEnable   bool            `json:"commentsEnable" gorm:"default:true"`
	Enable           bool            `json:"enable" gorm:"default:true"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	UserName string `json:"username"`
	Role     Role   `json:"role"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserUpdate struct {
	UserName       string `json:"username"`
	DisplayName    string `json:"displayName"`
	Bio            string `json:"bio"`
	Avatar         string `json:"avatar"`
	CoverImage     string `json:"coverImage"`
	CommentsEnable *bool  `json:"commentsEnable"`
}
