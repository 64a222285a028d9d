package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SubscriptionTier is a named, priced subscription level offered by a
// creator. A tier is never hard-deleted while subscriptions reference it,
// it is deactivated instead.
type SubscriptionTier struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID   string          `json:"creatorId" gorm:"type:uuid;not null;index"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency    string          `json:"currency" gorm:"type:varchar(3);default:'GHS'"`
	Benefits    datatypes.JSON  `json:"benefits" gorm:"type:jsonb"`
	IsActive    bool            `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (SubscriptionTier) TableName() string {
	return "subscription_tiers"
}

type TierCreate struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Benefits    []string        `json:"benefits"`
}

type TierUpdate struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Benefits    []string         `json:"benefits"`
	IsActive    *bool            `json:"isActive"`
}
