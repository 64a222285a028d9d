package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription ties one fan to one creator through one tier. At most one
// active subscription may exist per (fan, creator) pair; the invariant is
// enforced by a partial unique index created in db.InitDB, not by
// application-level pre-checks.
type Subscription struct {
	ID               string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FanID            string             `json:"fanId" gorm:"type:uuid;not null;index"`
	CreatorID        string             `json:"creatorId" gorm:"type:uuid;not null;index"`
	TierID           string             `json:"tierId" gorm:"type:uuid;not null"`
	Status           SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	AutoRenew        bool               `json:"autoRenew" gorm:"default:true"`
	StartedAt        time.Time          `json:"startedAt"`
	CurrentPeriodEnd time.Time          `json:"currentPeriodEnd"`
	NextBillingDate  time.Time          `json:"nextBillingDate"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`

	Tier *SubscriptionTier `json:"tier,omitempty" gorm:"foreignKey:TierID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
