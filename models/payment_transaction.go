package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// PaymentTransaction is an append-only record of a gateway charge.
// TransactionID carries the gateway reference; its unique index is what
// makes replayed webhooks and repeated verify calls idempotent.
type PaymentTransaction struct {
	ID             string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubscriptionID string            `json:"subscriptionId" gorm:"type:uuid;not null"`
	FanID          string            `json:"fanId" gorm:"type:uuid;not null;index"`
	CreatorID      string            `json:"creatorId" gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency       string            `json:"currency" gorm:"type:varchar(3);default:'GHS'"`
	Status         TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	TransactionID  string            `json:"transactionId" gorm:"uniqueIndex;not null"`
	PaymentMethod  string            `json:"paymentMethod"`
	ProcessedAt    time.Time         `json:"processedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
