package payments

import (
	"errors"
	"time"

	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/paystack"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"gorm.io/gorm"
)

var (
	ErrMalformedMetadata = errors.New("payment metadata is missing fanId or tierId")
	ErrTierNotFound      = errors.New("subscription tier not found")
)

// errReferenceReplayed aborts the store transaction when another delivery
// of the same reference won the transaction insert race. Everything this
// call wrote is rolled back; the winner's result is returned instead.
var errReferenceReplayed = errors.New("transaction reference already recorded")

type Outcome string

const (
	OutcomeCreated          Outcome = "created"
	OutcomeRenewed          Outcome = "renewed"
	OutcomeAlreadyProcessed Outcome = "alreadyProcessed"
)

type ActivationResult struct {
	SubscriptionID string  `json:"subscriptionId"`
	TransactionID  string  `json:"transactionId"`
	Outcome        Outcome `json:"outcome"`
}

// Notifier is the side channel the activation service pings after a new
// subscription. Failures are logged, never escalated.
type Notifier interface {
	NotifyNewSubscriber(creatorID, fanID, tierName string) error
}

// ActivationService is the single authority that turns a confirmed
// payment event into durable subscription and transaction state. No other
// code path inserts subscription or payment_transaction rows.
type ActivationService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewActivationService(database *gorm.DB, notifier Notifier) *ActivationService {
	return &ActivationService{db: database, notifier: notifier}
}

const subscriptionPeriod = 30 * 24 * time.Hour

// ActivateFromPayment applies one confirmed payment exactly once. Both
// the webhook handler and the polling verify endpoint funnel into this
// function; idempotency rests on the transaction_id unique index and the
// partial unique index on active (fan_id, creator_id) pairs, not on
// pre-checks.
func (s *ActivationService) ActivateFromPayment(event *paystack.PaymentEvent) (*ActivationResult, error) {
	fanID, tierID, ok := extractMetadata(event.Metadata)
	if !ok {
		return nil, ErrMalformedMetadata
	}

	var tier models.SubscriptionTier
	if err := s.db.First(&tier, "id = ?", tierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	paidAt := event.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	result := &ActivationResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Replayed reference: hand back what the first delivery produced.
		var existing models.PaymentTransaction
		err := tx.First(&existing, "transaction_id = ?", event.Reference).Error
		if err == nil {
			result.SubscriptionID = existing.SubscriptionID
			result.TransactionID = existing.ID
			result.Outcome = OutcomeAlreadyProcessed
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		periodEnd := now.Add(subscriptionPeriod)
		outcome := OutcomeCreated
		sub := models.Subscription{
			FanID:            fanID,
			CreatorID:        tier.CreatorID,
			TierID:           tier.ID,
			Status:           models.SubscriptionActive,
			AutoRenew:        true,
			StartedAt:        now,
			CurrentPeriodEnd: periodEnd,
			NextBillingDate:  periodEnd,
		}
		// The insert runs under a savepoint: a unique violation aborts
		// the whole Postgres transaction unless it can roll back to a
		// savepoint first, and the renewal branch below still needs a
		// usable transaction.
		createErr := tx.Transaction(func(nested *gorm.DB) error {
			return nested.Create(&sub).Error
		})
		if createErr != nil {
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			// The partial unique index fired: the fan already holds an
			// active subscription to this creator. The payment extends
			// that subscription instead of creating a second one.
			if err := tx.First(&sub, "fan_id = ? AND creator_id = ? AND status = ?",
				fanID, tier.CreatorID, models.SubscriptionActive).Error; err != nil {
				return err
			}
			newEnd := sub.CurrentPeriodEnd.Add(subscriptionPeriod)
			if sub.CurrentPeriodEnd.Before(now) {
				newEnd = now.Add(subscriptionPeriod)
			}
			if err := tx.Model(&sub).Updates(map[string]interface{}{
				"current_period_end": newEnd,
				"next_billing_date":  newEnd,
			}).Error; err != nil {
				return err
			}
			outcome = OutcomeRenewed
		}

		txn := models.PaymentTransaction{
			SubscriptionID: sub.ID,
			FanID:          fanID,
			CreatorID:      tier.CreatorID,
			Amount:         event.Amount,
			Currency:       event.Currency,
			Status:         models.TransactionCompleted,
			TransactionID:  event.Reference,
			PaymentMethod:  event.Channel,
			ProcessedAt:    paidAt,
		}
		if err := tx.Create(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errReferenceReplayed
			}
			return err
		}

		// Creator earnings move with the transaction record, in the same
		// transactional boundary.
		updates := map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings + ?", event.Amount),
		}
		if outcome == OutcomeCreated {
			updates["total_subscribers"] = gorm.Expr("total_subscribers + 1")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", tier.CreatorID).Updates(updates).Error; err != nil {
			return err
		}

		result.SubscriptionID = sub.ID
		result.TransactionID = txn.ID
		result.Outcome = outcome
		return nil
	})
	if errors.Is(err, errReferenceReplayed) {
		// A concurrent call committed this reference first; read its result.
		var winner models.PaymentTransaction
		if err := s.db.First(&winner, "transaction_id = ?", event.Reference).Error; err != nil {
			return nil, err
		}
		return &ActivationResult{
			SubscriptionID: winner.SubscriptionID,
			TransactionID:  winner.ID,
			Outcome:        OutcomeAlreadyProcessed,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// Notification is best effort and never rolls the payment back.
	if result.Outcome == OutcomeCreated && s.notifier != nil {
		if err := s.notifier.NotifyNewSubscriber(tier.CreatorID, fanID, tier.Name); err != nil {
			utils.LogError(err, "New subscriber notification failed")
		}
	}

	return result, nil
}

// extractMetadata pulls the fan and tier out of the metadata the
// initialize call attached to the charge.
func extractMetadata(metadata map[string]interface{}) (fanID, tierID string, ok bool) {
	fanID = metadataString(metadata, "fanId", "fan_id")
	tierID = metadataString(metadata, "tierId", "tier_id")
	return fanID, tierID, fanID != "" && tierID != ""
}

func metadataString(metadata map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, exists := metadata[key]; exists {
			if s, isString := value.(string); isString && s != "" {
				return s
			}
		}
	}
	return ""
}
