package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"
	mailsmodels "github.com/RasParker/modular-maestro-sub000/utils/mails-models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Emitter is the side channel for subscription events. It persists an
// in-app notification row and sends a best-effort email; it is injected
// into the activation service so tests can substitute a fake.
type Emitter struct {
	db *gorm.DB
}

func NewEmitter(database *gorm.DB) *Emitter {
	return &Emitter{db: database}
}

// NotifyNewSubscriber tells a creator about a new paying subscriber. The
// caller treats any error as log-and-continue; a failed notification must
// never undo a payment.
func (e *Emitter) NotifyNewSubscriber(creatorID, fanID, tierName string) error {
	var creator models.User
	if err := e.db.First(&creator, "id = ?", creatorID).Error; err != nil {
		return fmt.Errorf("error loading creator %s: %w", creatorID, err)
	}

	var fan models.User
	if err := e.db.First(&fan, "id = ?", fanID).Error; err != nil {
		return fmt.Errorf("error loading fan %s: %w", fanID, err)
	}

	fanName := fan.UserName
	if fanName == "" {
		fanName = "A new fan"
	}

	data, err := json.Marshal(map[string]string{
		"fanId":    fanID,
		"tierName": tierName,
	})
	if err != nil {
		return fmt.Errorf("error encoding notification data: %w", err)
	}

	notification := models.Notification{
		UserID:  creatorID,
		Type:    models.NotificationNewSubscriber,
		Title:   "New subscriber",
		Message: fanName + " subscribed to your " + tierName + " tier",
		Data:    datatypes.JSON(data),
	}
	if err := e.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("error persisting notification: %w", err)
	}

	// Email delivery is fire and forget; SendMail logs its own failures.
	go mailsmodels.NewSubscriber(creator.Email, fanName, tierName)

	utils.LogSuccessWithUser(creatorID, "New subscriber notification emitted")
	return nil
}
