package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/paystack"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	gateway    *paystack.Client
	activation *ActivationService
}

func NewHandler(gateway *paystack.Client, activation *ActivationService) *Handler {
	return &Handler{gateway: gateway, activation: activation}
}

type initializeRequest struct {
	FanID  string `json:"fanId" binding:"required"`
	TierID string `json:"tierId" binding:"required"`
	Method string `json:"method"`
}

type mobileMoneyRequest struct {
	FanID    string `json:"fanId" binding:"required"`
	TierID   string `json:"tierId" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

// lookupCheckout resolves the fan and tier of an initialization request
// and refuses fans who already hold an active subscription to the
// creator. The constraint-based guard in the activation service remains
// the authority; this check only spares the fan a pointless charge.
func (h *Handler) lookupCheckout(c *gin.Context, fanID, tierID string) (*models.User, *models.SubscriptionTier, bool) {
	var fan models.User
	if err := db.DB.First(&fan, "id = ?", fanID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fan not found"})
		return nil, nil, false
	}

	var tier models.SubscriptionTier
	if err := db.DB.First(&tier, "id = ? AND is_active = ?", tierID, true).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subscription tier not found"})
		return nil, nil, false
	}

	var existing models.Subscription
	err := db.DB.First(&existing, "fan_id = ? AND creator_id = ? AND status = ?",
		fan.ID, tier.CreatorID, models.SubscriptionActive).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have an active subscription with this creator"})
		return nil, nil, false
	}

	return &fan, &tier, true
}

func checkoutMetadata(fan *models.User, tier *models.SubscriptionTier) map[string]interface{} {
	return map[string]interface{}{
		"fanId":     fan.ID,
		"tierId":    tier.ID,
		"creatorId": tier.CreatorID,
		"tierName":  tier.Name,
	}
}

// InitializePayment starts a card checkout for a subscription tier
// @Summary Initialize a card payment
// @Description Start a Paystack card checkout to subscribe to a creator's tier. Returns the authorization URL to open on the frontend.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body initializeRequest true "Fan and tier"
// @Security BearerAuth
// @Success 200 {object} paystack.CardPayment
// @Failure 400 {object} map[string]string "error: Fan/tier missing or already subscribed"
// @Failure 503 {object} map[string]string "error: Gateway unavailable"
// @Router /payments/initialize [post]
func (h *Handler) InitializePayment(c *gin.Context) {
	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	fan, tier, ok := h.lookupCheckout(c, req.FanID, req.TierID)
	if !ok {
		return
	}

	payment, err := h.gateway.InitializeCardPayment(fan.Email, tier.Price, tier.Currency, checkoutMetadata(fan, tier))
	if err != nil {
		if errors.Is(err, paystack.ErrGatewayUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable, try again"})
			return
		}
		utils.LogErrorWithUser(fan.ID, err, "Error initializing card payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error initializing payment"})
		return
	}

	utils.LogSuccessWithUser(fan.ID, "Card payment initialized for tier "+tier.ID)
	c.JSON(http.StatusOK, payment)
}

// InitializeMobileMoney starts a mobile money charge for a tier
// @Summary Initialize a mobile money payment
// @Description Start a Paystack mobile money charge (MTN, Vodafone, AirtelTigo) to subscribe to a creator's tier.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body mobileMoneyRequest true "Fan, tier, phone and provider"
// @Security BearerAuth
// @Success 200 {object} paystack.MobileMoneyPayment
// @Failure 400 {object} map[string]string "error: Invalid provider or phone"
// @Failure 503 {object} map[string]string "error: Gateway unavailable"
// @Router /payments/mobile-money [post]
func (h *Handler) InitializeMobileMoney(c *gin.Context) {
	var req mobileMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	fan, tier, ok := h.lookupCheckout(c, req.FanID, req.TierID)
	if !ok {
		return
	}

	payment, err := h.gateway.InitializeMobileMoneyPayment(fan.Email, tier.Price, req.Phone, req.Provider, checkoutMetadata(fan, tier))
	if err != nil {
		switch {
		case errors.Is(err, paystack.ErrInvalidProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported mobile money provider"})
		case errors.Is(err, paystack.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mobile money phone number"})
		case errors.Is(err, paystack.ErrGatewayUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable, try again"})
		default:
			utils.LogErrorWithUser(fan.ID, err, "Error initializing mobile money payment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error initializing payment"})
		}
		return
	}

	utils.LogSuccessWithUser(fan.ID, "Mobile money payment initialized for tier "+tier.ID)
	c.JSON(http.StatusOK, payment)
}

// VerifyPayment polls the gateway for a reference and activates on success
// @Summary Verify a payment
// @Description Verify a charge by reference against Paystack. On success the subscription is activated; replays of the same reference are no-ops.
// @Tags payments
// @Produce json
// @Param reference path string true "Transaction reference"
// @Success 200 {object} map[string]interface{} "verification payload plus activation outcome"
// @Failure 404 {object} map[string]string "error: Unknown reference"
// @Failure 503 {object} map[string]string "error: Gateway unavailable, re-poll"
// @Router /payments/verify/{reference} [get]
func (h *Handler) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")

	event, err := h.gateway.VerifyPayment(reference)
	if err != nil {
		switch {
		case errors.Is(err, paystack.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction reference"})
		case errors.Is(err, paystack.ErrGatewayUnavailable):
			// the charge may have succeeded at the provider; the client
			// must re-poll, nothing gets marked as failed here
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable, retry the verification"})
		default:
			utils.LogError(err, "Error verifying payment "+reference)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying payment"})
		}
		return
	}

	if event.Status != "success" {
		c.JSON(http.StatusOK, gin.H{"verification": event, "activation": nil})
		return
	}

	result, err := h.activation.ActivateFromPayment(event)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedMetadata), errors.Is(err, ErrTierNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			utils.LogError(err, "Error activating subscription for "+reference)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error applying the payment, retry the verification"})
		}
		return
	}

	utils.LogSuccess("Payment " + reference + " verified, outcome: " + string(result.Outcome))
	c.JSON(http.StatusOK, gin.H{"verification": event, "activation": result})
}

// Webhook receives Paystack event deliveries
// @Summary Paystack webhook
// @Description Validate the webhook signature and apply charge.success events. Transient failures return 5xx so Paystack redelivers.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "message: event handled or ignored"
// @Failure 400 {object} map[string]string "error: Bad signature or malformed payload"
// @Router /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to read the request body"})
		return
	}

	// The signature covers the raw bytes and is checked before anything
	// in the payload is trusted.
	signature := c.GetHeader("X-Paystack-Signature")
	if !h.gateway.ValidateWebhookSignature(payload, signature) {
		utils.LogSecurityEvent("Webhook with invalid signature from " + c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	event, err := paystack.ParseWebhookEvent(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook payload"})
		return
	}

	switch event.Event {
	case "charge.success":
		h.handleChargeSuccess(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func (h *Handler) handleChargeSuccess(c *gin.Context, event *paystack.WebhookEvent) {
	paymentEvent := event.PaymentEvent()
	if paymentEvent.Status != "success" {
		c.JSON(http.StatusOK, gin.H{"message": "Charge not successful, ignored"})
		return
	}

	result, err := h.activation.ActivateFromPayment(paymentEvent)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedMetadata), errors.Is(err, ErrTierNotFound):
			// permanent: redelivering the same payload cannot succeed
			utils.LogError(err, "Webhook charge "+paymentEvent.Reference+" rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// transient: non-2xx makes Paystack redeliver, which is safe
			// because activation is idempotent on the reference
			utils.LogError(err, "Webhook charge "+paymentEvent.Reference+" failed, awaiting redelivery")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error applying the payment"})
		}
		return
	}

	utils.LogSuccess("Webhook charge " + paymentEvent.Reference + " applied, outcome: " + string(result.Outcome))
	c.JSON(http.StatusOK, gin.H{"message": "Charge applied", "activation": result})
}
