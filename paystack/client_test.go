package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newSimClient(t *testing.T) *Client {
	t.Setenv("PAYSTACK_SECRET_KEY", "")
	c := New()
	assert.True(t, c.SimulationMode)
	return c
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2500), ToMinorUnits(decimal.RequireFromString("25.00")))
	assert.Equal(t, int64(999), ToMinorUnits(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(50), ToMinorUnits(decimal.RequireFromString("0.5")))
}

func TestFromMinorUnits_RoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("25.00")
	assert.True(t, amount.Equal(FromMinorUnits(ToMinorUnits(amount))))
}

func TestGenerateReference_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReference()
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestInitializeCardPayment_Simulation(t *testing.T) {
	c := newSimClient(t)

	payment, err := c.InitializeCardPayment("fan@test.com", decimal.RequireFromString("25.00"), "GHS", map[string]interface{}{
		"fanId":  "fan-1",
		"tierId": "tier-1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, payment.Reference)
	assert.NotEmpty(t, payment.AccessCode)
}

func TestInitializeCardPayment_InvalidAmount(t *testing.T) {
	c := newSimClient(t)

	_, err := c.InitializeCardPayment("fan@test.com", decimal.Zero, "GHS", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = c.InitializeCardPayment("fan@test.com", decimal.RequireFromString("-5"), "GHS", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestInitializeMobileMoneyPayment_InvalidProvider(t *testing.T) {
	c := newSimClient(t)

	_, err := c.InitializeMobileMoneyPayment("fan@test.com", decimal.RequireFromString("10.00"), "0241234567", "safaricom", nil)
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestInitializeMobileMoneyPayment_InvalidPhone(t *testing.T) {
	c := newSimClient(t)

	invalid := []string{"12345", "0641234567", "+14155550100", "024123456"}
	for _, phone := range invalid {
		_, err := c.InitializeMobileMoneyPayment("fan@test.com", decimal.RequireFromString("10.00"), phone, "mtn", nil)
		assert.ErrorIs(t, err, ErrInvalidPhone, "phone %s should be rejected", phone)
	}
}

func TestInitializeMobileMoneyPayment_ValidPhones(t *testing.T) {
	c := newSimClient(t)

	valid := []string{"0241234567", "233241234567", "+233541234567", "0201234567"}
	for _, phone := range valid {
		payment, err := c.InitializeMobileMoneyPayment("fan@test.com", decimal.RequireFromString("10.00"), phone, "mtn", nil)
		assert.NoError(t, err, "phone %s should be accepted", phone)
		assert.Equal(t, "pay_offline", payment.Status)
	}
}

func TestVerifyPayment_Simulation(t *testing.T) {
	c := newSimClient(t)

	amount := decimal.RequireFromString("25.00")
	metadata := map[string]interface{}{"fanId": "fan-1", "tierId": "tier-1"}
	payment, err := c.InitializeCardPayment("fan@test.com", amount, "GHS", metadata)
	assert.NoError(t, err)

	event, err := c.VerifyPayment(payment.Reference)
	assert.NoError(t, err)
	assert.Equal(t, "success", event.Status)
	assert.Equal(t, payment.Reference, event.Reference)
	assert.True(t, amount.Equal(event.Amount), "amount must survive the minor-unit round trip, got %s", event.Amount)
	assert.Equal(t, "fan-1", event.Metadata["fanId"])

	// Verifying twice must return the same result.
	again, err := c.VerifyPayment(payment.Reference)
	assert.NoError(t, err)
	assert.True(t, event.Amount.Equal(again.Amount))
}

func TestVerifyPayment_UnknownReference(t *testing.T) {
	c := newSimClient(t)

	_, err := c.VerifyPayment("XCL-deadbeef-404")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestValidateWebhookSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	c := New()

	payload := []byte(`{"event":"charge.success","data":{"reference":"XCL-1"}}`)
	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.ValidateWebhookSignature(payload, signature))
}

func TestValidateWebhookSignature_Rejections(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	c := New()

	payload := []byte(`{"event":"charge.success"}`)
	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	// Tampered payload.
	assert.False(t, c.ValidateWebhookSignature([]byte(`{"event":"charge.failed"}`), signature))
	// Signature computed with the wrong key.
	otherMac := hmac.New(sha512.New, []byte("sk_test_other"))
	otherMac.Write(payload)
	assert.False(t, c.ValidateWebhookSignature(payload, hex.EncodeToString(otherMac.Sum(nil))))
	// Garbage header.
	assert.False(t, c.ValidateWebhookSignature(payload, "not-hex"))
	assert.False(t, c.ValidateWebhookSignature(payload, ""))
}

func TestValidateWebhookSignature_SimulationModeRefusesAll(t *testing.T) {
	c := newSimClient(t)

	payload := []byte(`{"event":"charge.success","data":{"reference":"XCL-1"}}`)
	// An empty-key HMAC must not be accepted as a valid signature.
	mac := hmac.New(sha512.New, nil)
	mac.Write(payload)
	forged := hex.EncodeToString(mac.Sum(nil))

	assert.False(t, c.ValidateWebhookSignature(payload, forged))
}

func TestParseWebhookEvent(t *testing.T) {
	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"status": "success",
			"amount": 2500,
			"currency": "GHS",
			"reference": "XCL-abc-1",
			"channel": "mobile_money",
			"paid_at": "2026-08-01T12:00:00Z",
			"metadata": {"fanId": "fan-1", "tierId": "tier-1"}
		}
	}`)

	webhook, err := ParseWebhookEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, "charge.success", webhook.Event)

	event := webhook.PaymentEvent()
	assert.Equal(t, "success", event.Status)
	assert.True(t, decimal.RequireFromString("25.00").Equal(event.Amount))
	assert.Equal(t, "XCL-abc-1", event.Reference)
	assert.Equal(t, "tier-1", event.Metadata["tierId"])
	assert.Equal(t, 2026, event.PaidAt.Year())
}
