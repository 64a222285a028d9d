package paystack

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.paystack.co"

var (
	ErrInvalidAmount       = errors.New("payment amount must be greater than zero")
	ErrInvalidProvider     = errors.New("unsupported mobile money provider")
	ErrInvalidPhone        = errors.New("invalid mobile money phone number")
	ErrTransactionNotFound = errors.New("transaction reference not found")
	// ErrGatewayUnavailable covers timeouts and 5xx responses from the
	// provider. A timed-out verify does not mean the charge failed, the
	// caller must retry with the same reference.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Providers Paystack accepts for Ghana mobile money charges.
var mobileMoneyProviders = map[string]bool{
	"mtn":        true,
	"vodafone":   true,
	"airteltigo": true,
	"other":      true,
}

// Ghana MSISDN: local 0XXXXXXXXX or international 233XXXXXXXXX.
var ghanaPhoneRegexp = regexp.MustCompile(`^(\+233|233|0)[235][0-9]{8}$`)

// Client wraps the Paystack initialize/verify/webhook API. It is a pure
// adapter: no subscription rules live here. When PAYSTACK_SECRET_KEY is
// unset the client runs in simulation mode and fabricates deterministic
// successful responses, which keeps local development and tests off the
// network.
type Client struct {
	SimulationMode bool

	secretKey   string
	publicKey   string
	callbackURL string
	baseURL     string
	httpClient  *http.Client

	mu      sync.Mutex
	simRefs map[string]simCharge
}

type simCharge struct {
	email       string
	amountMinor int64
	currency    string
	metadata    map[string]interface{}
	initiatedAt time.Time
}

func New() *Client {
	secret := os.Getenv("PAYSTACK_SECRET_KEY")
	c := &Client{
		secretKey:   secret,
		publicKey:   os.Getenv("PAYSTACK_PUBLIC_KEY"),
		callbackURL: os.Getenv("FRONTEND_URL"),
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	if secret == "" {
		c.SimulationMode = true
		c.simRefs = make(map[string]simCharge)
		utils.LogInfo("PAYSTACK_SECRET_KEY not set: payment gateway running in simulation mode")
	}
	return c
}

// CardPayment is the result of a card initialization.
type CardPayment struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// MobileMoneyPayment is the result of a mobile money charge request.
type MobileMoneyPayment struct {
	Status      string `json:"status"`
	Reference   string `json:"reference"`
	DisplayText string `json:"displayText"`
}

// PaymentEvent is the normalized shape of a confirmed or pending charge,
// whether it came from a verify call or a webhook. Amount is in major
// units; the minor-unit conversion happens in this package only.
type PaymentEvent struct {
	Status    string                 `json:"status"`
	Amount    decimal.Decimal        `json:"amount"`
	Currency  string                 `json:"currency"`
	Reference string                 `json:"reference"`
	Channel   string                 `json:"channel"`
	PaidAt    time.Time              `json:"paidAt"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ToMinorUnits converts a major-unit amount (GHS 25.00) to the gateway's
// minor-unit wire format (2500 pesewas).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FromMinorUnits is the inverse boundary conversion.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-2)
}

// GenerateReference builds a globally unique transaction reference:
// random token plus timestamp.
func GenerateReference() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is not recoverable here
		panic(err)
	}
	return fmt.Sprintf("XCL-%s-%d", hex.EncodeToString(buf), time.Now().UnixNano())
}

// InitializeCardPayment starts a card checkout for a fan. Amount is in
// major units and must be positive.
func (c *Client) InitializeCardPayment(email string, amount decimal.Decimal, currency string, metadata map[string]interface{}) (*CardPayment, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "GHS"
	}
	reference := GenerateReference()

	if c.SimulationMode {
		c.recordSimCharge(reference, email, ToMinorUnits(amount), currency, metadata)
		return &CardPayment{
			AuthorizationURL: c.callbackURL + "/payments/simulated/" + reference,
			AccessCode:       "sim_" + reference,
			Reference:        reference,
		}, nil
	}

	body := map[string]interface{}{
		"email":     email,
		"amount":    ToMinorUnits(amount),
		"currency":  currency,
		"reference": reference,
		"metadata":  metadata,
	}
	if c.callbackURL != "" {
		body["callback_url"] = c.callbackURL + "/payment/callback"
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := c.call(http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack refused the initialization for %s", reference)
	}

	return &CardPayment{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// InitializeMobileMoneyPayment starts a mobile money charge. The provider
// must be one of mtn, vodafone, airteltigo or other, and the phone must
// be a valid Ghana number.
func (c *Client) InitializeMobileMoneyPayment(email string, amount decimal.Decimal, phone string, provider string, metadata map[string]interface{}) (*MobileMoneyPayment, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !mobileMoneyProviders[provider] {
		return nil, ErrInvalidProvider
	}
	if !ghanaPhoneRegexp.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	reference := GenerateReference()

	if c.SimulationMode {
		c.recordSimCharge(reference, email, ToMinorUnits(amount), "GHS", metadata)
		return &MobileMoneyPayment{
			Status:      "pay_offline",
			Reference:   reference,
			DisplayText: "Simulated charge: dial *170# to approve the payment on " + phone,
		}, nil
	}

	body := map[string]interface{}{
		"email":     email,
		"amount":    ToMinorUnits(amount),
		"currency":  "GHS",
		"reference": reference,
		"metadata":  metadata,
		"mobile_money": map[string]string{
			"phone":    phone,
			"provider": provider,
		},
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status      string `json:"status"`
			Reference   string `json:"reference"`
			DisplayText string `json:"display_text"`
		} `json:"data"`
	}
	if err := c.call(http.MethodPost, "/charge", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack refused the mobile money charge for %s", reference)
	}

	return &MobileMoneyPayment{
		Status:      resp.Data.Status,
		Reference:   resp.Data.Reference,
		DisplayText: resp.Data.DisplayText,
	}, nil
}

// VerifyPayment fetches the state of a charge by reference. It is a pure
// read against the provider and safe to call any number of times.
func (c *Client) VerifyPayment(reference string) (*PaymentEvent, error) {
	if c.SimulationMode {
		c.mu.Lock()
		charge, ok := c.simRefs[reference]
		c.mu.Unlock()
		if !ok {
			return nil, ErrTransactionNotFound
		}
		return &PaymentEvent{
			Status:    "success",
			Amount:    FromMinorUnits(charge.amountMinor),
			Currency:  charge.currency,
			Reference: reference,
			Channel:   "simulation",
			PaidAt:    charge.initiatedAt,
			Metadata:  charge.metadata,
		}, nil
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status    string                 `json:"status"`
			Amount    int64                  `json:"amount"`
			Currency  string                 `json:"currency"`
			Reference string                 `json:"reference"`
			Channel   string                 `json:"channel"`
			PaidAt    string                 `json:"paid_at"`
			Metadata  map[string]interface{} `json:"metadata"`
		} `json:"data"`
	}
	if err := c.call(http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrTransactionNotFound
	}

	paidAt, _ := time.Parse(time.RFC3339, resp.Data.PaidAt)
	return &PaymentEvent{
		Status:    resp.Data.Status,
		Amount:    FromMinorUnits(resp.Data.Amount),
		Currency:  resp.Data.Currency,
		Reference: resp.Data.Reference,
		Channel:   resp.Data.Channel,
		PaidAt:    paidAt,
		Metadata:  resp.Data.Metadata,
	}, nil
}

// ValidateWebhookSignature checks the x-paystack-signature header against
// an HMAC-SHA512 of the exact raw payload bytes. Must be called before
// the payload is parsed or trusted in any way.
func (c *Client) ValidateWebhookSignature(payload []byte, signature string) bool {
	// The simulated gateway never signs deliveries; with no secret key
	// there is nothing to authenticate against, so refuse everything.
	if c.secretKey == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(payload)
	expected := mac.Sum(nil)

	received, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, received)
}

// WebhookEvent is the subset of a Paystack webhook the backend consumes.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Status    string                 `json:"status"`
		Amount    int64                  `json:"amount"`
		Currency  string                 `json:"currency"`
		Reference string                 `json:"reference"`
		Channel   string                 `json:"channel"`
		PaidAt    string                 `json:"paid_at"`
		Metadata  map[string]interface{} `json:"metadata"`
	} `json:"data"`
}

func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PaymentEvent normalizes the webhook data, converting the wire amount
// out of minor units.
func (e *WebhookEvent) PaymentEvent() *PaymentEvent {
	paidAt, _ := time.Parse(time.RFC3339, e.Data.PaidAt)
	return &PaymentEvent{
		Status:    e.Data.Status,
		Amount:    FromMinorUnits(e.Data.Amount),
		Currency:  e.Data.Currency,
		Reference: e.Data.Reference,
		Channel:   e.Data.Channel,
		PaidAt:    paidAt,
		Metadata:  e.Data.Metadata,
	}
}

func (c *Client) recordSimCharge(reference, email string, amountMinor int64, currency string, metadata map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.simRefs[reference] = simCharge{
		email:       email,
		amountMinor: amountMinor,
		currency:    currency,
		metadata:    metadata,
		initiatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func (c *Client) call(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// network failure or timeout: the charge may still have gone
		// through on the provider side
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTransactionNotFound
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status=%d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paystack API error: status=%d, body=%s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %v", err)
	}
	return nil
}
