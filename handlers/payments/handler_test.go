package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RasParker/modular-maestro-sub000/paystack"
	"github.com/RasParker/modular-maestro-sub000/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const webhookSecret = "sk_test_webhook_secret"

func signPayload(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookPayload(reference string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data": map[string]interface{}{
			"status":    "success",
			"amount":    2500,
			"currency":  "GHS",
			"reference": reference,
			"channel":   "mobile_money",
			"paid_at":   "2026-08-01T12:00:00Z",
			"metadata": map[string]string{
				"fanId":  testFanID,
				"tierId": testTierID,
			},
		},
	})
	return payload
}

func setupWebhookRouter(t *testing.T, gormDB *gorm.DB) *gin.Engine {
	t.Setenv("PAYSTACK_SECRET_KEY", webhookSecret)
	handler := NewHandler(paystack.New(), NewActivationService(gormDB, &fakeNotifier{}))

	r := testutils.SetupTestRouter()
	r.POST("/payments/webhook", handler.Webhook)
	return r
}

func TestWebhook_InvalidSignature(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	payload := webhookPayload("XCL-hook-1")
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload([]byte("something else")))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	// Nothing may touch the database before the signature check passes.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_MissingSignature(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(webhookPayload("XCL-hook-2")))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestWebhook_ChargeSuccess(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	expectTierLookup(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE transaction_id = \$1`).
		WithArgs("XCL-hook-3", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectExec(`^SAVEPOINT sp`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testSubID))
	mock.ExpectQuery(`INSERT INTO "payment_transactions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testTxnID))
	mock.ExpectExec(`UPDATE "users" SET (.+) WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payload := webhookPayload("XCL-hook-3")
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	activation := respBody["activation"].(map[string]interface{})
	assert.Equal(t, string(OutcomeCreated), activation["outcome"])
	assert.Equal(t, testSubID, activation["subscriptionId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_ReplayedDelivery(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	expectTierLookup(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE transaction_id = \$1`).
		WithArgs("XCL-hook-4", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subscription_id", "transaction_id"}).
			AddRow(testTxnID, testSubID, "XCL-hook-4"))
	mock.ExpectCommit()

	payload := webhookPayload("XCL-hook-4")
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	activation := respBody["activation"].(map[string]interface{})
	assert.Equal(t, string(OutcomeAlreadyProcessed), activation["outcome"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_MalformedMetadataIsPermanent(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	payload, _ := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data": map[string]interface{}{
			"status":    "success",
			"amount":    2500,
			"currency":  "GHS",
			"reference": "XCL-hook-5",
			"metadata":  map[string]string{},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	// 400, not 5xx: redelivering the same payload can never succeed.
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestWebhook_TransientFailureAsksForRedelivery(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tiers" WHERE id = \$1`).
		WithArgs(testTierID, 1).
		WillReturnError(gorm.ErrInvalidDB)

	payload := webhookPayload("XCL-hook-6")
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestWebhook_IgnoresOtherEvents(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := setupWebhookRouter(t, gormDB)

	payload, _ := json.Marshal(map[string]interface{}{
		"event": "transfer.success",
		"data":  map[string]interface{}{"reference": "XCL-hook-7"},
	})
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("X-Paystack-Signature", signPayload(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Event ignored", respBody["message"])
}

func TestVerifyPayment_UnknownReference(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	t.Setenv("PAYSTACK_SECRET_KEY", "")
	handler := NewHandler(paystack.New(), NewActivationService(gormDB, &fakeNotifier{}))

	r := testutils.SetupTestRouter()
	r.GET("/payments/verify/:reference", handler.VerifyPayment)

	req, _ := http.NewRequest(http.MethodGet, "/payments/verify/XCL-nope-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestVerifyPayment_SimulatedSuccessActivates(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	t.Setenv("PAYSTACK_SECRET_KEY", "")
	gateway := paystack.New()
	handler := NewHandler(gateway, NewActivationService(gormDB, &fakeNotifier{}))

	payment, err := gateway.InitializeCardPayment("fan@test.com", decimal.RequireFromString("25.00"), "GHS", map[string]interface{}{
		"fanId":  testFanID,
		"tierId": testTierID,
	})
	assert.NoError(t, err)

	expectTierLookup(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE transaction_id = \$1`).
		WithArgs(payment.Reference, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectExec(`^SAVEPOINT sp`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testSubID))
	mock.ExpectQuery(`INSERT INTO "payment_transactions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testTxnID))
	mock.ExpectExec(`UPDATE "users" SET (.+) WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.GET("/payments/verify/:reference", handler.VerifyPayment)

	req, _ := http.NewRequest(http.MethodGet, "/payments/verify/"+payment.Reference, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	activation := respBody["activation"].(map[string]interface{})
	assert.Equal(t, string(OutcomeCreated), activation["outcome"])
	verification := respBody["verification"].(map[string]interface{})
	assert.Equal(t, "success", verification["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
