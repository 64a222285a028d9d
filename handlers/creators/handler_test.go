package creators

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/RasParker/modular-maestro-sub000/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

const (
	creatorID = "c0ffee00-e89b-12d3-a456-426614174000"
	tierID    = "71e40000-e89b-12d3-a456-426614174000"
)

func TestGetCreatorTiers(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tiers" WHERE creator_id = \$1 AND is_active = \$2 ORDER BY price ASC`).
		WithArgs(creatorID, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "name", "price"}).
			AddRow("tier-basic", creatorID, "Basic", "5.00").
			AddRow("tier-gold", creatorID, "Gold", "25.00"))

	r := testutils.SetupTestRouter()
	r.GET("/creators/:creatorId/tiers", GetCreatorTiers)

	req, _ := http.NewRequest(http.MethodGet, "/creators/"+creatorID+"/tiers", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var tiers []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &tiers)
	assert.Len(t, tiers, 2)
	assert.Equal(t, "Basic", tiers[0]["name"])
}

func TestCreateTier_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_tiers" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tierID))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/tiers", func(c *gin.Context) {
		c.Set("user_id", creatorID)
		CreateTier(c)
	})

	body := bytes.NewBufferString(`{"name": "Gold", "price": "25.00", "benefits": ["Early access", "Monthly Q&A"]}`)
	req, _ := http.NewRequest(http.MethodPost, "/tiers", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Gold", respBody["name"])
	assert.Equal(t, "GHS", respBody["currency"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTier_NonPositivePrice(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/tiers", func(c *gin.Context) {
		c.Set("user_id", creatorID)
		CreateTier(c)
	})

	body := bytes.NewBufferString(`{"name": "Free", "price": "-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/tiers", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "greater than zero")
}

func TestDeleteTier_RefusedWhileSubscribed(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tiers" WHERE id = \$1`).
		WithArgs(tierID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "name"}).
			AddRow(tierID, creatorID, "Gold"))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "subscriptions" WHERE tier_id = \$1`).
		WithArgs(tierID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	r := testutils.SetupTestRouter()
	r.DELETE("/tiers/:tierId", func(c *gin.Context) {
		c.Set("user_id", creatorID)
		DeleteTier(c)
	})

	req, _ := http.NewRequest(http.MethodDelete, "/tiers/"+tierID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "deactivate it instead")
}

func TestDeleteTier_Unreferenced(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tiers" WHERE id = \$1`).
		WithArgs(tierID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "name"}).
			AddRow(tierID, creatorID, "Gold"))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "subscriptions" WHERE tier_id = \$1`).
		WithArgs(tierID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "subscription_tiers" WHERE "subscription_tiers"."id" = \$1`).
		WithArgs(tierID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/tiers/:tierId", func(c *gin.Context) {
		c.Set("user_id", creatorID)
		DeleteTier(c)
	})

	req, _ := http.NewRequest(http.MethodDelete, "/tiers/"+tierID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTier_NotOwner(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tiers" WHERE id = \$1`).
		WithArgs(tierID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "name"}).
			AddRow(tierID, "someone-else", "Gold"))

	r := testutils.SetupTestRouter()
	r.DELETE("/tiers/:tierId", func(c *gin.Context) {
		c.Set("user_id", creatorID)
		DeleteTier(c)
	})

	req, _ := http.NewRequest(http.MethodDelete, "/tiers/"+tierID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGetCreator_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 AND role = \$2`).
		WithArgs("unknown", "CREATOR", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/creators/:creatorId", GetCreator)

	req, _ := http.NewRequest(http.MethodGet, "/creators/unknown", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
