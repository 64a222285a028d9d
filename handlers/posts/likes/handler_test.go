package likes

import (
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

func TestToggleLike_Add(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := "123e4567-e89b-12d3-a456-426614174000"
	userID := "abc12345-e89b-12d3-a456-426614174000"

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE id = \$1`).
		WithArgs(postID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(postID, "Test Post"))

	mock.ExpectQuery(`SELECT (.+) FROM "post_likes" WHERE post_id = \$1 AND user_id = \$2`).
		WithArgs(postID, userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "post_likes" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("like123"))
	mock.ExpectExec(`UPDATE "posts" SET "likes_count"=likes_count \+ 1 WHERE id = \$1`).
		WithArgs(postID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", userID)
		ToggleLike(c)
	})

	req, _ := http.NewRequest(http.MethodPost, "/posts/"+postID+"/like", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Like added successfully", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_Remove(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := "123e4567-e89b-12d3-a456-426614174000"
	userID := "abc12345-e89b-12d3-a456-426614174000"
	likeID := "like123"

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE id = \$1`).
		WithArgs(postID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(postID, "Test Post"))

	mock.ExpectQuery(`SELECT (.+) FROM "post_likes" WHERE post_id = \$1 AND user_id = \$2`).
		WithArgs(postID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id"}).
			AddRow(likeID, postID, userID))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "post_likes" WHERE "post_likes"."id" = \$1`).
		WithArgs(likeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "likes_count"=likes_count - 1 WHERE id = \$1`).
		WithArgs(postID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", userID)
		ToggleLike(c)
	})

	req, _ := http.NewRequest(http.MethodPost, "/posts/"+postID+"/like", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Like removed successfully", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_PostNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := "non-existent-id"
	userID := "abc12345-e89b-12d3-a456-426614174000"

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE id = \$1`).
		WithArgs(postID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", userID)
		ToggleLike(c)
	})

	req, _ := http.NewRequest(http.MethodPost, "/posts/"+postID+"/like", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "Post not found")
}

func TestToggleLike_Unauthorized(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/posts/:id/like", ToggleLike)

	postID := "123e4567-e89b-12d3-a456-426614174000"

	req, _ := http.NewRequest(http.MethodPost, "/posts/"+postID+"/like", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "User not found in token")
}
