package likes

import (
	"errors"
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToggleLike adds or removes a like on a post
// @Summary Toggle like on a post
// @Description Add or remove a like on a post; the likes counter moves in the same transaction as the like row
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Like added/removed successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id}/like [post]
func ToggleLike(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var like models.PostLike
	result := db.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&like)

	if result.Error == nil {
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing like: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully"})
		return
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking like"})
		return
	}

	like = models.PostLike{
		PostID: postID,
		UserID: userID.(string),
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding like: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like added successfully"})
}
