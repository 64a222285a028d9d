package posts

import (
	"net/http"
	"time"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
)

// CreatePost creates a post for the connected creator
// @Summary Create a new post
// @Description Create a post, optionally gated behind one of the creator's subscription tiers
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.PostCreate true "Post content"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input or unknown tier"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [post]
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var postData models.PostCreate
	if err := c.ShouldBindJSON(&postData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	tier := postData.Tier
	if tier == "" {
		tier = models.PublicTier
	}

	// A gated post must name one of the creator's own tiers.
	if tier != models.PublicTier {
		var count int64
		if err := db.DB.Model(&models.SubscriptionTier{}).
			Where("creator_id = ? AND name = ?", userID, tier).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking tier"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier: " + tier})
			return
		}
	}

	post := models.Post{
		CreatorID: userID.(string),
		Title:     postData.Title,
		Content:   postData.Content,
		MediaURL:  postData.MediaURL,
		Tier:      tier,
		Enable:    true,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post created")
	c.JSON(http.StatusCreated, post)
}

// GetAllPosts lists posts for the feed
// @Summary Get all posts
// @Description Retrieve all enabled posts, newest first. Gated posts come back with their content blanked unless the caller may read them.
// @Tags posts
// @Produce json
// @Param creator query string false "Filter by creator ID"
// @Param tier query string false "Filter by tier tag"
// @Success 200 {array} models.Post
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [get]
func GetAllPosts(c *gin.Context) {
	var posts []models.Post
	query := db.DB.Where("enable = ? AND deleted_at IS NULL", true).Order("created_at DESC")

	if creatorID := c.Query("creator"); creatorID != "" {
		query = query.Where("creator_id = ?", creatorID)
	}
	if tier := c.Query("tier"); tier != "" {
		query = query.Where("tier = ?", tier)
	}

	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts: " + err.Error()})
		return
	}

	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	for i := range posts {
		if !canReadPost(&posts[i], userID, role) {
			posts[i].Content = ""
			posts[i].MediaURL = ""
		}
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID returns one post
// @Summary Get a post
// @Description Retrieve a post by ID. Tier-gated content requires an active subscription to the creator, ownership, or the admin role.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} map[string]string "error: Subscription required"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [get]
func GetPostByID(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ? AND deleted_at IS NULL", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	if !canReadPost(&post, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "An active subscription to this creator is required"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// canReadPost applies the tier gate: public posts are free, everything
// else needs ownership, the admin role, or an active subscription to the
// post's creator.
func canReadPost(post *models.Post, userID interface{}, role interface{}) bool {
	if post.Tier == models.PublicTier {
		return true
	}
	if userID == nil {
		return false
	}
	if userID == post.CreatorID || role == string(models.AdminRole) {
		return true
	}

	var count int64
	err := db.DB.Model(&models.Subscription{}).
		Where("fan_id = ? AND creator_id = ? AND status = ? AND current_period_end > ?",
			userID, post.CreatorID, models.SubscriptionActive, time.Now()).
		Count(&count).Error
	if err != nil {
		utils.LogError(err, "Error checking subscription for post gate")
		return false
	}
	return count > 0
}

// UpdatePost modifies a post of the connected creator
// @Summary Update a post
// @Description Update a post's title, content, tier or enable flag (owner only)
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body models.PostUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your post"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [put]
func UpdatePost(c *gin.Context) {
	postID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this post"})
		return
	}

	var postData models.PostUpdate
	if err := c.ShouldBindJSON(&postData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if postData.Title != "" {
		updates["title"] = postData.Title
	}
	if postData.Content != "" {
		updates["content"] = postData.Content
	}
	if postData.Tier != "" {
		updates["tier"] = postData.Tier
	}
	if postData.Enable != nil {
		updates["enable"] = *postData.Enable
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&post).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post
// @Summary Delete a post
// @Description Soft-delete a post (owner or admin only)
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your post"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [delete]
func DeletePost(c *gin.Context) {
	postID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	role, _ := c.Get("role")
	if post.CreatorID != userID && role != string(models.AdminRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this post"})
		return
	}

	now := time.Now()
	if err := db.DB.Model(&post).Update("deleted_at", &now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
