package comment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	// SSE clients connected per post
	clients = make(map[string]map[chan string]bool)

	clientsMutex sync.RWMutex
)

type SSEMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// commentView is a comment enriched with its author's username.
type commentView struct {
	models.Comment
	UserName string `json:"username"`
}

type threadView struct {
	commentView
	Replies []commentView `json:"replies"`
}

// GetCommentsByPostID returns the aggregated comment tree of a post
// @Summary Get the comments of a post
// @Description Return the post's comments as a tree: top-level comments in stable creation order, each with its direct replies oldest first
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{} "comments: comment tree"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id}/comments [get]
func GetCommentsByPostID(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	threads := BuildCommentTree(comments)
	usernames := lookupUsernames(comments)

	response := make([]threadView, 0, len(threads))
	for _, thread := range threads {
		view := threadView{
			commentView: commentView{Comment: thread.Comment, UserName: usernames[thread.UserID]},
			Replies:     make([]commentView, 0, len(thread.Replies)),
		}
		for _, reply := range thread.Replies {
			view.Replies = append(view.Replies, commentView{Comment: reply, UserName: usernames[reply.UserID]})
		}
		response = append(response, view)
	}

	c.JSON(http.StatusOK, gin.H{"comments": response})
}

// lookupUsernames resolves all comment authors in one query.
func lookupUsernames(comments []models.Comment) map[string]string {
	ids := make([]string, 0, len(comments))
	seen := make(map[string]bool)
	for _, comment := range comments {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			ids = append(ids, comment.UserID)
		}
	}

	usernames := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return usernames
	}

	var users []models.User
	if err := db.DB.Select("id", "user_name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		utils.LogError(err, "Error resolving comment authors")
		return usernames
	}
	for _, user := range users {
		usernames[user.ID] = user.UserName
	}
	return usernames
}

// CreateComment adds a comment or a reply to a post
// @Summary Create a new comment
// @Description Create a comment on a post, optionally as a reply to a comment of the same post, and broadcast it via SSE
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body models.CommentCreate true "Comment content and optional parent"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "comment: the created comment"
// @Failure 400 {object} map[string]string "error: Invalid parent or payload"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id}/comments [post]
func CreateComment(c *gin.Context) {
	postID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var commentData models.CommentCreate
	if err := c.ShouldBindJSON(&commentData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment data"})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// A reply's parent must exist, belong to the same post, and be a
	// top-level comment. Threads stay one level deep, which keeps
	// deletion (comment plus its direct replies) complete.
	if commentData.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, "id = ?", *commentData.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment"})
			return
		}
		if parent.PostID != postID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to another post"})
			return
		}
		if parent.ParentID != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Replies cannot be nested deeper than one level"})
			return
		}
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   userID.(string),
		ParentID: commentData.ParentID,
		Content:  commentData.Content,
	}

	// The comment row and the denormalized counter move together.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	var user models.User
	db.DB.Select("user_name").Where("id = ?", userID).First(&user)

	view := commentView{Comment: comment, UserName: user.UserName}
	broadcastComment(postID, view)

	c.JSON(http.StatusCreated, gin.H{"comment": view})
}

// DeleteComment removes a comment with its direct replies
// @Summary Delete a comment
// @Description Delete a comment (author or admin only). Direct replies go with it and the post counter is adjusted in the same transaction.
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Comment deleted"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your comment"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Router /posts/{id}/comments/{commentId} [delete]
func DeleteComment(c *gin.Context) {
	postID := c.Param("id")
	commentID := c.Param("commentId")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	role, _ := c.Get("role")
	if comment.UserID != userID && role != string(models.AdminRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this comment"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		replies := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{})
		if replies.Error != nil {
			return replies.Error
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		removed := replies.RowsAffected + 1
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", removed)).Error
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error deleting comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ToggleCommentLike adds or removes a like on a comment
// @Summary Toggle like on a comment
// @Description Add or remove a like on a comment; the likes counter moves in the same transaction
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Like added/removed successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Router /posts/{id}/comments/{commentId}/like [post]
func ToggleCommentLike(c *gin.Context) {
	commentID := c.Param("commentId")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var like models.CommentLike
	result := db.DB.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&like)

	if result.Error == nil {
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			return tx.Model(&models.Comment{}).Where("id = ?", commentID).
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

	like = models.CommentLike{
		CommentID: commentID,
		UserID:    userID.(string),
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding like: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like added successfully"})
}

// HandleSSE streams a post's comments in real time
// @Summary Handle SSE connection for comments
// @Description Connect to SSE to receive comments in real-time for a specific post
// @Tags comments
// @Param id path string true "Post ID"
// @Param token query string false "JWT Token for web clients (optional)"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Connected to SSE"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id}/comments/stream [get]
func HandleSSE(c *gin.Context) {
	postID := c.Param("id")

	// EventSource cannot set headers, so web clients pass the token in
	// the URL instead of going through the middleware.
	tokenFromQuery := c.Query("token")
	_, exists := c.Get("user_id")

	if !exists && tokenFromQuery != "" {
		_, err := utils.DecodeJWT(tokenFromQuery)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token in URL"})
			return
		}
		exists = true
	}

	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

	messageChan := make(chan string)

	clientsMutex.Lock()
	if clients[postID] == nil {
		clients[postID] = make(map[chan string]bool)
	}
	clients[postID][messageChan] = true
	clientsMutex.Unlock()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Writer.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	// Send the current state of the thread before streaming new comments.
	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		utils.LogError(err, "Error retrieving comments for SSE")
	} else {
		usernames := lookupUsernames(comments)
		for _, existing := range comments {
			msg := SSEMessage{
				Type:    "existing_comment",
				Payload: commentView{Comment: existing, UserName: usernames[existing.UserID]},
			}

			jsonData, err := json.Marshal(msg)
			if err != nil {
				utils.LogError(err, "Error marshaling SSE message")
				continue
			}

			c.Writer.Write(fmt.Appendf(nil, "event: comment\ndata: %s\n\n", jsonData))
			flusher.Flush()
		}
	}

	// Canceled when the client's connection closes.
	ctx := c.Request.Context()

	defer func() {
		clientsMutex.Lock()
		delete(clients[postID], messageChan)
		if len(clients[postID]) == 0 {
			delete(clients, postID)
		}
		clientsMutex.Unlock()
		close(messageChan)
	}()

	for {
		select {
		case message, ok := <-messageChan:
			if !ok {
				return
			}
			c.Writer.Write([]byte(message))
			flusher.Flush()
		case <-ctx.Done():
			return
		case <-time.After(30 * time.Second):
			c.Writer.Write([]byte("event: ping\ndata: {}\n\n"))
			flusher.Flush()
		}
	}
}

// broadcastComment pushes a new comment to every client watching the post.
func broadcastComment(postID string, comment commentView) {
	msg := SSEMessage{
		Type:    "new_comment",
		Payload: comment,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		utils.LogError(err, "Error marshaling SSE message")
		return
	}

	sseData := fmt.Sprintf("event: comment\ndata: %s\n\n", jsonData)

	clientsMutex.RLock()
	defer clientsMutex.RUnlock()

	if _, exists := clients[postID]; !exists {
		return
	}

	for clientChan := range clients[postID] {
		select {
		case clientChan <- sseData:
		default:
			utils.LogError(nil, "Error broadcasting comment: channel full or closed")
		}
	}
}
