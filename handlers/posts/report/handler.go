package report

import (
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
)

// CreateReport reports a post
// @Summary Report a post
// @Description Report a post for moderation with one of the predefined reasons
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param report body models.ReportCreate true "Report reason"
// @Security BearerAuth
// @Success 201 {object} models.Report
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id}/report [post]
func CreateReport(c *gin.Context) {
	postID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var reportData models.ReportCreate
	if err := c.ShouldBindJSON(&reportData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	report := models.Report{
		PostID:     postID,
		ReportedBy: userID.(string),
		Reason:     reportData.Reason,
		Status:     models.ReportOpen,
	}

	if err := db.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating report: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post reported")
	c.JSON(http.StatusCreated, report)
}

// GetAllReports lists reports for moderation
// @Summary List reports
// @Description List reports, optionally filtered by status (admin only)
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status (OPEN, RESOLVED, DISMISSED)"
// @Security BearerAuth
// @Success 200 {array} models.Report
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /reports [get]
func GetAllReports(c *gin.Context) {
	var reports []models.Report
	query := db.DB.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving reports: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ReviewReport resolves or dismisses a report
// @Summary Review a report
// @Description Mark a report resolved or dismissed (admin only)
// @Tags reports
// @Accept json
// @Produce json
// @Param reportId path string true "Report ID"
// @Param review body models.ReportReview true "New status"
// @Security BearerAuth
// @Success 200 {object} models.Report
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Router /reports/{reportId} [patch]
func ReviewReport(c *gin.Context) {
	reportID := c.Param("reportId")

	adminID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var reviewData models.ReportReview
	if err := c.ShouldBindJSON(&reviewData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if reviewData.Status != models.ReportResolved && reviewData.Status != models.ReportDismissed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be RESOLVED or DISMISSED"})
		return
	}

	var report models.Report
	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	admin := adminID.(string)
	if err := db.DB.Model(&report).Updates(map[string]interface{}{
		"status":     reviewData.Status,
		"handled_by": &admin,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating report: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(adminID, "Report reviewed")
	c.JSON(http.StatusOK, report)
}
