package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/posts/report"
	"github.com/RasParker/modular-maestro-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func ReportsRoutes(r *gin.Engine) {
	r.POST("/posts/:id/report", middleware.JWTAuth(), report.CreateReport)

	reportsRoutes := r.Group("/reports")
	reportsRoutes.Use(middleware.JWTAuth(), middleware.AdminAuth())
	{
		reportsRoutes.GET("", report.GetAllReports)
		reportsRoutes.PUT("/:reportId", report.ReviewReport)
	}
}
