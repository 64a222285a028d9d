package routes

import (
	"github.com/RasParker/modular-maestro-sub000/middleware"
	"github.com/RasParker/modular-maestro-sub000/notifications"

	"github.com/gin-gonic/gin"
)

func NotificationsRoutes(r *gin.Engine) {
	notificationsRoutes := r.Group("/notifications")
	notificationsRoutes.Use(middleware.JWTAuth())
	{
		notificationsRoutes.GET("", notifications.GetMyNotifications)
		notificationsRoutes.PUT("/:notificationId/read", notifications.MarkNotificationRead)
	}
}
