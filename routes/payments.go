package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/payments"
	"github.com/RasParker/modular-maestro-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func PaymentsRoutes(r *gin.Engine, handler *payments.Handler) {
	// The webhook authenticates with its signature, not a JWT, and the
	// verify endpoint is hit by the payment callback page before login
	// state is known.
	r.POST("/payments/webhook", handler.Webhook)
	r.GET("/payments/verify/:reference", handler.VerifyPayment)

	paymentsRoutes := r.Group("/payments")
	paymentsRoutes.Use(middleware.JWTAuth())
	{
		paymentsRoutes.POST("/initialize", handler.InitializePayment)
		paymentsRoutes.POST("/mobile-money", handler.InitializeMobileMoney)
	}

	subscriptionRoutes := r.Group("/subscriptions")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.GET("", payments.GetUserSubscriptions)
		subscriptionRoutes.GET("/:subscriptionId", payments.GetSubscriptionDetail)
		subscriptionRoutes.DELETE("/:subscriptionId", payments.CancelSubscription)
		subscriptionRoutes.GET("/revenue", middleware.AdminAuth(), payments.GetTotalRevenue)
		subscriptionRoutes.GET("/top-creators", middleware.AdminAuth(), payments.GetTopCreators)
	}
}
