package routes

import (
	"time"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/handlers/payments"
	"github.com/RasParker/modular-maestro-sub000/notifications"
	"github.com/RasParker/modular-maestro-sub000/paystack"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(gateway *paystack.Client) *gin.Engine {

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// The activation service is the only writer of subscription and
	// transaction state; everything payment-shaped goes through it.
	emitter := notifications.NewEmitter(db.DB)
	activation := payments.NewActivationService(db.DB, emitter)
	paymentsHandler := payments.NewHandler(gateway, activation)

	PingRoutes(r)
	AuthRoutes(r)
	UsersRoutes(r)
	CreatorsRoutes(r)
	PostsRoutes(r)
	ReportsRoutes(r)
	PaymentsRoutes(r, paymentsHandler)
	NotificationsRoutes(r)

	return r
}
