package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	r.POST("/register", auth.CreateUser)
	r.POST("/login", auth.Login)
}
