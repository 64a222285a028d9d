package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/users"
	"github.com/RasParker/modular-maestro-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	usersRoutes := r.Group("/users")
	usersRoutes.Use(middleware.JWTAuth())
	{
		usersRoutes.GET("/me", users.GetMyProfile)
		usersRoutes.PUT("/me", users.UpdateMyProfile)
	}
}
