package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/creators"
	"github.com/RasParker/modular-maestro-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func CreatorsRoutes(r *gin.Engine) {
	r.GET("/creators", creators.GetAllCreators)
	r.GET("/creators/:creatorId", creators.GetCreator)
	r.GET("/creators/:creatorId/tiers", creators.GetCreatorTiers)

	tiersRoutes := r.Group("/tiers")
	tiersRoutes.Use(middleware.JWTAuth(), middleware.CreatorAuth())
	{
		tiersRoutes.POST("", creators.CreateTier)
		tiersRoutes.PUT("/:tierId", creators.UpdateTier)
		tiersRoutes.DELETE("/:tierId", creators.DeleteTier)
	}
}
