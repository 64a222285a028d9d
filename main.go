package main

import (
	"log"
	"os"

	"github.com/RasParker/modular-maestro-sub000/db"
	_ "github.com/RasParker/modular-maestro-sub000/docs"
	"github.com/RasParker/modular-maestro-sub000/paystack"
	"github.com/RasParker/modular-maestro-sub000/routes"

	"github.com/gin-gonic/gin"
)

// @title Xclusive API
// @version 1.0
// @description Creator subscription platform backend
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	gateway := paystack.New()

	r := routes.SetupRouter(gateway)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
