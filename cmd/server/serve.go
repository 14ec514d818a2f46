package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/croptrack/croptrack/internal/config"
	"github.com/croptrack/croptrack/internal/database"
	"github.com/croptrack/croptrack/internal/handlers"
	"github.com/croptrack/croptrack/internal/middleware"
	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/croptrack/croptrack/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CropTrack API server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(); err != nil {
			log.Fatal(err)
		}
	},
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	speciesRepo := repository.NewSpeciesRepository(db)
	lotRepo := repository.NewLotRepository(db)

	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWT.Secret)
	speciesService := services.NewSpeciesService(speciesRepo)
	lotService := services.NewLotService(lotRepo, speciesRepo, db)
	qrService := services.NewQRService(lotRepo, cfg.QR.BaseURL)

	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo, cfg.TestMode)
	roleMiddleware := middleware.NewRoleMiddleware()

	authHandler := handlers.NewAuthHandler(authService)
	speciesHandler := handlers.NewSpeciesHandler(speciesService)
	lotHandler := handlers.NewLotHandler(lotService)
	qrHandler := handlers.NewQRHandler(qrService)

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			authenticated.GET("/auth/profile", authHandler.GetProfile)
			authenticated.PUT("/auth/profile", authHandler.UpdateProfile)
			authenticated.PUT("/auth/password", authHandler.ChangePassword)

			authenticated.POST("/species", speciesHandler.Create)
			authenticated.GET("/species", speciesHandler.List)
			authenticated.GET("/species/code/:code", speciesHandler.GetByCode)
			authenticated.PUT("/species/:id", speciesHandler.Update)
			authenticated.DELETE("/species/:id",
				roleMiddleware.RequireRole(models.RoleManager), speciesHandler.Deactivate)

			authenticated.POST("/lots", lotHandler.Create)
			authenticated.GET("/lots", lotHandler.List)
			authenticated.GET("/lots/ready", lotHandler.Ready)
			authenticated.GET("/lots/stats", lotHandler.Stats)
			authenticated.GET("/lots/code/:code", lotHandler.GetByCode)
			authenticated.GET("/lots/:id", lotHandler.Get)
			authenticated.PUT("/lots/:id", lotHandler.Update)
			authenticated.DELETE("/lots/:id",
				roleMiddleware.RequireRole(models.RoleManager), lotHandler.Delete)
			authenticated.POST("/lots/:id/measurements", lotHandler.AddMeasurement)
			authenticated.POST("/lots/:id/health", lotHandler.AddHealthObservation)
			authenticated.POST("/lots/:id/photos", lotHandler.AddPhoto)
			authenticated.POST("/lots/:id/harvest", lotHandler.Harvest)

			authenticated.GET("/qr/lots/:code", qrHandler.GenerateFull)
			authenticated.GET("/qr/lots/:code/ref", qrHandler.GenerateReference)
			authenticated.POST("/qr/batch", qrHandler.GenerateBatch)
			authenticated.GET("/qr/stats", qrHandler.Stats)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting CropTrack server on %s", addr)
	if cfg.TestMode {
		log.Println("TEST MODE ENABLED - Authentication bypassed")
	}
	return router.Run(addr)
}
