// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/handlers"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/middleware"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/services"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, chainService *services.ChainService) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(db, cfg)

	authService := services.NewAuthService(db, cfg)
	accountService := services.NewAccountService(db, chainService)
	copyrightService := services.NewCopyrightService(db, chainService)
	nftService := services.NewNFTService(db, chainService)
	marketplaceService := services.NewMarketplaceService(db, chainService, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, accountService)
	accountHandler := handlers.NewAccountHandler(accountService, chainService)
	copyrightHandler := handlers.NewCopyrightHandler(copyrightService)
	nftHandler := handlers.NewNFTHandler(nftService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(chainService, marketplaceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/nonce", authHandler.Nonce)
			auth.POST("/verify", authHandler.Verify)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Account routes
		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:address", accountHandler.Get)
			accounts.GET("/:address/balance", accountHandler.Balance)

			protected := accounts.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", accountHandler.UpdateProfile)
				protected.POST("/faucet", accountHandler.Faucet)
			}
		}

		// Copyright registry routes
		copyrights := v1.Group("/copyrights")
		{
			copyrights.GET("", middleware.OptionalAuth(), copyrightHandler.Search)
			copyrights.GET("/stats", copyrightHandler.Stats)
			copyrights.GET("/asset-types", copyrightHandler.AssetTypes)
			copyrights.GET("/:id", copyrightHandler.Get)
			copyrights.GET("/hash/:hash", copyrightHandler.GetByHash)
			copyrights.GET("/check/:hash", copyrightHandler.CheckContent)
			copyrights.GET("/creator/:address", copyrightHandler.ListByCreator)

			protected := copyrights.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", copyrightHandler.Register)
			}
		}

		// NFT routes
		nfts := v1.Group("/nfts")
		{
			nfts.GET("/:id", nftHandler.Get)
			nfts.GET("/:id/royalty", nftHandler.RoyaltyQuote)
			nfts.GET("/copyright/:id", nftHandler.GetByCopyright)
			nfts.GET("/owner/:address", nftHandler.ListByOwner)

			protected := nfts.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/mint", nftHandler.Mint)
				protected.PUT("/:id/royalty", nftHandler.UpdateRoyalty)
				protected.POST("/:id/approve", nftHandler.Approve)
				protected.POST("/:id/transfer", nftHandler.Transfer)
			}
		}

		// Marketplace routes
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("/listings", middleware.OptionalAuth(), marketplaceHandler.Search)
			marketplace.GET("/listings/:id", marketplaceHandler.Get)
			marketplace.GET("/sales", marketplaceHandler.Sales)

			protected := marketplace.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/listings", marketplaceHandler.List)
				protected.POST("/listings/:id/buy", marketplaceHandler.Buy)
				protected.DELETE("/listings/:id", marketplaceHandler.Cancel)
				protected.PUT("/listings/:id/price", marketplaceHandler.UpdatePrice)
			}
		}

		// Upload routes
		uploads := v1.Group("/uploads")
		{
			uploads.GET("/hash/:hash", uploadHandler.GetByHash)
			uploads.POST("", middleware.AuthRequired(), middleware.UploadRateLimit(), uploadHandler.Upload)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/events", adminHandler.Events)
			admin.PUT("/fee-recipient", adminHandler.UpdateFeeRecipient)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads-static", "./uploads")
	}

	return r
}
