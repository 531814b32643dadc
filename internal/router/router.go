// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/config"
	"github.com/guanl20/Blocktrust/internal/handlers"
	"github.com/guanl20/Blocktrust/internal/metrics"
	"github.com/guanl20/Blocktrust/internal/middleware"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

const version = "1.0.0"

// Initialize builds the HTTP surface over ledger. Rate limiter housekeeping
// stops when ctx is done. m may be nil to disable metrics.
func Initialize(ctx context.Context, cfg *config.Config, ledger *services.Ledger, m *metrics.Metrics) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(ledger.Auth)
	productHandler := handlers.NewProductHandler(ledger.Lifecycle)
	transactionHandler := handlers.NewTransactionHandler(ledger.Lifecycle)
	participantHandler := handlers.NewParticipantHandler(ledger.Roles)
	adminHandler := handlers.NewAdminHandler(ledger.Pause, ledger.Projection, ledger.Stats)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.PerSecond(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	authLimiter := middleware.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)
	generalLimiter.StartCleanup(ctx)
	authLimiter.StartCleanup(ctx)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	if m != nil {
		r.Use(m.Middleware())
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := "healthy"
		if err := ledger.Stats.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			health = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  health,
			"version": version,
			"paused":  ledger.Pause.Paused(),
		})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/history", productHandler.GetProductHistory)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.POST("/:id/transfer", productHandler.TransferProduct)
				protected.POST("/:id/status", productHandler.UpdateProductStatus)
				protected.POST("/:id/inspections", productHandler.InspectProduct)
			}
		}

		// Transaction log
		v1.GET("/transactions", transactionHandler.GetTransactions)

		// Participant routes
		participants := v1.Group("/participants")
		{
			participants.GET("", participantHandler.GetParticipants)
			participants.GET("/:account", participantHandler.GetParticipant)
			participants.POST("", middleware.AuthRequired(), participantHandler.RegisterParticipant)
		}

		// Role registry routes
		roles := v1.Group("/roles")
		{
			roles.GET("/check", participantHandler.CheckRole)
			roles.POST("/grant", middleware.AuthRequired(), participantHandler.GrantRole)
			roles.POST("/revoke", middleware.AuthRequired(), participantHandler.RevokeRole)
		}

		// Admin routes; the admin role itself is checked by the services
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		{
			admin.POST("/pause", adminHandler.Pause)
			admin.POST("/unpause", adminHandler.Unpause)
			admin.GET("/ledger/verify", adminHandler.VerifyLedger)
		}

		v1.GET("/system/status", adminHandler.GetSystemStatus)
		v1.GET("/stats", adminHandler.GetStats)
	}

	return r
}
