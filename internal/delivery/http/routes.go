package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/foodiebot/backend/config"
	"github.com/foodiebot/backend/internal/observability"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(
	cfg *config.Config,
	handler *Handler,
	logger *zap.Logger,
	metrics *observability.Metrics,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware(metrics))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		conversations := v1.Group("/conversations")
		{
			conversations.POST("", handler.StartConversation)
			conversations.POST("/:id/messages", handler.PostMessage)
			conversations.GET("/:id/messages", handler.ListMessages)
		}

		v1.GET("/search", handler.Search)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/analytics", handler.Analytics)

		admin := v1.Group("/admin")
		{
			admin.POST("/products", handler.CreateProduct)
		}
	}

	return router
}
