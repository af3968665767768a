package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	"rest-user-service/internal/config"
	redisclient "rest-user-service/pkg/redis"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	cfg *config.Config,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(cors.Default())
	if redisClient != nil {
		router.Use(middleware.RateLimiter(cfg.RateLimit, redisClient.Client, log))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rest-user-service",
		})
	})

	// Paths must stay in step with the named route table in
	// internal/adapter/gin/routes.
	users := router.Group("/api/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.OPTIONS("", userHandler.UserOptions)
		users.GET("/:userId", userHandler.GetUserByID)
		users.HEAD("/:userId", userHandler.GetUserByID)
		users.PUT("/:userId", userHandler.UpsertUser)
		users.PATCH("/:userId", userHandler.PatchUser)
		users.DELETE("/:userId", userHandler.DeleteUser)
	}

	return router
}
