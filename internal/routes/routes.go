package routes

import (
	"net/http"

	"emma-client/internal/handlers"
	"emma-client/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.Logger())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "EMMA flag service is running",
		})
	})

	// Public routes
	ginRouter.GET("/site", handlers.GetSite)
	ginRouter.GET("/logo", handlers.GetLogo)
	ginRouter.POST("/auth/session", handlers.CreateSession)

	flags := ginRouter.Group("/feature-flags")
	{
		flags.GET("", handlers.ListFlags)
		flags.GET("/events", handlers.FlagEvents)
		flags.GET("/:name", handlers.GetFlag)
	}

	// Protected routes (bearer access token required)
	protected := ginRouter.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.PUT("/feature-flags/:name", handlers.UpsertFlag)
		protected.DELETE("/feature-flags/:name", handlers.DeleteFlag)
		protected.POST("/feature-flags/reset", handlers.ResetFlags)

		protected.POST("/rpc/get_accounts", handlers.GetAccounts)
		protected.POST("/agents/default/install", handlers.InstallDefaultAgent)
	}

	return ginRouter
}
