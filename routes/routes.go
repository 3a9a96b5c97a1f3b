package routes

import (
	"net/http"
	"time"

	"cineride/handlers"
	"cineride/middleware"
	"cineride/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAIRoutes registers the dialogue endpoints.
func RegisterAIRoutes(r *gin.Engine, chat *handlers.ChatHandler) {
	api := r.Group("/api/ai")
	{
		api.Use(middleware.IdentityMiddleware())
		api.POST("/chat", chat.HandleChat)
		api.POST("/reset", chat.HandleReset)
	}
}

// RegisterHistoryRoutes registers the transcript endpoints.
func RegisterHistoryRoutes(r *gin.Engine, hist *handlers.HistoryHandler) {
	api := r.Group("/api/history")
	{
		api.Use(middleware.IdentityMiddleware())
		api.GET("/:memberCode", hist.GetHistory)
	}
}

// RegisterRoutes wires CORS, health and all endpoint groups.
func RegisterRoutes(r *gin.Engine, chat *handlers.ChatHandler, hist *handlers.HistoryHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.UserIDHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	RegisterAIRoutes(r, chat)
	RegisterHistoryRoutes(r, hist)
}
