package routes

import (
	"net/http"
	"time"

	"jetset/handlers"
	"jetset/middleware"
	"jetset/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers chat session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.POST("", hb.StartSessionHandler)

		// Ending a session requires the token being ended.
		api.Use(middleware.ChatSessionMiddleware())
		api.DELETE("", hb.EndSessionHandler)
	}
}

// RegisterChatRoutes registers the assistant endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.ChatSessionMiddleware())
		api.POST("", hb.ChatHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the draft state machine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.ChatSessionMiddleware())
		bookingGroup.GET("/draft", hb.GetDraftHandler)
		bookingGroup.PUT("/draft", hb.UpdateDraftHandler)
		bookingGroup.POST("/price", hb.PriceDraftHandler)
		bookingGroup.POST("/confirm", hb.ConfirmDraftHandler)
		bookingGroup.DELETE("/draft", hb.CancelDraftHandler)
		bookingGroup.GET("/history", hb.GetBookingsHandler)
	}
}

// RegisterKnowledgeRoutes registers the public venue endpoints.
func RegisterKnowledgeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/packages", hb.PackagesHandler)
		api.GET("/location", hb.LocationHandler)
		api.GET("/faq", hb.FAQHandler)
		api.GET("/about", hb.AboutHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Hi, I'm Jetset Dubai",
			"services": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterKnowledgeRoutes(r, hb)
	RegisterHealthRoute(r)
}
