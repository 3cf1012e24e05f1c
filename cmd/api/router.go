package api

import (
	draftDelivery "draftpilot-backend/internal/draft/delivery"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, draftHandler *draftDelivery.DraftHandler) {
	// Graph calls /webhook directly; everything operator-facing sits under /api.
	r.GET("/webhook", draftHandler.Webhook)
	r.POST("/webhook", draftHandler.Webhook)
	r.POST("/webhook/start", draftHandler.StartMonitoring)
	r.POST("/webhook/stop", draftHandler.StopMonitoring)

	r.GET("/auth/login", draftHandler.Login)
	r.GET("/auth/callback", draftHandler.AuthCallback)

	r.GET("/ui/recent-drafts", draftHandler.RecentDrafts)

	api := r.Group("/api")
	{
		api.GET("/health", draftHandler.Health)
	}

	debug := r.Group("/debug")
	{
		debug.GET("/retrieval", draftHandler.DebugRetrieval)
		debug.POST("/send-test-email", draftHandler.DebugSendTestEmail)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
