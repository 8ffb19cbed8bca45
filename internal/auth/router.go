package auth

import (
	"github.com/gin-gonic/gin"
)

func SetupWebhookRoutes(router *gin.RouterGroup, controller *Controller) {
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/clerk", controller.HandleClerkWebhook) // POST /api/v1/webhooks/clerk - Identity sync
	}
}
