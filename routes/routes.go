package routes

import (
	"frontdesk/handlers"
	"frontdesk/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, sched *handlers.SchedulingHandler, prov *handlers.ProviderHandler) {
	api := r.Group("/api")
	{
		// Conversation-layer intake.
		api.POST("/intents", sched.SubmitIntentHandler)
		api.GET("/providers/:id/availability", sched.GetAvailabilityHandler)
		api.GET("/bookings/:id", sched.GetBookingHandler)

		// Voice-layer provider resolution.
		api.GET("/provider-match", prov.MatchProviderHandler)
		api.GET("/providers", prov.ListProvidersHandler)
		api.GET("/providers/:id", prov.GetProviderByIDHandler)

		api.POST("/operator/login", handlers.OperatorLoginHandler)
	}

	// Operator-facing registry management.
	admin := r.Group("/api/admin", middleware.OperatorAuthMiddleware())
	{
		admin.POST("/providers", prov.RegisterProviderHandler)
		admin.PUT("/providers/:id", prov.UpdateProviderHandler)
		admin.DELETE("/providers/:id", prov.DeleteProviderHandler)
	}
}
