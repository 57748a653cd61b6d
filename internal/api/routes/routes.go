package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/uniride/carpool-service/internal/api/handlers"
	"github.com/uniride/carpool-service/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application, redisClient *redis.Client) {
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}
	r.Use(middleware.RequestID())
	if redisClient != nil {
		r.Use(middleware.Idempotency(redisClient))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// User registry
	usuarios := r.Group("/usuarios")
	{
		usuarios.POST("", h.RegisterUser)
		usuarios.GET("", h.ListUsers)
		usuarios.GET("/:alias", h.GetUser)

		// Rides scoped to a user
		rides := usuarios.Group("/:alias/rides")
		{
			rides.POST("", h.CreateRide)
			rides.GET("", h.ListUserRides)
			rides.GET("/:id", h.GetRide)
			rides.POST("/:id/requestToJoin/:participantAlias", h.RequestToJoin)
			rides.POST("/:id/accept/:participantAlias", h.AcceptParticipant)
			rides.POST("/:id/reject/:participantAlias", h.RejectParticipant)
			rides.POST("/:id/start", h.StartRide)
			rides.POST("/:id/end", h.EndRide)
			rides.POST("/:id/unloadParticipant", h.UnloadParticipant)
		}
	}

	// Cross-user ride listing
	r.GET("/rides/active", h.ListActiveRides)
}
