package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all v1 API routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.Use(IdentityMiddleware())

	// Voice report pipeline
	api.POST("/reports/voice", h.prepareVoiceReport)
	api.POST("/reports/voice/audio", h.prepareAudioReport)

	// Incident CRUD
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", APIKeyAuthMiddleware(h.cfg, h.logger), h.getStats)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id/status", APIKeyAuthMiddleware(h.cfg, h.logger), h.updateIncidentStatus)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	// Proximity checks
	api.POST("/location/check", h.checkLocation)

	// Monitored points for proximity announcements
	monitor := api.Group("/monitor")
	{
		monitor.POST("/user", h.monitorUserPosition)
		monitor.DELETE("/user", h.unmonitorUserPosition)
		monitor.POST("/pin", h.pinLocation)
		monitor.DELETE("/pin/:key", h.unpinLocation)
		monitor.GET("/points", h.listMonitoredPoints)
	}

	// Health-check
	api.GET("/system/health", h.healthCheck)
}
