package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/campus_safety_system/internal/service"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, staff service.StaffDirectory) {
	// Health-check живет вне аутентификации
	api.GET("/system/health", h.healthCheck)

	authed := api.Group("")
	authed.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	authed.Use(ActorMiddleware(staff, h.logger))

	// SOS-триггер: начать удержание, узнать остаток, отпустить
	sos := authed.Group("/sos")
	{
		sos.POST("/hold", h.beginHold)
		sos.GET("/hold", h.holdStatus)
		sos.DELETE("/hold", h.releaseHold)
	}

	// Инциденты: проекции по роли и команды оркестратора
	incidents := authed.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/stream", h.streamIncidents)
		incidents.GET("/map-points", h.incidentMapPoints)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/assign", h.assignIncident)
		incidents.POST("/:id/resolve", h.resolveIncident)
		incidents.PATCH("/:id/priority", h.reprioritizeIncident)
	}

	// Жалобы на инфраструктуру
	reports := authed.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("", h.listReports)
		reports.PATCH("/:id/status", h.updateReportStatus)
	}
}
