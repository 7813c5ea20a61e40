package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/config"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	trigger       service.SOSTrigger
	orchestrator  service.IncidentOrchestrator
	views         service.IncidentViews
	reportService service.ReportService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(trigger service.SOSTrigger, orchestrator service.IncidentOrchestrator, views service.IncidentViews, reportService service.ReportService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		trigger:       trigger,
		orchestrator:  orchestrator,
		views:         views,
		reportService: reportService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// respondError сопоставляет доменную ошибку HTTP-статусу.
// Каждая ошибка всплывает один раз, коротким действенным сообщением.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "location permission required"})
	case errors.Is(err, models.ErrLocationUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "location unavailable, try again"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "status transition not permitted"})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, retry the action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Begin SOS hold
// @Description Start the press-and-hold countdown for the acting user. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param hold body BeginHoldRequest true "Hold request"
// @Success 202 {object} HoldStatusResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 403 {object} map[string]string "Location permission not granted"
// @Failure 422 {object} map[string]string "Location unavailable"
// @Router /sos/hold [post]
func (h *Handler) beginHold(c *gin.Context) {
	log := h.logger.WithField("method", "beginHold")
	actor := actorFrom(c)

	var input BeginHoldRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := service.ClientLocation{
		PermissionGranted: input.LocationPermission,
		Address:           input.Address,
	}
	if input.Latitude != nil && input.Longitude != nil {
		loc.Point = &models.GeoPoint{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}

	status, err := h.trigger.BeginHold(c.Request.Context(), actor, input.Type, loc)
	if err != nil {
		log.WithError(err).Warn("Failed to begin hold")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, HoldStatusToResponse(status))
}

// @Summary Get SOS hold state
// @Description Remaining whole seconds of the countdown, or the outcome of the last hold. Requires API key.
// @Tags SOS
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} HoldStatusResponse
// @Router /sos/hold [get]
func (h *Handler) holdStatus(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, HoldStatusToResponse(h.trigger.Hold(actor.ID)))
}

// @Summary Release SOS hold
// @Description Cancel the running countdown before it expires; no incident is created. Requires API key.
// @Tags SOS
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} HoldStatusResponse
// @Router /sos/hold [delete]
func (h *Handler) releaseHold(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, HoldStatusToResponse(h.trigger.Release(actor.ID)))
}

// @Summary List incidents
// @Description Ranked role-scoped projection of incidents. Pass view=broad for the situational-awareness scope. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param view query string false "Scope: own (default) or broad"
// @Success 200 {array} IncidentResponse
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	actor := actorFrom(c)
	broad := c.Query("view") == "broad"

	incidents, err := h.views.List(c.Request.Context(), actor, broad)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from views")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Stream incidents
// @Description Live SSE stream of ranked role-scoped snapshots; a new snapshot follows every relevant change. Requires API key.
// @Tags Incidents
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Param view query string false "Scope: own (default) or broad"
// @Success 200 {array} IncidentResponse
// @Router /incidents/stream [get]
func (h *Handler) streamIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "streamIncidents")
	actor := actorFrom(c)
	broad := c.Query("view") == "broad"
	ctx := c.Request.Context()

	snapshots, err := h.views.Stream(ctx, actor, broad)
	if err != nil {
		log.WithError(err).Error("Failed to open incident stream")
		respondError(c, err)
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("incidents", ModelsToIncidentResponses(snapshot))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// @Summary Get incident by ID
// @Description Get a single incident within the actor's visibility. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)
	actor := actorFrom(c)

	incident, err := h.views.Get(c.Request.Context(), actor, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Assign incident
// @Description Assign an active incident to a staff member. Staff only. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param assignment body AssignIncidentRequest true "Assignment request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Router /incidents/{id}/assign [post]
func (h *Handler) assignIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "assignIncident").WithField("id", id)
	actor := actorFrom(c)

	var input AssignIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assigneeID, err := uuid.Parse(input.AssigneeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee ID"})
		return
	}

	incident, err := h.orchestrator.Assign(c.Request.Context(), actor, id, assigneeID)
	if err != nil {
		log.WithError(err).Warn("Failed to assign incident")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Resolve incident
// @Description Resolve an incident. Reporter may resolve own active incident; staff may resolve any active or assigned one. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Router /incidents/{id}/resolve [post]
func (h *Handler) resolveIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)
	actor := actorFrom(c)

	incident, err := h.orchestrator.Resolve(c.Request.Context(), actor, id)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve incident")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Reprioritize incident
// @Description Manually re-triage the priority of an unresolved incident. Staff only. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param priority body ReprioritizeIncidentRequest true "New priority"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Router /incidents/{id}/priority [patch]
func (h *Handler) reprioritizeIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "reprioritizeIncident").WithField("id", id)
	actor := actorFrom(c)

	var input ReprioritizeIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority, err := models.ParseIncidentPriority(input.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	incident, err := h.orchestrator.Reprioritize(c.Request.Context(), actor, id, priority)
	if err != nil {
		log.WithError(err).Warn("Failed to reprioritize incident")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Incident map points
// @Description Incidents with coordinates as (latitude, longitude, label) triples for the external map viewer. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} MapPointResponse
// @Router /incidents/map-points [get]
func (h *Handler) incidentMapPoints(c *gin.Context) {
	log := h.logger.WithField("method", "incidentMapPoints")
	actor := actorFrom(c)

	points, err := h.views.MapPoints(c.Request.Context(), actor)
	if err != nil {
		log.WithError(err).Error("Failed to build map points")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPointsToResponses(points))
}

// @Summary Create a report
// @Description File an infrastructure/complaint report, optionally anonymous. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param report body CreateReportRequest true "Report creation request"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	log := h.logger.WithField("method", "createReport")
	actor := actorFrom(c)

	var input CreateReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), actor, input.Category, input.Description, input.Address, input.Anonymous)
	if err != nil {
		log.WithError(err).Error("Failed to create report in service")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(report))
}

// @Summary List reports
// @Description List infrastructure reports with an optional status filter. Requires API key.
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status" Enums(open, in_progress, closed)
// @Success 200 {array} ReportResponse
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	reports, err := h.reportService.ListReports(c.Request.Context(), c.Query("status"))
	if err != nil {
		log.WithError(err).Error("Failed to list reports from service")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Update report status
// @Description Change the status of a report. Staff only. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param status body UpdateReportStatusRequest true "Report status update"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Not permitted"
// @Router /reports/{id}/status [patch]
func (h *Handler) updateReportStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}
	log := h.logger.WithField("method", "updateReportStatus").WithField("id", id)
	actor := actorFrom(c)

	var input UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.SetReportStatus(c.Request.Context(), actor, id, input.Status)
	if err != nil {
		log.WithError(err).Warn("Failed to update report status")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
