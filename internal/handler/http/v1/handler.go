package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/doanhtu07/web-slinger-dispatch/internal/announce"
	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service"
	"github.com/doanhtu07/web-slinger-dispatch/internal/voice"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	reportService   service.ReportService
	announcer       *announce.Announcer
	transcriber     *voice.Transcriber
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, reportService service.ReportService, announcer *announce.Announcer, transcriber *voice.Transcriber, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		reportService:   reportService,
		announcer:       announcer,
		transcriber:     transcriber,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Prepare a report draft from a voice transcript
// @Description Extract incident fields from a spoken transcript and resolve its location. Returns a draft for the reporter to confirm; nothing is persisted.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body VoiceReportRequest true "Voice report request"
// @Success 200 {object} ReportDraftResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 422 {object} map[string]string "Location could not be resolved"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/voice [post]
func (h *Handler) prepareVoiceReport(c *gin.Context) {
	var input VoiceReportRequest
	log := h.logger.WithField("method", "prepareVoiceReport")

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

	var caller *models.LatLng
	if input.Latitude != nil && input.Longitude != nil {
		caller = &models.LatLng{Lat: *input.Latitude, Lng: *input.Longitude}
	}

	draft, err := h.reportService.PrepareVoiceReport(c.Request.Context(), input.Transcript, caller)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequired) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to prepare voice report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, DraftToResponse(draft))
}

// @Summary Prepare a report draft from an audio recording
// @Description Transcribe an uploaded audio recording, then extract incident fields and resolve the location. Multipart form: "audio" file plus optional "latitude"/"longitude" fields.
// @Tags Reports
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio recording of the spoken report"
// @Param latitude formData number false "Caller latitude"
// @Param longitude formData number false "Caller longitude"
// @Success 200 {object} VoiceTranscriptResponse
// @Failure 400 {object} map[string]string "Missing or unreadable audio file"
// @Failure 422 {object} map[string]string "No speech recognized or location unresolved"
// @Failure 500 {object} map[string]string "Internal server error"
// @Failure 503 {object} map[string]string "Speech-to-text not configured"
// @Router /reports/voice/audio [post]
func (h *Handler) prepareAudioReport(c *gin.Context) {
	log := h.logger.WithField("method", "prepareAudioReport")

	if h.transcriber == nil || !h.transcriber.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "speech-to-text is not configured"})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.WithError(err).Warn("Failed to open uploaded audio")
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
		return
	}
	defer file.Close()

	capture := voice.NewCapture(
		h.transcriber.Recognizer(fileHeader.Filename, file),
		h.cfg.SpeechLanguage,
		h.cfg.SpeechTimeout,
		h.logger,
	)
	transcript, err := capture.Start(c.Request.Context())
	if err != nil {
		var capErr *voice.CaptureError
		if errors.As(err, &capErr) && capErr.Kind == voice.ErrNoSpeech {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no speech recognized"})
			return
		}
		log.WithError(err).Error("Failed to transcribe audio")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription failed"})
		return
	}

	caller := callerFromForm(c)
	draft, err := h.reportService.PrepareVoiceReport(c.Request.Context(), transcript, caller)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequired) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to prepare voice report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, VoiceTranscriptResponse{
		Transcript: transcript,
		Draft:      DraftToResponse(draft),
	})
}

func callerFromForm(c *gin.Context) *models.LatLng {
	latStr := c.PostForm("latitude")
	lngStr := c.PostForm("longitude")
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	return &models.LatLng{Lat: lat, Lng: lng}
}

// @Summary Submit a confirmed incident report
// @Description Persist a confirmed report draft as an active incident. Requires reporter identity headers.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Confirmed incident report"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Missing reporter identity"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

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

	draft := DTOToIncidentModel(input)
	incident, err := h.reportService.SubmitReport(c.Request.Context(), userID, c.GetString(userNameKey), draft)
	if err != nil {
		log.WithError(err).Error("Failed to submit report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of incidents, newest first.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Accept json
// @Produce json
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

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update incident status
// @Description Move an incident through its lifecycle: active, responding, resolved. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/status [patch]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("id", id)

	var input UpdateStatusRequest
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

	incident, err := h.incidentService.UpdateIncidentStatus(c.Request.Context(), id, models.IncidentStatus(input.Status))
	if err != nil {
		log.WithError(err).Error("Failed to update incident status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update incident status"})
		return
	}

	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Delete an incident
// @Description Delete an incident by its ID. Only the original reporter may delete their report. Requires reporter identity headers.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Missing reporter identity"
// @Failure 403 {object} map[string]string "Not the reporter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "deleteIncident").WithField("id", id)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.incidentService.DeleteIncident(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the reporter may delete an incident"})
			return
		}
		log.WithError(err).Error("Failed to delete incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete incident"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Check a location for nearby active incidents
// @Description Check whether a point sits inside the alert radius of any active incident. Requires reporter identity headers.
// @Tags Location
// @Accept json
// @Produce json
// @Param location body LocationCheckRequest true "Location check request"
// @Success 200 {object} LocationCheckResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Missing reporter identity"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/check [post]
func (h *Handler) checkLocation(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkLocation")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

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

	inDanger, incidents, err := h.incidentService.CheckLocation(c.Request.Context(), userID, input.Latitude, input.Longitude)
	if err != nil {
		log.WithError(err).Error("Failed to check location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, LocationCheckResponse{
		InDanger:  inDanger,
		Incidents: ModelsToIncidentResponses(incidents),
	})
}

// @Summary Get location check statistics
// @Description Get the number of distinct users that checked their location within the stats window. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	userCount, err := h.incidentService.GetLocationCheckStats(c.Request.Context(), h.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{UserCount: userCount})
}

// @Summary Monitor the caller's position
// @Description Register or update the caller's GPS position as a monitored point for proximity announcements. Requires reporter identity headers.
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param point body MonitorPointRequest true "Position to monitor"
// @Success 200 {object} MonitoredPointResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Missing reporter identity"
// @Router /monitor/user [post]
func (h *Handler) monitorUserPosition(c *gin.Context) {
	var input MonitorPointRequest
	log := h.logger.WithField("method", "monitorUserPosition")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

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

	label := input.Label
	if label == "" {
		label = "your location"
	}

	point := models.MonitoredPoint{
		Location: models.LatLng{Lat: input.Latitude, Lng: input.Longitude},
		Label:    label,
		Kind:     models.PointUser,
		Key:      "user:" + userID,
	}
	h.announcer.UpsertPoint(point)

	c.JSON(http.StatusOK, PointToResponse(point))
}

// @Summary Stop monitoring the caller's position
// @Description Remove the caller's GPS position from the monitored set. Requires reporter identity headers.
// @Tags Monitoring
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Missing reporter identity"
// @Router /monitor/user [delete]
func (h *Handler) unmonitorUserPosition(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.announcer.RemovePoint("user:" + userID)
	c.Status(http.StatusNoContent)
}

// @Summary Pin a location to monitor
// @Description Register a fixed location (home, school, workplace) as a monitored point for proximity announcements.
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param point body MonitorPointRequest true "Location to pin"
// @Success 201 {object} MonitoredPointResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /monitor/pin [post]
func (h *Handler) pinLocation(c *gin.Context) {
	var input MonitorPointRequest
	log := h.logger.WithField("method", "pinLocation")

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

	label := input.Label
	if label == "" {
		label = "pinned location"
	}

	point := models.MonitoredPoint{
		Location: models.LatLng{Lat: input.Latitude, Lng: input.Longitude},
		Label:    label,
		Kind:     models.PointPinned,
		Key:      "pin:" + uuid.NewString(),
	}
	h.announcer.UpsertPoint(point)

	c.JSON(http.StatusCreated, PointToResponse(point))
}

// @Summary Remove a pinned location
// @Description Remove a pinned location from the monitored set by the key returned when it was pinned.
// @Tags Monitoring
// @Produce json
// @Param key path string true "Monitored point key"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Unknown monitored point key"
// @Router /monitor/pin/{key} [delete]
func (h *Handler) unpinLocation(c *gin.Context) {
	if !h.announcer.RemovePoint(c.Param("key")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "monitored point not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List monitored points
// @Description List all points the proximity announcer currently watches.
// @Tags Monitoring
// @Produce json
// @Success 200 {array} MonitoredPointResponse
// @Router /monitor/points [get]
func (h *Handler) listMonitoredPoints(c *gin.Context) {
	c.JSON(http.StatusOK, PointsToResponses(h.announcer.Points()))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
