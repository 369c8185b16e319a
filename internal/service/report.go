package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/doanhtu07/web-slinger-dispatch/internal/geocode"
	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// Drafts whose extraction confidence falls below this threshold are
// flagged so the client can ask the reporter to double-check.
const lowConfidenceThreshold = 0.7

// ErrLocationRequired is returned when neither the transcript nor the
// caller's device position yields usable coordinates.
var ErrLocationRequired = errors.New("a location is required: enable location services or say where the incident is")

type reportService struct {
	extractor TranscriptExtractor
	resolver  LocationResolver
	incidents IncidentService
	logger    *logrus.Logger
}

func NewReportService(extractor TranscriptExtractor, resolver LocationResolver, incidents IncidentService, logger *logrus.Logger) ReportService {
	return &reportService{
		extractor: extractor,
		resolver:  resolver,
		incidents: incidents,
		logger:    logger,
	}
}

// PrepareVoiceReport runs extraction and location resolution over a
// transcript and returns a draft for the reporter to confirm. Nothing
// is persisted until the draft comes back through SubmitReport.
func (s *reportService) PrepareVoiceReport(ctx context.Context, transcript string, caller *models.LatLng) (*models.ReportDraft, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "PrepareVoiceReport",
	})
	log.Info("Preparing draft from voice transcript")

	if transcript == "" {
		return nil, fmt.Errorf("service: transcript must not be empty")
	}

	parsed := s.extractor.Extract(ctx, transcript, caller)

	resolved, err := s.resolver.Resolve(ctx, parsed.LocationName, caller)
	if err != nil {
		if errors.Is(err, geocode.ErrLocationUnresolvable) {
			log.Warn("Draft rejected: no usable location")
			return nil, ErrLocationRequired
		}
		log.WithError(err).Error("Failed to resolve incident location")
		return nil, fmt.Errorf("service: could not resolve location: %w", err)
	}

	draft := &models.ReportDraft{
		IncidentType:  parsed.IncidentType,
		Description:   parsed.Description,
		Severity:      parsed.Severity,
		Latitude:      resolved.Lat,
		Longitude:     resolved.Lng,
		LocationName:  resolved.LocationName,
		Confidence:    parsed.Confidence,
		LowConfidence: parsed.Confidence < lowConfidenceThreshold,
	}

	log.WithFields(logrus.Fields{
		"incident_type":  draft.IncidentType,
		"location_name":  draft.LocationName,
		"low_confidence": draft.LowConfidence,
	}).Info("Draft prepared")
	return draft, nil
}

// SubmitReport persists a confirmed draft as an active incident.
func (s *reportService) SubmitReport(ctx context.Context, userID, reporterName string, draft *models.ReportDraft) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "SubmitReport",
		"user_id": userID,
	})
	log.Info("Submitting confirmed report")

	if draft == nil {
		return nil, fmt.Errorf("service: draft must not be nil")
	}
	if draft.Description == "" {
		return nil, fmt.Errorf("service: draft description must not be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("service: reporter identity is required")
	}
	if reporterName == "" {
		reporterName = "Anonymous"
	}

	incident := &models.Incident{
		UserID:       userID,
		IncidentType: draft.IncidentType,
		Description:  draft.Description,
		Latitude:     draft.Latitude,
		Longitude:    draft.Longitude,
		LocationName: draft.LocationName,
		ReporterName: reporterName,
	}

	if err := s.incidents.CreateIncident(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to persist confirmed report")
		return nil, fmt.Errorf("service: could not submit report: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Report submitted successfully")
	return incident, nil
}
