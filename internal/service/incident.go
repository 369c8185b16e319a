package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// milesToMeters converts the alert radius for the PostGIS distance query.
const milesToMeters = 1609.34

// ErrForbidden is returned when a caller tries to act on a resource
// they do not own.
var ErrForbidden = errors.New("forbidden")

type incidentService struct {
	repo        IncidentRepository
	events      EventPublisher
	radiusMiles float64
	logger      *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, events EventPublisher, radiusMiles float64, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:        repo,
		events:      events,
		radiusMiles: radiusMiles,
		logger:      logger,
	}
}

// CreateIncident validates and persists a new incident, then emits a
// created event to the live feed.
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "incident",
		"method":        "CreateIncident",
		"incident_type": incident.IncidentType,
	})
	log.Info("Attempting to create a new incident")

	if !models.ValidIncidentType(incident.IncidentType) {
		incident.IncidentType = models.TypeOther
	}
	if incident.Description == "" {
		return fmt.Errorf("service: incident description must not be empty")
	}
	incident.Status = models.StatusActive

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.publishEvent(ctx, log, models.EventIncidentCreated, incident)

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident fetches an incident, preferring the Redis cache.
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Cache lookup failed, falling through to database")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to populate incident cache")
	}
	return incident, nil
}

func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"page":    page,
	})

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents in repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// UpdateIncidentStatus transitions an incident through its lifecycle.
// Transitions only move forward: active -> responding -> resolved.
func (s *incidentService) UpdateIncidentStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncidentStatus",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Attempting to update incident status")

	if !models.ValidIncidentStatus(status) {
		return nil, fmt.Errorf("service: invalid incident status %q", status)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return nil, fmt.Errorf("service: incident %s not found for status update: %w", id, err)
	}
	if statusRank(status) < statusRank(existing.Status) {
		return nil, fmt.Errorf("service: cannot move incident from %s back to %s", existing.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return nil, fmt.Errorf("service: could not update incident status: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	existing.Status = status
	s.publishEvent(ctx, log, models.EventIncidentUpdated, existing)

	log.Info("Incident status updated successfully")
	return existing, nil
}

// DeleteIncident removes an incident. Only the original reporter may
// delete their own report.
func (s *incidentService) DeleteIncident(ctx context.Context, id uuid.UUID, requesterID string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service: incident %s not found for delete: %w", id, err)
	}
	if existing.UserID != requesterID {
		log.Warn("Delete rejected: requester is not the reporter")
		return fmt.Errorf("service: %w: only the reporter may delete an incident", ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publishEvent(ctx, log, models.EventIncidentDeleted, existing)

	log.Info("Incident deleted successfully")
	return nil
}

// CheckLocation reports whether the given point is inside the alert
// radius of any active incident, and records the lookup.
func (s *incidentService) CheckLocation(ctx context.Context, userID string, lat, lng float64) (bool, []*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CheckLocation",
		"user_id": userID,
	})

	incidents, err := s.repo.FindActiveWithin(ctx, lat, lng, s.radiusMiles*milesToMeters)
	if err != nil {
		log.WithError(err).Error("Failed to query active incidents near location")
		return false, nil, fmt.Errorf("service: could not check location: %w", err)
	}

	inDanger := len(incidents) > 0
	check := &models.LocationCheck{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
		InDanger:  inDanger,
	}
	if err := s.repo.SaveLocationCheck(ctx, check); err != nil {
		log.WithError(err).Warn("Failed to record location check")
	}

	return inDanger, incidents, nil
}

func (s *incidentService) GetLocationCheckStats(ctx context.Context, minutes int) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetLocationCheckStats",
		"minutes": minutes,
	})

	count, err := s.repo.GetLocationCheckStats(ctx, minutes)
	if err != nil {
		log.WithError(err).Error("Failed to get location check stats")
		return 0, fmt.Errorf("service: could not get location check stats: %w", err)
	}
	return count, nil
}

func (s *incidentService) publishEvent(ctx context.Context, log *logrus.Entry, kind models.IncidentEventKind, incident *models.Incident) {
	if s.events == nil {
		return
	}
	event := models.IncidentEvent{Kind: kind, Incident: *incident}
	if err := s.events.PublishIncidentEvent(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish incident event")
	}
}

func statusRank(status models.IncidentStatus) int {
	switch status {
	case models.StatusActive:
		return 0
	case models.StatusResponding:
		return 1
	case models.StatusResolved:
		return 2
	default:
		return -1
	}
}
