package service

import (
	"context"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_service.go -package=mocks

// IncidentRepository is the persistence port for incidents and
// location checks.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListRecentActive(ctx context.Context, limit int) ([]*models.Incident, error)
	FindActiveWithin(ctx context.Context, lat, lng, radiusMeters float64) ([]*models.Incident, error)
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
	GetLocationCheckStats(ctx context.Context, minutes int) (int, error)

	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// EventPublisher fans incident changes out to the live feed.
type EventPublisher interface {
	PublishIncidentEvent(ctx context.Context, event models.IncidentEvent) error
}

// IncidentService is the business-logic surface the HTTP layer talks to.
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	UpdateIncidentStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id uuid.UUID, requesterID string) error
	CheckLocation(ctx context.Context, userID string, lat, lng float64) (bool, []*models.Incident, error)
	GetLocationCheckStats(ctx context.Context, minutes int) (int, error)
}

// TranscriptExtractor turns a raw spoken transcript into structured
// incident fields.
type TranscriptExtractor interface {
	Extract(ctx context.Context, transcript string, caller *models.LatLng) models.ParsedIncident
}

// LocationResolver turns a spoken location phrase into coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, locationName string, caller *models.LatLng) (*models.ResolvedLocation, error)
}

// ReportService drives the voice-to-incident pipeline.
type ReportService interface {
	PrepareVoiceReport(ctx context.Context, transcript string, caller *models.LatLng) (*models.ReportDraft, error)
	SubmitReport(ctx context.Context, userID, reporterName string, draft *models.ReportDraft) (*models.Incident, error)
}
