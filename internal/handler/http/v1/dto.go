package v1

import (
	"time"

	"github.com/google/uuid"
)

// VoiceReportRequest carries a spoken transcript and the reporter's
// device position, if available.
// @Description Request to turn a voice transcript into a report draft
type VoiceReportRequest struct {
	Transcript string   `json:"transcript" validate:"required,min=2"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// ReportDraftResponse is the extracted draft returned for confirmation.
// @Description Draft incident awaiting reporter confirmation
type ReportDraftResponse struct {
	IncidentType  string  `json:"incident_type"`
	Description   string  `json:"description"`
	Severity      string  `json:"severity"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	LocationName  string  `json:"location_name"`
	Confidence    float64 `json:"confidence"`
	LowConfidence bool    `json:"low_confidence"`
}

// VoiceTranscriptResponse pairs the recognized transcript with the
// draft it produced.
// @Description Transcription result and draft incident
type VoiceTranscriptResponse struct {
	Transcript string               `json:"transcript"`
	Draft      *ReportDraftResponse `json:"draft"`
}

// CreateIncidentRequest persists a confirmed draft.
// @Description Request to submit a confirmed incident report
type CreateIncidentRequest struct {
	IncidentType string  `json:"incident_type" validate:"required,oneof=crime accident fire medical hazard other"`
	Description  string  `json:"description" validate:"required,min=2"`
	Latitude     float64 `json:"latitude" validate:"required,latitude"`
	Longitude    float64 `json:"longitude" validate:"required,longitude"`
	LocationName string  `json:"location_name" validate:"required"`
}

// UpdateStatusRequest moves an incident through its lifecycle.
// @Description Request to change incident status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active responding resolved"`
}

// IncidentResponse is the public view of an incident.
// @Description Incident details
type IncidentResponse struct {
	ID           uuid.UUID `json:"id"`
	IncidentType string    `json:"incident_type"`
	Description  string    `json:"description"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	LocationName string    `json:"location_name"`
	Status       string    `json:"status"`
	ReporterName string    `json:"reporter_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LocationCheckRequest asks whether a point sits inside the alert
// radius of any active incident.
// @Description Request to check a location for nearby active incidents
type LocationCheckRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

// LocationCheckResponse is the danger verdict plus the incidents found.
// @Description Result of a location check
type LocationCheckResponse struct {
	InDanger  bool                `json:"in_danger"`
	Incidents []*IncidentResponse `json:"incidents"`
}

// MonitorPointRequest registers or updates a monitored point.
// @Description Request to monitor a location for proximity announcements
type MonitorPointRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	Label     string  `json:"label,omitempty" validate:"max=255"`
}

// MonitoredPointResponse describes one watched point.
// @Description Monitored point details
type MonitoredPointResponse struct {
	Key       string  `json:"key"`
	Kind      string  `json:"kind"`
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StatsResponse reports how many distinct users checked their location
// within the stats window.
// @Description Location check statistics
type StatsResponse struct {
	UserCount int `json:"user_count"`
}
