package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentType categorizes a reported incident.
type IncidentType string

const (
	TypeCrime    IncidentType = "crime"
	TypeAccident IncidentType = "accident"
	TypeFire     IncidentType = "fire"
	TypeMedical  IncidentType = "medical"
	TypeHazard   IncidentType = "hazard"
	TypeOther    IncidentType = "other"
)

// ValidIncidentType reports whether t is one of the known categories.
func ValidIncidentType(t IncidentType) bool {
	switch t {
	case TypeCrime, TypeAccident, TypeFire, TypeMedical, TypeHazard, TypeOther:
		return true
	}
	return false
}

// Severity scales how serious an incident appears to be.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is one of the known severities.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IncidentStatus is the lifecycle state of a persisted incident.
// Status only changes through officer action.
type IncidentStatus string

const (
	StatusActive     IncidentStatus = "active"
	StatusResponding IncidentStatus = "responding"
	StatusResolved   IncidentStatus = "resolved"
)

// ValidIncidentStatus reports whether s is one of the known statuses.
func ValidIncidentStatus(s IncidentStatus) bool {
	switch s {
	case StatusActive, StatusResponding, StatusResolved:
		return true
	}
	return false
}

// Incident is the persisted entity created by a confirmed report.
type Incident struct {
	ID           uuid.UUID      `json:"id"`
	UserID       string         `json:"user_id"`
	IncidentType IncidentType   `json:"incident_type"`
	Description  string         `json:"description"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	LocationName string         `json:"location_name"`
	Status       IncidentStatus `json:"status"`
	ReporterName string         `json:"reporter_name"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
