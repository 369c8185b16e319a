package models

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParsedIncident is the strict result of extracting structured fields from a
// voice transcript. It is immutable once produced: every field has already
// been validated and coerced, raw AI output never leaves the extractor.
type ParsedIncident struct {
	IncidentType IncidentType `json:"incident_type"`
	Description  string       `json:"description"`
	LocationName string       `json:"location_name"`
	Severity     Severity     `json:"severity"`
	// Confidence is the extraction confidence reported by the model,
	// clamped to [0,1]. Not comparable with GeocodingResult.Confidence.
	Confidence float64 `json:"confidence"`
}

// GeocodingResult is a single candidate from the geocoding provider.
type GeocodingResult struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
	// Confidence is derived from the provider's importance score,
	// clamped to [0,1]. Unrelated to extraction confidence.
	Confidence float64 `json:"confidence"`
}

// ResolvedLocation is the resolver's output: either concrete coordinates
// with a display label, or the resolver reported failure. Never partial.
type ResolvedLocation struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	LocationName string  `json:"location_name"`
}

// ReportDraft is the tuple presented to the reporter for confirmation
// before it becomes a persisted incident.
type ReportDraft struct {
	IncidentType  IncidentType `json:"incident_type"`
	Description   string       `json:"description"`
	Severity      Severity     `json:"severity"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	LocationName  string       `json:"location_name"`
	Confidence    float64      `json:"confidence"`
	LowConfidence bool         `json:"low_confidence"`
}

// MonitoredPointKind distinguishes where a monitored point came from.
type MonitoredPointKind string

const (
	PointUser   MonitoredPointKind = "user"
	PointPinned MonitoredPointKind = "pinned"
)

// MonitoredPoint is a location the proximity announcer watches for nearby
// new incidents. Transient: it lives only as long as the session's GPS is
// available or the pin is kept.
type MonitoredPoint struct {
	Location LatLng             `json:"location"`
	Label    string             `json:"label"`
	Kind     MonitoredPointKind `json:"kind"`
	Key      string             `json:"key"`
}
