package models

// IncidentEventKind describes what changed in the incidents collection.
type IncidentEventKind string

const (
	EventIncidentCreated IncidentEventKind = "created"
	EventIncidentUpdated IncidentEventKind = "updated"
	EventIncidentDeleted IncidentEventKind = "deleted"
)

// IncidentEvent is pushed on the live feed whenever the incidents
// collection changes. Subscribers re-evaluate proximity on every event.
type IncidentEvent struct {
	Kind     IncidentEventKind `json:"kind"`
	Incident Incident          `json:"incident"`
}
