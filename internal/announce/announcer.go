package announce

import (
	"context"
	"sync"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/speech"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the announcer's observable state.
type State string

const (
	StateIdle       State = "idle"
	StateMonitoring State = "monitoring"
	StateAnnouncing State = "announcing"
)

// Announcement is one line emitted for a newly matching incident.
type Announcement struct {
	IncidentID    uuid.UUID `json:"incident_id"`
	PointKey      string    `json:"point_key"`
	Message       string    `json:"message"`
	DistanceMiles float64   `json:"distance_miles"`
}

// Publisher appends an announcement to the session's visible log.
type Publisher interface {
	Publish(ctx context.Context, ann Announcement) error
}

// Announcer watches the live incident collection against a set of
// monitored points and emits a one-shot announcement for each genuinely
// new incident within the proximity radius. One Announcer belongs to one
// session: the announced set grows for the session's lifetime and resets
// only on restart, so the same incident may still be announced once per
// open session elsewhere.
type Announcer struct {
	speaker     speech.Speaker
	publisher   Publisher
	radiusMiles float64
	logger      *logrus.Logger
	now         func() time.Time

	mu        sync.Mutex
	state     State
	seeded    bool
	points    map[string]models.MonitoredPoint
	announced map[uuid.UUID]struct{}
	incidents []models.Incident
}

func NewAnnouncer(speaker speech.Speaker, publisher Publisher, radiusMiles float64, logger *logrus.Logger) *Announcer {
	return &Announcer{
		speaker:     speaker,
		publisher:   publisher,
		radiusMiles: radiusMiles,
		logger:      logger,
		now:         time.Now,
		state:       StateIdle,
		points:      make(map[string]models.MonitoredPoint),
		announced:   make(map[uuid.UUID]struct{}),
	}
}

// State returns the current announcer state.
func (a *Announcer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// UpsertPoint registers or moves a monitored point. A genuinely new point
// is not evaluated against the current incident set: its pre-existing
// nearby incidents are marked announced in bulk so pinning a busy area
// does not produce a burst of stale announcements. Updating an existing
// point's position does no such marking.
func (a *Announcer) UpsertPoint(p models.MonitoredPoint) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, existed := a.points[p.Key]
	a.points[p.Key] = p
	if a.state == StateIdle {
		a.state = StateMonitoring
	}
	if existed {
		return
	}

	marked := 0
	for _, inc := range a.incidents {
		if _, done := a.announced[inc.ID]; done {
			continue
		}
		if DistanceMiles(p.Location.Lat, p.Location.Lng, inc.Latitude, inc.Longitude) <= a.radiusMiles {
			a.announced[inc.ID] = struct{}{}
			marked++
		}
	}
	a.logger.WithFields(logrus.Fields{
		"component": "announcer",
		"point":     p.Key,
		"marked":    marked,
	}).Debug("Monitored point registered")
}

// RemovePoint forgets a monitored point and reports whether it was
// known. The announced set is kept: an incident announced once is never
// announced again this session, even if its point comes back.
func (a *Announcer) RemovePoint(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, existed := a.points[key]
	delete(a.points, key)
	if len(a.points) == 0 {
		a.state = StateIdle
	}
	return existed
}

// Points returns the currently monitored points.
func (a *Announcer) Points() []models.MonitoredPoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.MonitoredPoint, 0, len(a.points))
	for _, p := range a.points {
		out = append(out, p)
	}
	return out
}

// Evaluate recomputes proximity for the given incident snapshot and emits
// announcements for new matches. It is idempotent: re-running with the
// same inputs announces nothing, guaranteed by announced-set membership.
// An incident is counted announced once attempted; speech failures are
// logged and never block the log entry or the dedup bookkeeping.
func (a *Announcer) Evaluate(ctx context.Context, incidents []models.Incident) []Announcement {
	a.mu.Lock()
	first := !a.seeded
	a.seeded = true
	a.incidents = incidents
	if len(a.points) == 0 {
		a.mu.Unlock()
		return nil
	}
	if first {
		// Points registered before the first snapshot arrived had no
		// incident set to mark against, so do their baseline marking
		// now: whatever already surrounds them is old news.
		for _, p := range a.points {
			for _, inc := range incidents {
				if _, done := a.announced[inc.ID]; done {
					continue
				}
				if DistanceMiles(p.Location.Lat, p.Location.Lng, inc.Latitude, inc.Longitude) <= a.radiusMiles {
					a.announced[inc.ID] = struct{}{}
				}
			}
		}
	}

	type match struct {
		incident models.Incident
		point    models.MonitoredPoint
		distance float64
	}
	var matches []match
	for _, inc := range incidents {
		if inc.Status != models.StatusActive {
			continue
		}
		if _, done := a.announced[inc.ID]; done {
			continue
		}
		// An incident near several points announces once, for the
		// closest of them.
		best := match{distance: -1}
		for _, p := range a.points {
			d := DistanceMiles(p.Location.Lat, p.Location.Lng, inc.Latitude, inc.Longitude)
			if d > a.radiusMiles {
				continue
			}
			if best.distance < 0 || d < best.distance {
				best = match{incident: inc, point: p, distance: d}
			}
		}
		if best.distance >= 0 {
			a.announced[inc.ID] = struct{}{}
			matches = append(matches, best)
		}
	}

	if len(matches) == 0 {
		a.mu.Unlock()
		return nil
	}
	a.state = StateAnnouncing
	now := a.now()
	a.mu.Unlock()

	log := a.logger.WithField("component", "announcer")
	announcements := make([]Announcement, 0, len(matches))
	for _, m := range matches {
		ann := Announcement{
			IncidentID:    m.incident.ID,
			PointKey:      m.point.Key,
			Message:       composeMessage(m.incident, m.point, m.distance, now),
			DistanceMiles: m.distance,
		}
		announcements = append(announcements, ann)

		if err := a.publisher.Publish(ctx, ann); err != nil {
			log.WithError(err).WithField("incident_id", ann.IncidentID).Error("Failed to publish announcement")
		}
		if err := a.speaker.Speak(ctx, ann.Message); err != nil {
			log.WithError(err).WithField("incident_id", ann.IncidentID).Warn("Failed to speak announcement")
		}
		log.WithFields(logrus.Fields{
			"incident_id": ann.IncidentID,
			"point":       ann.PointKey,
			"distance":    ann.DistanceMiles,
		}).Info("Incident announced")
	}

	a.mu.Lock()
	if len(a.points) == 0 {
		a.state = StateIdle
	} else {
		a.state = StateMonitoring
	}
	a.mu.Unlock()
	return announcements
}

// Run subscribes the announcer to a live incident feed and re-evaluates
// on every push until the context is canceled.
func (a *Announcer) Run(ctx context.Context, feed <-chan []models.Incident) {
	log := a.logger.WithField("component", "announcer")
	log.Info("Proximity announcer started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Proximity announcer stopped")
			return
		case incidents, ok := <-feed:
			if !ok {
				log.Info("Incident feed closed, announcer stopping")
				return
			}
			a.Evaluate(ctx, incidents)
		}
	}
}
