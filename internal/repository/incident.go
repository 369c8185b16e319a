package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	incidentCacheTTL     = 5 * time.Minute
	incidentEventChannel = "incident_events"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) *IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

var _ service.IncidentRepository = (*IncidentRepository)(nil)
var _ service.EventPublisher = (*IncidentRepository)(nil)

const incidentColumns = `
	id,
	user_id,
	incident_type,
	description,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	location_name,
	status,
	reporter_name,
	created_at,
	updated_at
`

// Create inserts a new incident row.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (user_id, incident_type, description, location, location_name, status, reporter_name)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.IncidentType,
		incident.Description,
		incident.Longitude,
		incident.Latitude,
		incident.LocationName,
		incident.Status,
		incident.ReporterName,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID returns an incident by its UUID.
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.UserID,
		&incident.IncidentType,
		&incident.Description,
		&incident.Latitude,
		&incident.Longitude,
		&incident.LocationName,
		&incident.Status,
		&incident.ReporterName,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// UpdateStatus moves an incident through its lifecycle. Officer action is
// the only path that mutates a persisted incident.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) error {
	query := `
		UPDATE incidents SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for status update", id)
	}
	return nil
}

// Delete removes an incident row. Owner-only housekeeping.
func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for delete", id)
	}
	return nil
}

// ListIncidents returns incidents ordered by recency with pagination.
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// ListRecentActive returns the newest non-resolved incidents; this is the
// snapshot the proximity announcer evaluates against.
func (r *IncidentRepository) ListRecentActive(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		WHERE status != 'resolved'
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent active incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// FindActiveWithin finds active incidents within radiusMeters of a point.
func (r *IncidentRepository) FindActiveWithin(ctx context.Context, lat, lng, radiusMeters float64) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			status = 'active'
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			);
	`
	rows, err := r.db.Query(ctx, query, lng, lat, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to find active incidents within radius: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.UserID,
			&incident.IncidentType,
			&incident.Description,
			&incident.Latitude,
			&incident.Longitude,
			&incident.LocationName,
			&incident.Status,
			&incident.ReporterName,
			&incident.CreatedAt,
			&incident.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during incident iteration: %w", err)
	}
	return incidents, nil
}

// SaveLocationCheck records a proximity lookup.
func (r *IncidentRepository) SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error {
	query := `
		INSERT INTO location_checks (user_id, location, in_danger)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4) RETURNING id, checked_at;
	`
	err := r.db.QueryRow(ctx, query,
		check.UserID,
		check.Longitude,
		check.Latitude,
		check.InDanger,
	).Scan(&check.ID, &check.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to save location check: %w", err)
	}
	return nil
}

// GetLocationCheckStats returns the number of distinct users that checked
// their location within the last N minutes.
func (r *IncidentRepository) GetLocationCheckStats(ctx context.Context, minutes int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM location_checks
		WHERE checked_at >= NOW() - ($1 * INTERVAL '1 minute');
	`
	var count int
	err := r.db.QueryRow(ctx, query, minutes).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get location check stats: %w", err)
	}
	return count, nil
}

// GetIncidentFromCache tries to read an incident from Redis.
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache stores an incident in Redis.
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache removes an incident from the Redis cache.
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

// PublishIncidentEvent pushes a change event onto the live feed channel.
func (r *IncidentRepository) PublishIncidentEvent(ctx context.Context, event models.IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}
	if err := r.redisClient.Publish(ctx, incidentEventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event: %w", err)
	}
	return nil
}

// SubscribeIncidentEvents subscribes to the live feed. The returned
// channel closes when the context is canceled.
func (r *IncidentRepository) SubscribeIncidentEvents(ctx context.Context) <-chan models.IncidentEvent {
	sub := r.redisClient.Subscribe(ctx, incidentEventChannel)
	out := make(chan models.IncidentEvent)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.IncidentEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
