package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/announce"
	"github.com/redis/go-redis/v9"
)

const announcementQueueKey = "announcement_events"

// AnnouncementEvent is the payload queued for webhook delivery whenever
// the proximity announcer speaks an alert.
type AnnouncementEvent struct {
	IncidentID    string    `json:"incident_id"`
	PointKey      string    `json:"point_key"`
	Message       string    `json:"message"`
	DistanceMiles float64   `json:"distance_miles"`
	Timestamp     time.Time `json:"timestamp"`
}

// RedisPublisher queues announcements on a Redis list for the delivery
// worker. It satisfies the announcer's Publisher port.
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{redisClient: client}
}

var _ announce.Publisher = (*RedisPublisher)(nil)

// Publish pushes the announcement onto the delivery queue.
func (p *RedisPublisher) Publish(ctx context.Context, a announce.Announcement) error {
	event := AnnouncementEvent{
		IncidentID:    a.IncidentID.String(),
		PointKey:      a.PointKey,
		Message:       a.Message,
		DistanceMiles: a.DistanceMiles,
		Timestamp:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal announcement event: %w", err)
	}
	if err := p.redisClient.LPush(ctx, announcementQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to queue announcement event: %w", err)
	}
	return nil
}
