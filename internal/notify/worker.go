package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Worker drains the announcement queue and delivers each event to the
// configured webhook endpoint.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.AnnounceTimeout,
		},
	}
}

// Start runs the delivery loop until the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting announcement delivery worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping announcement delivery worker.")
				return
			default:
				result, err := w.redisClient.BRPop(ctx, 0, announcementQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop announcement event from Redis")
					time.Sleep(w.cfg.AnnounceTimeout)
					continue
				}

				payload := result[1]
				var event AnnouncementEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal announcement event from Redis")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *Worker) deliver(ctx context.Context, event AnnouncementEvent, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"incident_id": event.IncidentID,
		"point_key":   event.PointKey,
	})
	log.Debug("Delivering announcement event...")

	if w.cfg.AnnounceWebhookURL == "" {
		log.Warn("Announcement webhook URL is not configured. Skipping delivery.")
		return
	}

	maxRetries := w.cfg.AnnounceMaxRetries
	delay := w.cfg.AnnounceBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.AnnounceWebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create announcement request. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
			time.Sleep(delay)
			delay *= 2
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		if w.cfg.AnnounceWebhookSecret != "" {
			req.Header.Set("X-Announcement-Signature", signPayload(rawPayload, w.cfg.AnnounceWebhookSecret))
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to deliver announcement. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
			time.Sleep(delay)
			delay *= 2
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Announcement delivered successfully.")
			return
		}
		log.Warnf("Announcement delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, delay, maxRetries-1-i)
		time.Sleep(delay)
		delay *= 2
	}

	log.Errorf("Failed to deliver announcement after %d retries.", maxRetries)
}

func signPayload(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
