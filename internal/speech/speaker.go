package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Speaker submits a line of text for spoken playback. Implementations are
// external collaborators: failures are expected and callers treat them as
// non-fatal.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Client speaks through a hosted text-to-speech service. When the service
// is unreachable it drops to the built-in fallback speaker instead of
// failing the announcement.
type Client struct {
	baseURL    string
	voice      string
	httpClient *http.Client
	fallback   Speaker
	logger     *logrus.Logger
}

func NewClient(baseURL, voice string, timeout time.Duration, fallback Speaker, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		voice:      voice,
		httpClient: &http.Client{Timeout: timeout},
		fallback:   fallback,
		logger:     logger,
	}
}

type speakRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
}

func (c *Client) Speak(ctx context.Context, text string) error {
	payload, err := json.Marshal(speakRequest{Input: text, Voice: c.voice})
	if err != nil {
		return fmt.Errorf("failed to marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("TTS provider unreachable, using built-in speech")
		return c.fallback.Speak(ctx, text)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("TTS provider rejected request, using built-in speech")
		return c.fallback.Speak(ctx, text)
	}
	return nil
}

// Builtin is the lower-fidelity fallback speaker used when no TTS provider
// is configured or the provider is down. Announcements still reach the
// session log; only the audio quality differs, so here it just records
// what would have been spoken.
type Builtin struct {
	logger *logrus.Logger
}

func NewBuiltin(logger *logrus.Logger) *Builtin {
	return &Builtin{logger: logger}
}

func (b *Builtin) Speak(_ context.Context, text string) error {
	b.logger.WithField("component", "speech").Info("speak: " + text)
	return nil
}
