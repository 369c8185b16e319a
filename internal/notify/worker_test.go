package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(cfg *config.Config) *Worker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewWorker(nil, logger, cfg)
}

func TestDeliver_SignsAndPosts(t *testing.T) {
	var gotBody []byte
	var gotSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Announcement-Signature")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		AnnounceWebhookURL:    server.URL,
		AnnounceWebhookSecret: "secret",
		AnnounceTimeout:       2 * time.Second,
		AnnounceMaxRetries:    3,
		AnnounceBaseDelay:     time.Millisecond,
	}
	worker := newTestWorker(cfg)

	payload := `{"incident_id":"abc","message":"hello"}`
	worker.deliver(context.Background(), AnnouncementEvent{IncidentID: "abc"}, payload)

	require.Equal(t, payload, string(gotBody))

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(payload))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)
}

func TestDeliver_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		AnnounceWebhookURL: server.URL,
		AnnounceTimeout:    2 * time.Second,
		AnnounceMaxRetries: 3,
		AnnounceBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	worker.deliver(context.Background(), AnnouncementEvent{}, `{}`)

	assert.Equal(t, int32(3), calls.Load())
}

func TestDeliver_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{
		AnnounceWebhookURL: server.URL,
		AnnounceTimeout:    2 * time.Second,
		AnnounceMaxRetries: 2,
		AnnounceBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	worker.deliver(context.Background(), AnnouncementEvent{}, `{}`)

	assert.Equal(t, int32(2), calls.Load())
}

func TestDeliver_BacksOffWhenRequestCannotBeBuilt(t *testing.T) {
	cfg := &config.Config{
		AnnounceWebhookURL: "http://bad\x7furl",
		AnnounceTimeout:    time.Second,
		AnnounceMaxRetries: 3,
		AnnounceBaseDelay:  5 * time.Millisecond,
	}
	worker := newTestWorker(cfg)

	start := time.Now()
	worker.deliver(context.Background(), AnnouncementEvent{}, `{}`)

	// Every failed attempt sleeps before the next: 5ms + 10ms + 20ms.
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestDeliver_NoURLConfiguredSkips(t *testing.T) {
	cfg := &config.Config{
		AnnounceTimeout:    time.Second,
		AnnounceMaxRetries: 3,
		AnnounceBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	// Must return without attempting any network call.
	worker.deliver(context.Background(), AnnouncementEvent{}, `{}`)
}
