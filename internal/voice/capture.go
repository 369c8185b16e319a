package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorKind classifies speech capture failures for the caller.
type ErrorKind string

const (
	ErrNotSupported     ErrorKind = "not_supported"
	ErrNoSpeech         ErrorKind = "no_speech"
	ErrPermissionDenied ErrorKind = "permission_denied"
	ErrOther            ErrorKind = "other"
)

// CaptureError wraps a recognizer failure with its kind. Capture errors
// are surfaced immediately and never retried; the caller must re-invoke.
type CaptureError struct {
	Kind ErrorKind
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech capture failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("speech capture failed (%s)", e.Kind)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// ErrStopped is returned when the user toggles capture off mid-listen.
// It is not part of the error taxonomy: stopping is not a failure.
var ErrStopped = errors.New("speech capture stopped")

// ErrAlreadyListening is returned when Start is called while a capture
// is in flight. Capture is single-shot: one utterance per invocation.
var ErrAlreadyListening = errors.New("speech capture already in progress")

// State is the observable capture state.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateError      State = "error"
)

// Recognizer is the speech-to-text collaborator: a single-shot
// transcription of one utterance in the given language.
type Recognizer interface {
	Listen(ctx context.Context, language string) (string, error)
}

// Capture drives a Recognizer through the idle → listening →
// (processing | error) → idle state machine. One Capture belongs to one
// session; Start blocks until a transcript or an error is available.
type Capture struct {
	rec      Recognizer
	language string
	timeout  time.Duration
	logger   *logrus.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

func NewCapture(rec Recognizer, language string, timeout time.Duration, logger *logrus.Logger) *Capture {
	return &Capture{
		rec:      rec,
		language: language,
		timeout:  timeout,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the current capture state.
func (c *Capture) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start captures one utterance and returns its transcript. On failure the
// returned error is either ErrStopped, ErrAlreadyListening, or a
// *CaptureError. The state always returns to idle before Start returns.
func (c *Capture) Start(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return "", ErrAlreadyListening
	}
	listenCtx, cancel := context.WithTimeout(ctx, c.timeout)
	c.state = StateListening
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.cancel = nil
		c.mu.Unlock()
	}()

	log := c.logger.WithField("component", "voice")
	log.Debug("Listening for speech")

	transcript, err := c.rec.Listen(listenCtx, c.language)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debug("Capture stopped by user")
			return "", ErrStopped
		}
		c.setState(StateError)
		capErr := classify(err)
		log.WithError(capErr).Warn("Speech capture failed")
		return "", capErr
	}

	c.setState(StateProcessing)
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		c.setState(StateError)
		return "", &CaptureError{Kind: ErrNoSpeech}
	}

	log.WithField("length", len(transcript)).Debug("Transcript captured")
	return transcript, nil
}

// Stop cancels an in-flight capture, returning the state machine to idle.
// Calling Stop while idle is a no-op.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Capture) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// classify maps recognizer errors onto the capture taxonomy. Recognizers
// may return a *CaptureError directly to pick their own kind.
func classify(err error) *CaptureError {
	var capErr *CaptureError
	if errors.As(err, &capErr) {
		return capErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CaptureError{Kind: ErrNoSpeech, Err: err}
	}
	return &CaptureError{Kind: ErrOther, Err: err}
}
