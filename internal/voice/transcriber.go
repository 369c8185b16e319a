package voice

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, language string) (string, error)

func (f RecognizerFunc) Listen(ctx context.Context, language string) (string, error) {
	return f(ctx, language)
}

// AudioClient is the speech-to-text transport, satisfied by the OpenAI
// client's audio API.
type AudioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Transcriber sends uploaded audio through Whisper and returns the
// transcript. A nil client means transcription is not available.
type Transcriber struct {
	client AudioClient
	logger *logrus.Logger
}

func NewTranscriber(client AudioClient, logger *logrus.Logger) *Transcriber {
	return &Transcriber{
		client: client,
		logger: logger,
	}
}

// Available reports whether a speech-to-text backend is configured.
func (t *Transcriber) Available() bool {
	return t.client != nil
}

// Transcribe converts one uploaded utterance to text. The language tag is
// BCP 47 ("en-US"); Whisper takes the bare ISO 639-1 code.
func (t *Transcriber) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (string, error) {
	if t.client == nil {
		return "", &CaptureError{Kind: ErrNotSupported}
	}

	if len(language) > 2 {
		language = language[:2]
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
		Language: language,
	})
	if err != nil {
		t.logger.WithError(err).Warn("Audio transcription failed")
		return "", err
	}

	return resp.Text, nil
}

// Recognizer binds one uploaded utterance into a single-shot
// Recognizer, so audio intake runs through the capture state machine.
func (t *Transcriber) Recognizer(filename string, audio io.Reader) Recognizer {
	return RecognizerFunc(func(ctx context.Context, language string) (string, error) {
		return t.Transcribe(ctx, filename, audio, language)
	})
}
