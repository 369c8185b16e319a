package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completerFunc adapts a function to the ChatCompleter interface.
type completerFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f completerFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

func respondWith(content string) completerFunc {
	return func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: content}},
			},
		}, nil
	}
}

func newTestExtractor(c ChatCompleter) *Extractor {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewExtractor(c, "gpt-4o-mini", logger)
}

func TestExtract_Success(t *testing.T) {
	extractor := newTestExtractor(respondWith(`{
		"incident_type": "fire",
		"description": "House fire with heavy smoke",
		"location_name": "Cooper Street",
		"severity": "critical",
		"confidence": 0.92
	}`))

	parsed := extractor.Extract(context.Background(), "there's a house on fire on Cooper Street", nil)

	assert.Equal(t, models.TypeFire, parsed.IncidentType)
	assert.Equal(t, "House fire with heavy smoke", parsed.Description)
	assert.Equal(t, "Cooper Street", parsed.LocationName)
	assert.Equal(t, models.SeverityCritical, parsed.Severity)
	assert.Equal(t, 0.92, parsed.Confidence)
}

func TestExtract_StripsCodeFences(t *testing.T) {
	extractor := newTestExtractor(respondWith("```json\n{\"incident_type\":\"crime\",\"description\":\"Robbery in progress\",\"location_name\":\"5th Avenue\",\"severity\":\"high\",\"confidence\":0.8}\n```"))

	parsed := extractor.Extract(context.Background(), "robbery on 5th avenue", nil)

	assert.Equal(t, models.TypeCrime, parsed.IncidentType)
	assert.Equal(t, 0.8, parsed.Confidence)
}

func TestExtract_CoercesInvalidEnums(t *testing.T) {
	extractor := newTestExtractor(respondWith(`{
		"incident_type": "explosion",
		"description": "Something happened",
		"location_name": "Main Street",
		"severity": "catastrophic",
		"confidence": 1.7
	}`))

	parsed := extractor.Extract(context.Background(), "something happened on main street", nil)

	// Invalid enum values never propagate raw.
	assert.Equal(t, models.TypeOther, parsed.IncidentType)
	assert.Equal(t, models.SeverityMedium, parsed.Severity)
	assert.Equal(t, 1.0, parsed.Confidence)
}

func TestExtract_ConfidenceAsString(t *testing.T) {
	extractor := newTestExtractor(respondWith(`{
		"incident_type": "hazard",
		"description": "Debris on road",
		"location_name": "Route 9",
		"severity": "medium",
		"confidence": "0.65"
	}`))

	parsed := extractor.Extract(context.Background(), "debris on route 9", nil)
	assert.Equal(t, 0.65, parsed.Confidence)
}

func TestExtract_UnparseableConfidenceDefaults(t *testing.T) {
	extractor := newTestExtractor(respondWith(`{
		"incident_type": "hazard",
		"description": "Debris on road",
		"location_name": "Route 9",
		"severity": "medium",
		"confidence": "very sure"
	}`))

	parsed := extractor.Extract(context.Background(), "debris on route 9", nil)
	assert.Equal(t, 0.5, parsed.Confidence)
}

func TestExtract_MissingFieldsFallsBack(t *testing.T) {
	extractor := newTestExtractor(respondWith(`{"incident_type": "fire", "severity": "high"}`))

	parsed := extractor.Extract(context.Background(), "there is smoke everywhere", nil)

	// Fallback classifies by keyword and uses the fixed confidence.
	assert.Equal(t, models.TypeFire, parsed.IncidentType)
	assert.Equal(t, models.SeverityCritical, parsed.Severity)
	assert.Equal(t, 0.5, parsed.Confidence)
}

func TestExtract_MalformedJSONFallsBack(t *testing.T) {
	extractor := newTestExtractor(respondWith(`the incident appears to be a fire`))

	parsed := extractor.Extract(context.Background(), "car crash at the intersection", nil)

	assert.Equal(t, models.TypeAccident, parsed.IncidentType)
	assert.Equal(t, models.SeverityHigh, parsed.Severity)
	assert.Equal(t, 0.5, parsed.Confidence)
}

func TestExtract_NetworkErrorFallsBack(t *testing.T) {
	failing := completerFunc(func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("connection refused")
	})
	extractor := newTestExtractor(failing)

	parsed := extractor.Extract(context.Background(), "A tree is blocking the road on Cooper Street", nil)

	assert.Equal(t, models.TypeHazard, parsed.IncidentType)
	assert.Equal(t, models.SeverityMedium, parsed.Severity)
	assert.Equal(t, 0.5, parsed.Confidence)
	assert.Equal(t, "Cooper Street", parsed.LocationName)
	assert.Contains(t, parsed.Description, "tree")
	assert.Contains(t, parsed.Description, "Cooper Street")
	assert.LessOrEqual(t, len(parsed.Description), 100)
}

func TestExtract_NilClientUsesFallback(t *testing.T) {
	extractor := newTestExtractor(nil)

	parsed := extractor.Extract(context.Background(), "someone got hurt near the park", nil)

	assert.Equal(t, models.TypeMedical, parsed.IncidentType)
	assert.Equal(t, "the park", parsed.LocationName)
}

func TestFallbackParse_Categories(t *testing.T) {
	tests := []struct {
		transcript string
		wantType   models.IncidentType
		wantSev    models.Severity
	}{
		{"smoke coming out of the building", models.TypeFire, models.SeverityCritical},
		{"two cars in a collision", models.TypeAccident, models.SeverityHigh},
		{"a person is injured", models.TypeMedical, models.SeverityHigh},
		{"witnessed a theft", models.TypeCrime, models.SeverityHigh},
		{"pothole in the middle of the lane", models.TypeHazard, models.SeverityMedium},
		{"something strange going on", models.TypeOther, models.SeverityMedium},
	}

	for _, tt := range tests {
		parsed := FallbackParse(tt.transcript)
		assert.Equal(t, tt.wantType, parsed.IncidentType, tt.transcript)
		assert.Equal(t, tt.wantSev, parsed.Severity, tt.transcript)
		assert.Equal(t, 0.5, parsed.Confidence, tt.transcript)
		assert.True(t, models.ValidIncidentType(parsed.IncidentType))
	}
}

func TestFallbackParse_NoLocationPhrase(t *testing.T) {
	parsed := FallbackParse("there is a fire")
	assert.Equal(t, "Current location", parsed.LocationName)
}

func TestFallbackParse_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("fire ", 40)
	parsed := FallbackParse(long)
	require.Equal(t, 100, len([]rune(parsed.Description)))
}

func TestFallbackParse_NeverInvalid(t *testing.T) {
	for _, transcript := range []string{"", "   ", "!!!", "on ", "ajsdkfj aksdjf"} {
		parsed := FallbackParse(transcript)
		assert.True(t, models.ValidIncidentType(parsed.IncidentType))
		assert.True(t, models.ValidSeverity(parsed.Severity))
		assert.GreaterOrEqual(t, parsed.Confidence, 0.0)
		assert.LessOrEqual(t, parsed.Confidence, 1.0)
	}
}
