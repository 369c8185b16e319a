package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// ChatCompleter is the slice of the OpenAI client the extractor needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor turns a voice transcript into a ParsedIncident. The model call
// is best-effort: any failure (network, malformed JSON, missing fields)
// drops to the deterministic keyword fallback, so Extract never fails and
// never returns an out-of-range value.
type Extractor struct {
	client ChatCompleter
	model  string
	logger *logrus.Logger
}

// NewExtractor builds an extractor. A nil client is allowed and puts the
// extractor into fallback-only mode.
func NewExtractor(client ChatCompleter, model string, logger *logrus.Logger) *Extractor {
	return &Extractor{
		client: client,
		model:  model,
		logger: logger,
	}
}

// rawExtraction is the loosely-typed intermediate the model response is
// parsed into. Nothing downstream sees this shape: it is validated and
// coerced into models.ParsedIncident before leaving the package.
type rawExtraction struct {
	IncidentType string `json:"incident_type"`
	Description  string `json:"description"`
	LocationName string `json:"location_name"`
	Severity     string `json:"severity"`
	Confidence   any    `json:"confidence"`
}

// Extract parses the transcript into a structured incident. callerLocation
// is optional context that helps the model interpret vague phrasing.
func (e *Extractor) Extract(ctx context.Context, transcript string, callerLocation *models.LatLng) models.ParsedIncident {
	log := e.logger.WithFields(logrus.Fields{
		"component": "extractor",
		"method":    "Extract",
	})

	if e.client == nil {
		log.Debug("No AI client configured, using keyword fallback")
		return FallbackParse(transcript)
	}

	parsed, err := e.extractWithModel(ctx, transcript, callerLocation)
	if err != nil {
		log.WithError(err).Warn("AI extraction failed, using keyword fallback")
		return FallbackParse(transcript)
	}
	return parsed
}

func (e *Extractor) extractWithModel(ctx context.Context, transcript string, callerLocation *models.LatLng) (models.ParsedIncident, error) {
	var parsed models.ParsedIncident

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract structured incident reports from citizen voice transcripts. Respond with a single JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(transcript, callerLocation),
			},
		},
		MaxTokens:   200,
		N:           1,
		Temperature: 0.2,
	})
	if err != nil {
		return parsed, fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return parsed, fmt.Errorf("openai returned empty response or choices")
	}

	body := stripResponseWrapper(resp.Choices[0].Message.Content)

	var raw rawExtraction
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return parsed, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	// incident_type, description and location_name must all be present,
	// otherwise the response is treated as an extraction failure.
	if raw.IncidentType == "" || raw.Description == "" || raw.LocationName == "" {
		return parsed, fmt.Errorf("extraction response missing required fields")
	}

	return coerce(raw), nil
}

func buildPrompt(transcript string, callerLocation *models.LatLng) string {
	var b strings.Builder
	b.WriteString("Extract the incident described in the transcript below into JSON with exactly these fields:\n")
	b.WriteString(`- "incident_type": one of "crime", "accident", "fire", "medical", "hazard", "other"` + "\n")
	b.WriteString(`- "description": short summary, 100 characters or fewer` + "\n")
	b.WriteString(`- "location_name": the place mentioned, or "Current location" if the speaker means where they are` + "\n")
	b.WriteString(`- "severity": one of "low", "medium", "high", "critical"` + "\n")
	b.WriteString(`- "confidence": number between 0 and 1. Use >=0.9 when the report is very clear, 0.7-0.89 when type and location are clear, 0.5-0.69 when the report is vague, below 0.5 when unclear.` + "\n")
	if callerLocation != nil {
		fmt.Fprintf(&b, "\nThe caller's GPS position is lat %.5f, lng %.5f.\n", callerLocation.Lat, callerLocation.Lng)
	}
	fmt.Fprintf(&b, "\nTranscript:\n%s\n", transcript)
	return b.String()
}

// stripResponseWrapper removes markdown code fences the model sometimes
// wraps its JSON in, then trims to the outermost braces.
func stripResponseWrapper(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// coerce converts the loosely-typed model output into a strict
// ParsedIncident: unknown enum values get defaults, confidence is clamped.
func coerce(raw rawExtraction) models.ParsedIncident {
	incidentType := models.IncidentType(strings.ToLower(strings.TrimSpace(raw.IncidentType)))
	if !models.ValidIncidentType(incidentType) {
		incidentType = models.TypeOther
	}

	severity := models.Severity(strings.ToLower(strings.TrimSpace(raw.Severity)))
	if !models.ValidSeverity(severity) {
		severity = models.SeverityMedium
	}

	return models.ParsedIncident{
		IncidentType: incidentType,
		Description:  Truncate(strings.TrimSpace(raw.Description), maxDescriptionLen),
		LocationName: strings.TrimSpace(raw.LocationName),
		Severity:     severity,
		Confidence:   coerceConfidence(raw.Confidence),
	}
}

func coerceConfidence(v any) float64 {
	var c float64
	switch t := v.(type) {
	case float64:
		c = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return defaultConfidence
		}
		c = parsed
	default:
		return defaultConfidence
	}
	return clamp01(c)
}

func clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
