package extract

import (
	"regexp"
	"strings"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
)

const (
	maxDescriptionLen = 100
	defaultConfidence = 0.5

	// fallbackLocation is used when no location phrase can be found in
	// the transcript; the resolver treats it as the caller's GPS.
	fallbackLocation = "Current location"
)

// keywordRule maps trigger terms to a category and severity.
type keywordRule struct {
	terms    []string
	category models.IncidentType
	severity models.Severity
}

// Rules are checked in order; the first rule with a matching term wins.
var keywordRules = []keywordRule{
	{terms: []string{"fire", "burning", "smoke"}, category: models.TypeFire, severity: models.SeverityCritical},
	{terms: []string{"accident", "crash", "collision"}, category: models.TypeAccident, severity: models.SeverityHigh},
	{terms: []string{"medical", "injured", "hurt"}, category: models.TypeMedical, severity: models.SeverityHigh},
	{terms: []string{"crime", "robbery", "theft"}, category: models.TypeCrime, severity: models.SeverityHigh},
	{terms: []string{"tree", "debris", "blocking", "pothole", "obstruction"}, category: models.TypeHazard, severity: models.SeverityMedium},
}

// locationPhrasePattern captures street-ish text after "on", "at" or
// "near", stopping at sentence punctuation.
var locationPhrasePattern = regexp.MustCompile(`(?i)\b(?:on|at|near)\s+([^,.!?]+)`)

// FallbackParse is the deterministic keyword extractor used whenever the
// generative model is unreachable or returns something unusable. It always
// yields a bounded, valid ParsedIncident with a fixed 0.5 confidence.
func FallbackParse(transcript string) models.ParsedIncident {
	lower := strings.ToLower(transcript)

	category := models.TypeOther
	severity := models.SeverityMedium
	for _, rule := range keywordRules {
		if containsAny(lower, rule.terms) {
			category = rule.category
			severity = rule.severity
			break
		}
	}

	location := fallbackLocation
	if m := locationPhrasePattern.FindStringSubmatch(transcript); len(m) == 2 {
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			location = phrase
		}
	}

	return models.ParsedIncident{
		IncidentType: category,
		Description:  Truncate(strings.TrimSpace(transcript), maxDescriptionLen),
		LocationName: location,
		Severity:     severity,
		Confidence:   defaultConfidence,
	}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
