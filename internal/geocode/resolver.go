package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrLocationUnresolvable means the location phrase could not be turned
// into coordinates and no caller GPS was available to fall back to.
var ErrLocationUnresolvable = errors.New("location unresolvable")

// currentLocationLabel is used when the caller's position cannot be
// reverse-geocoded into a nicer display name.
const currentLocationLabel = "Current Location"

// selfReferentialPhrases are location names that mean "where the caller
// is" rather than a place to geocode.
var selfReferentialPhrases = []string{
	"current location",
	"here",
	"my location",
	"this location",
}

// Resolver turns an extracted location phrase into concrete coordinates.
// Forward-geocode matches below minScore are considered dubious: the
// caller's own GPS is preferred over them, trading precision for fewer
// false-location incidents.
type Resolver struct {
	geocoder Geocoder
	minScore float64
	logger   *logrus.Logger
}

func NewResolver(geocoder Geocoder, minScore float64, logger *logrus.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		minScore: minScore,
		logger:   logger,
	}
}

// Resolve returns coordinates for locationName, or ErrLocationUnresolvable.
// The result is never partial: it either has concrete coordinates and a
// label, or the error is returned.
func (r *Resolver) Resolve(ctx context.Context, locationName string, caller *models.LatLng) (*models.ResolvedLocation, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "resolver",
		"location":  locationName,
	})

	if isSelfReferential(locationName) {
		if caller == nil {
			log.Warn("Self-referential location without caller GPS")
			return nil, ErrLocationUnresolvable
		}
		return r.fromCaller(ctx, *caller, currentLocationLabel), nil
	}

	results, err := r.geocoder.Forward(ctx, locationName, caller)
	if err != nil {
		log.WithError(err).Warn("Forward geocoding failed")
	} else if len(results) > 0 && results[0].Confidence > r.minScore {
		top := results[0]
		log.WithField("confidence", top.Confidence).Debug("Forward geocode accepted")
		return &models.ResolvedLocation{
			Lat:          top.Lat,
			Lng:          top.Lng,
			LocationName: top.DisplayName,
		}, nil
	}

	// No result or a low-confidence match: prefer the caller's GPS when
	// available, keeping the spoken phrase as the label.
	if caller != nil {
		log.Debug("Falling back to caller GPS")
		return r.fromCaller(ctx, *caller, locationName), nil
	}

	log.Warn("Location could not be resolved")
	return nil, ErrLocationUnresolvable
}

// fromCaller pairs the caller's coordinates with a reverse-geocoded
// display name, or defaultLabel when reverse geocoding fails.
func (r *Resolver) fromCaller(ctx context.Context, caller models.LatLng, defaultLabel string) *models.ResolvedLocation {
	label := defaultLabel
	if name, err := r.geocoder.Reverse(ctx, caller.Lat, caller.Lng); err == nil {
		label = name
	} else {
		r.logger.WithError(err).Debug("Reverse geocoding failed, keeping default label")
	}
	return &models.ResolvedLocation{
		Lat:          caller.Lat,
		Lng:          caller.Lng,
		LocationName: label,
	}
}

// isSelfReferential reports whether the phrase means the caller's own
// position. Multi-word phrases match as substrings; "here" only matches
// exactly so that words like "there" do not trigger it.
func isSelfReferential(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.Trim(normalized, ".!?")
	if normalized == "" {
		return false
	}
	for _, phrase := range selfReferentialPhrases {
		if normalized == phrase {
			return true
		}
		if strings.Contains(phrase, " ") && strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
