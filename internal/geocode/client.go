package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Nominatim's usage policy caps clients at one request per second.
	requestsPerSecond = 1

	// importance is optional in Nominatim responses.
	defaultImportance = 0.5

	kmPerDegreeLat = 111.32
)

// Geocoder is the provider boundary the resolver depends on.
type Geocoder interface {
	// Forward geocodes a free-text query, optionally biased toward the
	// area around center. Results are ordered best-first.
	Forward(ctx context.Context, query string, center *models.LatLng) ([]models.GeocodingResult, error)
	// Reverse returns a display name for the given coordinates.
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// Client talks to a Nominatim instance over HTTP. Requests are throttled
// to the provider's rate limit and carry the configured User-Agent.
type Client struct {
	baseURL    string
	userAgent  string
	biasKM     float64
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient builds a Nominatim client. biasKM controls how far around the
// caller the forward-geocode viewbox extends.
func NewClient(baseURL, userAgent string, biasKM float64, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		biasKM:     biasKM,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second/requestsPerSecond), 1),
		logger:     logger,
	}
}

// nominatimPlace is the wire shape of a single search result. Coordinates
// come back as strings.
type nominatimPlace struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	Importance  *float64 `json:"importance"`
}

// Forward geocodes a free-text query. When center is present the query is
// biased with a viewbox around it so nearby matches are preferred.
func (c *Client) Forward(ctx context.Context, query string, center *models.LatLng) ([]models.GeocodingResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "5")
	if center != nil {
		params.Set("viewbox", c.viewbox(*center))
		params.Set("bounded", "0")
	}

	var places []nominatimPlace
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]models.GeocodingResult, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			continue
		}
		results = append(results, models.GeocodingResult{
			Lat:         lat,
			Lng:         lng,
			DisplayName: p.DisplayName,
			Confidence:  importanceToConfidence(p.Importance),
		})
	}
	return results, nil
}

// Reverse returns the display name for a coordinate pair.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")

	var place struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.get(ctx, "/reverse", params, &place); err != nil {
		return "", err
	}
	if place.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode returned no display name")
	}
	return place.DisplayName, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("geocode rate limiter: %w", err)
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocode response: %w", err)
	}
	return nil
}

// viewbox computes a lon/lat bounding box of ±biasKM around center in the
// left,top,right,bottom order Nominatim expects.
func (c *Client) viewbox(center models.LatLng) string {
	latDelta := c.biasKM / kmPerDegreeLat
	lngDelta := latDelta
	if cos := math.Cos(center.Lat * math.Pi / 180); cos > 0.01 {
		lngDelta = c.biasKM / (kmPerDegreeLat * cos)
	}
	left := center.Lng - lngDelta
	right := center.Lng + lngDelta
	top := center.Lat + latDelta
	bottom := center.Lat - latDelta
	return fmt.Sprintf("%f,%f,%f,%f", left, top, right, bottom)
}

// importanceToConfidence maps the provider's importance score onto [0,1].
func importanceToConfidence(importance *float64) float64 {
	if importance == nil {
		return defaultImportance
	}
	c := *importance
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
