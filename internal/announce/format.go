package announce

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
)

var postalCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

var countryNames = map[string]bool{
	"united states":            true,
	"united states of america": true,
	"usa":                      true,
}

// CleanLocationName trims a full geocoder display name down to something
// worth speaking aloud: postal codes, country and county segments are
// dropped, a trailing state segment is dropped when enough remains, and
// at most the first two segments are kept.
func CleanLocationName(name string) string {
	segments := strings.Split(name, ",")
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if postalCodePattern.MatchString(seg) {
			continue
		}
		if countryNames[strings.ToLower(seg)] {
			continue
		}
		if strings.HasSuffix(seg, " County") {
			continue
		}
		kept = append(kept, seg)
	}

	// The last remaining segment at this point is the state; it is
	// redundant for local announcements when more specific segments exist.
	if len(kept) > 2 {
		kept = kept[:len(kept)-1]
	}
	if len(kept) > 2 {
		kept = kept[:2]
	}
	return strings.Join(kept, ", ")
}

// FormatTimeAgo renders how long ago t was, relative to now.
func FormatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// composeMessage builds the one-line natural-language announcement.
func composeMessage(inc models.Incident, point models.MonitoredPoint, distanceMiles float64, now time.Time) string {
	location := CleanLocationName(inc.LocationName)
	if location == "" {
		location = "an unknown location"
	}
	description := strings.TrimSpace(inc.Description)
	if description != "" && !strings.HasSuffix(description, ".") {
		description += "."
	}
	return fmt.Sprintf("New %s incident near %s: %s %.1f miles from %s, reported %s.",
		inc.IncidentType, location, description, distanceMiles, point.Label, FormatTimeAgo(inc.CreatedAt, now))
}
