package types

import (
	"strings"
	"time"

	ierr "github.com/revboard/revboard/internal/errors"
)

// timezoneAbbreviationMap maps the three-letter abbreviations merchants tend
// to configure to IANA identifiers. IANA names pass through untouched.
var timezoneAbbreviationMap = map[string]string{
	"IST": "Asia/Kolkata",

	"EST": "America/New_York",
	"CST": "America/Chicago",
	"PST": "America/Los_Angeles",

	"GMT": "Europe/London",
	"CET": "Europe/Berlin",

	"JST": "Asia/Tokyo",
	"KST": "Asia/Seoul",
	"HKT": "Asia/Hong_Kong",
	"CCT": "Asia/Shanghai", // China Coast Time, avoiding the CST conflict
}

// ResolveTimezone converts a timezone abbreviation to an IANA identifier or
// returns the input unchanged when it is not a known abbreviation
func ResolveTimezone(timezone string) string {
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(timezone)]; exists {
		return ianaName
	}
	return timezone
}

// LoadTimezone resolves and loads a timezone location
func LoadTimezone(timezone string) (*time.Location, error) {
	loc, err := time.LoadLocation(ResolveTimezone(timezone))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Timezone must be a valid IANA identifier").
			WithReportableDetails(map[string]interface{}{
				"timezone": timezone,
			}).
			Mark(ierr.ErrValidation)
	}
	return loc, nil
}

// ValidateTimezone validates a timezone string without loading it for use
func ValidateTimezone(timezone string) error {
	_, err := LoadTimezone(timezone)
	return err
}
