package sensors

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// timestampLayout matches the cloud API's timestamp strings once the zone
// marker and fractional seconds have been removed, e.g.
// "2024-06-14T03:40:39.667544824Z" -> "2024-06-14T03:40:39".
const timestampLayout = "2006-01-02T15:04:05"

// ParseTimestamp converts a raw API timestamp string into a UTC time.
// The trailing "Z" is stripped and anything after the first "." is
// discarded; the remaining prefix must match timestampLayout exactly.
// Malformed input yields ok=false and a diagnostic, never an error.
func ParseTimestamp(raw string, logger *logrus.Logger) (time.Time, bool) {
	stripped := strings.TrimSuffix(raw, "Z")
	if i := strings.Index(stripped, "."); i >= 0 {
		stripped = stripped[:i]
	}

	t, err := time.ParseInLocation(timestampLayout, stripped, time.UTC)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"raw": raw,
		}).WithError(err).Debug("Failed to parse timestamp")
		return time.Time{}, false
	}
	return t, true
}

// unitByCode maps the API's unit codes (uppercased) to Home Assistant unit
// strings.
var unitByCode = map[string]string{
	"C":   "°C",
	"F":   "°F",
	"%RH": "%",
	"HPA": "Pa",
	"PPB": "ppb",
	"PPM": "ppm",
	"V":   "V",
}

// TranslateUnit maps a measurement unit code to its display unit. Codes are
// matched case-insensitively; unknown codes yield ok=false.
func TranslateUnit(code string) (string, bool) {
	unit, ok := unitByCode[strings.ToUpper(code)]
	return unit, ok
}
