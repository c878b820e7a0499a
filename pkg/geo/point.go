package geo

import (
	"math"
	"regexp"
	"strconv"
)

// Default is the location stored for a stop before any coordinate is entered
const Default = "POINT(0 0)"

// pointRegex matches the WKT-style point text: POINT(<lng> <lat>)
var pointRegex = regexp.MustCompile(`^\s*POINT\(\s*([^\s()]+)\s+([^\s()]+)\s*\)\s*$`)

// Encode builds the textual point for a coordinate pair.
// Longitude comes first, matching the backend's PostGIS representation.
func Encode(lat, lng float64) string {
	return "POINT(" + formatCoordinate(lng) + " " + formatCoordinate(lat) + ")"
}

// Decode parses a textual point into its longitude and latitude.
// Text that does not match POINT(<number> <number>) with finite numbers
// decodes to (0, 0) so a half-entered coordinate never corrupts the other axis.
func Decode(text string) (lng, lat float64) {
	lng, lat, ok := parse(text)
	if !ok {
		return 0, 0
	}
	return lng, lat
}

// IsPoint reports whether text is a well-formed point with finite components
func IsPoint(text string) bool {
	_, _, ok := parse(text)
	return ok
}

// IsFinite reports whether v can be stored as a point component
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InRange reports whether lat and lng are valid WGS84 degrees
func InRange(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func parse(text string) (lng, lat float64, ok bool) {
	match := pointRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, 0, false
	}

	lng, err := strconv.ParseFloat(match[1], 64)
	if err != nil || !IsFinite(lng) {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(match[2], 64)
	if err != nil || !IsFinite(lat) {
		return 0, 0, false
	}

	return lng, lat, true
}

// formatCoordinate prints the shortest representation that parses back to v
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
