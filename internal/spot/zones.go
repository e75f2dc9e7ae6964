package spot

import "strings"

// DefaultZone is used whenever a request carries a missing or unknown zone.
const DefaultZone = "NO1"

// The five Norwegian day-ahead price zones served by the feed.
var validZones = map[string]bool{
	"NO1": true,
	"NO2": true,
	"NO3": true,
	"NO4": true,
	"NO5": true,
}

// NormalizeZone upper-cases and validates a zone identifier. An unrecognized
// zone falls back to DefaultZone rather than failing the request.
func NormalizeZone(zone string) string {
	zone = strings.ToUpper(strings.TrimSpace(zone))
	if validZones[zone] {
		return zone
	}
	return DefaultZone
}

// Zones lists the recognized zone identifiers.
func Zones() []string {
	return []string{"NO1", "NO2", "NO3", "NO4", "NO5"}
}
