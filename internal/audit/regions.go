// Package audit cross-validates a location's declared region against two
// independent signals (city-name convention and physical coordinates) and
// repairs records corrupted by an earlier city-consolidation migration.
package audit

import (
	"strings"

	"github.com/mel-koku/koku-locations/internal/location"
)

// Bounds is a lat/lng rectangle approximating a region's extent.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the point falls inside the rectangle.
func (b Bounds) Contains(c location.Coordinates) bool {
	return c.Lat <= b.North && c.Lat >= b.South && c.Lng <= b.East && c.Lng >= b.West
}

// RegionOrder is the fixed iteration order for coordinate classification.
// The rectangles are not disjoint (Chubu/Kansai and Kyushu/Okinawa edges
// overlap), so a point in two boxes resolves to the first match; this is an
// approximation, not an exclusive classification.
var RegionOrder = []string{
	"Hokkaido",
	"Tohoku",
	"Kanto",
	"Chubu",
	"Kansai",
	"Chugoku",
	"Shikoku",
	"Kyushu",
	"Okinawa",
}

var regionBounds = map[string]Bounds{
	"Hokkaido": {North: 45.7, South: 41.3, East: 146.0, West: 139.3},
	"Tohoku":   {North: 41.6, South: 36.7, East: 142.1, West: 139.0},
	"Kanto":    {North: 37.0, South: 34.8, East: 140.9, West: 138.4},
	"Chubu":    {North: 38.6, South: 34.5, East: 139.5, West: 135.8},
	"Kansai":   {North: 35.8, South: 33.4, East: 136.6, West: 134.2},
	"Chugoku":  {North: 35.7, South: 33.7, East: 134.5, West: 130.8},
	"Shikoku":  {North: 34.6, South: 32.7, East: 134.8, West: 132.0},
	"Kyushu":   {North: 34.0, South: 30.9, East: 132.2, West: 128.4},
	"Okinawa":  {North: 27.9, South: 24.0, East: 131.5, West: 122.9},
}

// KnownRegion reports whether name is one of the nine regions.
func KnownRegion(name string) bool {
	_, ok := regionBounds[name]
	return ok
}

// RegionForPoint returns the first region in RegionOrder whose bounding box
// contains the point, or "" when no box does (open ocean, bad data).
func RegionForPoint(c location.Coordinates) string {
	for _, name := range RegionOrder {
		if regionBounds[name].Contains(c) {
			return name
		}
	}
	return ""
}

// expectedRegionByCity maps well-known city names (lowercased) to the single
// region they belong to. The table is deliberately limited to cities that are
// unambiguous in this corpus; it exists to catch the consolidation bug where
// a city was overwritten with a same-named ward elsewhere (Miyakojima in
// Okinawa vs the Osaka ward of the same name).
var expectedRegionByCity = map[string]string{
	"sapporo":    "Hokkaido",
	"hakodate":   "Hokkaido",
	"otaru":      "Hokkaido",
	"sendai":     "Tohoku",
	"aomori":     "Tohoku",
	"morioka":    "Tohoku",
	"tokyo":      "Kanto",
	"yokohama":   "Kanto",
	"kamakura":   "Kanto",
	"nikko":      "Kanto",
	"nagoya":     "Chubu",
	"kanazawa":   "Chubu",
	"takayama":   "Chubu",
	"matsumoto":  "Chubu",
	"osaka":      "Kansai",
	"kyoto":      "Kansai",
	"nara":       "Kansai",
	"kobe":       "Kansai",
	"himeji":     "Kansai",
	"hiroshima":  "Chugoku",
	"okayama":    "Chugoku",
	"matsue":     "Chugoku",
	"takamatsu":  "Shikoku",
	"matsuyama":  "Shikoku",
	"kochi":      "Shikoku",
	"fukuoka":    "Kyushu",
	"nagasaki":   "Kyushu",
	"kumamoto":   "Kyushu",
	"kagoshima":  "Kyushu",
	"beppu":      "Kyushu",
	"naha":       "Okinawa",
	"miyakojima": "Okinawa",
	"ishigaki":   "Okinawa",
	"urasoe":     "Okinawa",
	"ginowan":    "Okinawa",
	"uruma":      "Okinawa",
	"nago":       "Okinawa",
}

// ExpectedRegion returns the expected region for a city name, when known.
func ExpectedRegion(city string) (string, bool) {
	region, ok := expectedRegionByCity[strings.ToLower(strings.TrimSpace(city))]
	return region, ok
}
