// Package geo holds the coordinate handling shared by the geocoding and routing
// paths: recognising "lat,lon" input, parsing it and rendering the lon,lat form
// routing backends expect.
package geo

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/route-planner/internal/apperror"
)

var coordinatePattern = regexp.MustCompile(`^-?\d+\.?\d*,-?\d+\.?\d*$`)

// Coordinate is a latitude/longitude pair. Ranges are not enforced; the routing
// backend decides whether a point is usable.
type Coordinate struct {
	Latitude  float64 `json:"lat" bson:"lat"`
	Longitude float64 `json:"lon" bson:"lon"`
}

// IsCoordinate reports whether input, once trimmed, has the "lat,lon" shape.
// It is a syntactic check only.
func IsCoordinate(input string) bool {
	return coordinatePattern.MatchString(strings.TrimSpace(input))
}

// ParseCoordinate parses "lat,lon" into a Coordinate.
func ParseCoordinate(input string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(input), ",")
	if len(parts) != 2 {
		return Coordinate{}, apperror.New(apperror.InvalidCoordinateFormat, "invalid coordinate format: "+input)
	}

	lat, err := parseFinite(parts[0])
	if err != nil {
		return Coordinate{}, apperror.Wrap(apperror.InvalidCoordinateFormat, err, "invalid coordinate format: "+input)
	}
	lon, err := parseFinite(parts[1])
	if err != nil {
		return Coordinate{}, apperror.Wrap(apperror.InvalidCoordinateFormat, err, "invalid coordinate format: "+input)
	}

	return Coordinate{Latitude: lat, Longitude: lon}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// LonLat renders the coordinate as "lon,lat" using the shortest decimal form
// of each value, so 40.0 becomes "40".
func (c Coordinate) LonLat() string {
	return FormatFloat(c.Longitude) + "," + FormatFloat(c.Latitude)
}

// FormatFloat renders v in its shortest round-tripping decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
