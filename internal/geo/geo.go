// Package geo resolves place names to coordinates and road distances using
// Nominatim-compatible geocoding and OSRM-compatible routing services.
package geo

import "errors"

// Sentinel errors distinguish "city does not exist" from "service unreachable"
// so callers can surface the right message without retrying a hopeless lookup.
var (
	ErrPlaceNotFound = errors.New("geo: place not found")
	ErrNoRoute       = errors.New("geo: no route found")
	ErrTransport     = errors.New("geo: transport failure")
)

// Coord is a geographic coordinate pair.
type Coord struct {
	Lon float64
	Lat float64
}
