package geo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// PlaceResolver resolves one place name to a coordinate.
type PlaceResolver interface {
	Lookup(ctx context.Context, place string) (Coord, error)
}

// DistanceRouter returns the road distance in km for a waypoint sequence.
type DistanceRouter interface {
	Distance(ctx context.Context, waypoints []Coord) (float64, error)
}

// Sequencer orders delivery cities by proximity to an origin and prices the
// resulting closed loop with a real road distance.
type Sequencer struct {
	geocoder PlaceResolver
	router   DistanceRouter
	logger   *slog.Logger
}

// NewSequencer constructs a sequencer.
func NewSequencer(geocoder PlaceResolver, router DistanceRouter, logger *slog.Logger) *Sequencer {
	return &Sequencer{geocoder: geocoder, router: router, logger: logger}
}

// RoutePlan is the result of sequencing a set of delivery cities.
type RoutePlan struct {
	Origin     string   `json:"origem"`
	Cities     []string `json:"cidadesOrdenadas"`
	DistanceKm float64  `json:"distanciaKm"`
}

// Plan geocodes the origin and every destination in parallel, orders the
// destinations nearest-first by great-circle distance (stable, so ties keep
// input order) and asks the router for the distance of the round trip
// origin -> destinations -> origin. Any lookup failure aborts the whole
// operation; no partial plan is returned.
func (s *Sequencer) Plan(ctx context.Context, origin string, destinations []string) (*RoutePlan, error) {
	if strings.TrimSpace(origin) == "" {
		return nil, fmt.Errorf("%w: origin required", ErrPlaceNotFound)
	}
	if len(destinations) == 0 {
		return nil, fmt.Errorf("%w: at least one destination required", ErrPlaceNotFound)
	}

	places := append([]string{origin}, destinations...)
	coords := make([]Coord, len(places))
	lookupErrs := make([]error, len(places))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, place := range places {
		g.Go(func() error {
			c, err := s.geocoder.Lookup(gctx, place)
			if err != nil {
				lookupErrs[i] = err
				return nil
			}
			coords[i] = c
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	var cause error
	for i, err := range lookupErrs {
		if err != nil {
			failed = append(failed, places[i])
			if cause == nil {
				cause = err
			}
		}
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("could not resolve city names (%s): %w", strings.Join(failed, ", "), cause)
	}

	originCoord := coords[0]
	type leg struct {
		city  string
		coord Coord
		km    float64
	}
	legs := make([]leg, len(destinations))
	for i, city := range destinations {
		legs[i] = leg{city: city, coord: coords[i+1], km: Haversine(originCoord, coords[i+1])}
	}
	sort.SliceStable(legs, func(a, b int) bool { return legs[a].km < legs[b].km })

	waypoints := make([]Coord, 0, len(legs)+2)
	waypoints = append(waypoints, originCoord)
	ordered := make([]string, len(legs))
	for i, l := range legs {
		ordered[i] = l.city
		waypoints = append(waypoints, l.coord)
	}
	waypoints = append(waypoints, originCoord)

	distance, err := s.router.Distance(ctx, waypoints)
	if err != nil {
		return nil, fmt.Errorf("route distance: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("route planned",
			slog.String("origin", origin),
			slog.Int("cities", len(ordered)),
			slog.Float64("km", distance),
		)
	}
	return &RoutePlan{Origin: origin, Cities: ordered, DistanceKm: distance}, nil
}
