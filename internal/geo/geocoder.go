package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// Geocoder resolves free-text place names through a Nominatim-compatible API.
type Geocoder struct {
	baseURL     string
	countryHint string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	logger      *slog.Logger
}

// NewGeocoder constructs a geocoder client.
func NewGeocoder(baseURL, countryHint string, timeout time.Duration, logger *slog.Logger) *Geocoder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		baseURL:     baseURL,
		countryHint: countryHint,
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     newBreaker("nominatim"),
		logger:      logger,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup returns the best-guess coordinate for a place name.
// Returns ErrPlaceNotFound when the lookup yields zero results and
// ErrTransport on network or non-2xx failures.
func (g *Geocoder) Lookup(ctx context.Context, place string) (Coord, error) {
	query := place
	if g.countryHint != "" {
		query = place + ", " + g.countryHint
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	endpoint := g.baseURL + "?" + params.Encode()

	var coord Coord
	err := retryOnce(ctx, 500*time.Millisecond, func() error {
		result, err := g.breaker.Execute(func() (any, error) {
			return g.fetch(ctx, endpoint, place)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return fmt.Errorf("%w: geocoder circuit open", ErrTransport)
			}
			return err
		}
		coord = result.(Coord)
		return nil
	})
	return coord, err
}

func (g *Geocoder) fetch(ctx context.Context, endpoint, place string) (Coord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", "rotacarga/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Coord{}, fmt.Errorf("%w: geocoder returned status %d", ErrTransport, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coord{}, fmt.Errorf("%w: decode geocoder response: %v", ErrTransport, err)
	}
	if len(results) == 0 {
		return Coord{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: bad latitude %q", ErrTransport, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: bad longitude %q", ErrTransport, results[0].Lon)
	}

	if g.logger != nil {
		g.logger.Debug("geocoded place", slog.String("place", place), slog.Float64("lat", lat), slog.Float64("lon", lon))
	}
	return Coord{Lon: lon, Lat: lat}, nil
}
