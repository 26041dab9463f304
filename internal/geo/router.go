package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Router computes road distances through an OSRM-compatible API.
type Router struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewRouter constructs a routing client.
func NewRouter(baseURL string, timeout time.Duration, logger *slog.Logger) *Router {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Router{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("osrm"),
		logger:     logger,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Distance returns the driving distance in kilometres for the exact waypoint
// sequence given. At least two coordinates are required.
func (r *Router) Distance(ctx context.Context, waypoints []Coord) (float64, error) {
	if len(waypoints) < 2 {
		return 0, fmt.Errorf("%w: need at least two waypoints", ErrNoRoute)
	}

	parts := make([]string, len(waypoints))
	for i, c := range waypoints {
		parts[i] = fmt.Sprintf("%f,%f", c.Lon, c.Lat)
	}
	endpoint := fmt.Sprintf("%s/route/v1/driving/%s?overview=false", r.baseURL, strings.Join(parts, ";"))

	var km float64
	err := retryOnce(ctx, 500*time.Millisecond, func() error {
		result, err := r.breaker.Execute(func() (any, error) {
			return r.fetch(ctx, endpoint)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return fmt.Errorf("%w: router circuit open", ErrTransport)
			}
			return err
		}
		km = result.(float64)
		return nil
	})
	return km, err
}

func (r *Router) fetch(ctx context.Context, endpoint string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: router returned status %d", ErrTransport, resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("%w: decode router response: %v", ErrTransport, err)
	}
	if parsed.Code != "" && parsed.Code != "Ok" {
		return 0, fmt.Errorf("%w: router code %s", ErrNoRoute, parsed.Code)
	}
	if len(parsed.Routes) == 0 {
		return 0, ErrNoRoute
	}

	meters := parsed.Routes[0].Distance
	if r.logger != nil {
		r.logger.Debug("routed waypoints", slog.Int("count", len(parsed.Routes)), slog.Float64("meters", meters))
	}
	return meters / 1000.0, nil
}
