package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocoderLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "Campinas, Brasil", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"-22.9056","lon":"-47.0608"}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "Brasil", time.Second, nil)
	coord, err := g.Lookup(context.Background(), "Campinas")
	require.NoError(t, err)
	assert.InDelta(t, -22.9056, coord.Lat, 1e-9)
	assert.InDelta(t, -47.0608, coord.Lon, 1e-9)
}

func TestGeocoderLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "", time.Second, nil)
	_, err := g.Lookup(context.Background(), "Lugar Nenhum")
	require.ErrorIs(t, err, ErrPlaceNotFound)
	assert.Contains(t, err.Error(), "Lugar Nenhum")
}

func TestGeocoderRetriesTransportFailureOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"1.0","lon":"2.0"}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "", time.Second, nil)
	coord, err := g.Lookup(context.Background(), "Sorte")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, Coord{Lon: 2, Lat: 1}, coord)
}

func TestGeocoderDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "", time.Second, nil)
	_, err := g.Lookup(context.Background(), "Nada")
	require.ErrorIs(t, err, ErrPlaceNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRouterDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "false", r.URL.Query().Get("overview"))
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":352700.5}]}`))
	}))
	defer srv.Close()

	router := NewRouter(srv.URL, time.Second, nil)
	km, err := router.Distance(context.Background(), []Coord{{Lon: -46.6, Lat: -23.5}, {Lon: -43.2, Lat: -22.9}})
	require.NoError(t, err)
	assert.InDelta(t, 352.7005, km, 1e-6)
}

func TestRouterNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	router := NewRouter(srv.URL, time.Second, nil)
	_, err := router.Distance(context.Background(), []Coord{{}, {Lon: 1, Lat: 1}})
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestRouterTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	router := NewRouter(srv.URL, time.Second, nil)
	_, err := router.Distance(context.Background(), []Coord{{}, {Lon: 1, Lat: 1}})
	require.ErrorIs(t, err, ErrTransport)
}

func TestRouterRequiresTwoWaypoints(t *testing.T) {
	router := NewRouter("http://127.0.0.1:0", time.Second, nil)
	_, err := router.Distance(context.Background(), []Coord{{}})
	require.ErrorIs(t, err, ErrNoRoute)
}
