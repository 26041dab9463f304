package shipments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, repo *memoryRepo) *httptest.Server {
	t.Helper()
	handler := NewHandler(slog.Default(), NewService(repo, nil, slog.Default()))
	router := chi.NewRouter()
	router.Route("/viagens", handler.MountRoutes)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestExportCSVCarriesWholeSet(t *testing.T) {
	repo := newMemoryRepo()
	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Create(context.Background(), Viagem{
			ID:       fmt.Sprintf("v%02d", i),
			NumeroNF: fmt.Sprintf("%d", 4000+i),
			Status:   StatusPendente,
		}))
	}
	srv := newTestServer(t, repo)

	resp, err := http.Get(srv.URL + "/viagens/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 61, "header plus every viagem")

	// The paginated listing keeps its default page size.
	views, total, err := NewService(repo, nil, slog.Default()).List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 60, total)
	assert.Len(t, views, 50)
}

func TestExportCSVHonorsStatusFilter(t *testing.T) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), Viagem{ID: "v1", NumeroNF: "100", Status: StatusPendente}))
	require.NoError(t, repo.Create(context.Background(), Viagem{ID: "v2", NumeroNF: "200", Status: StatusEntregue}))
	srv := newTestServer(t, repo)

	resp, err := http.Get(srv.URL + "/viagens/export?status=Entregue")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, "200")
	assert.NotContains(t, out, "100")
}
