package receivables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/shipments"
)

type stubSource struct {
	views []shipments.ViagemView
	err   error
}

func (s *stubSource) ListViews(_ context.Context) ([]shipments.ViagemView, error) {
	return s.views, s.err
}

func (s *stubSource) Get(_ context.Context, id string) (*shipments.ViagemView, error) {
	for _, v := range s.views {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("viagem %s", id)
}

type flakyRepo struct {
	*memoryRepo
	failID string
}

func (f *flakyRepo) Upsert(ctx context.Context, rec Financeiro) error {
	if rec.ID == f.failID {
		return errors.New("write refused")
	}
	return f.memoryRepo.Upsert(ctx, rec)
}

func TestReconcilerRunMirrorsEveryViagem(t *testing.T) {
	source := &stubSource{views: []shipments.ViagemView{
		sampleView("v1"), sampleView("v2"), sampleView("v3"),
	}}
	repo := newMemoryRepo()
	rec := NewReconciler(source, repo, slog.Default())

	require.NoError(t, rec.Run(context.Background()))
	assert.Len(t, repo.records, 3)
	assert.Contains(t, repo.records, "viagem_v2")
}

func TestReconcilerSkipsFailedItems(t *testing.T) {
	source := &stubSource{views: []shipments.ViagemView{
		sampleView("v1"), sampleView("v2"), sampleView("v3"),
	}}
	repo := &flakyRepo{memoryRepo: newMemoryRepo(), failID: "viagem_v2"}
	rec := NewReconciler(source, repo, slog.Default())

	require.NoError(t, rec.Run(context.Background()))
	assert.Len(t, repo.records, 2)
	assert.NotContains(t, repo.records, "viagem_v2")
}

func TestReconcileOne(t *testing.T) {
	source := &stubSource{views: []shipments.ViagemView{sampleView("v9")}}
	repo := newMemoryRepo()
	rec := NewReconciler(source, repo, slog.Default())

	require.NoError(t, rec.ReconcileOne(context.Background(), "v9"))
	assert.Contains(t, repo.records, "viagem_v9")

	assert.Error(t, rec.ReconcileOne(context.Background(), "missing"))
}
