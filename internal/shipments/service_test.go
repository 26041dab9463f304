package shipments

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/identity"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

type memoryRepo struct {
	viagens map[string]Viagem
	order   []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{viagens: make(map[string]Viagem)}
}

func (r *memoryRepo) Create(ctx context.Context, v Viagem) error {
	r.viagens[v.ID] = v
	r.order = append(r.order, v.ID)
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, v Viagem) error {
	if _, ok := r.viagens[v.ID]; !ok {
		return httpx.ErrNotFound
	}
	r.viagens[v.ID] = v
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.viagens[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.viagens, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (*Viagem, error) {
	v, ok := r.viagens[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &v, nil
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Viagem, int, error) {
	all, _ := r.ListAll(ctx)
	return all, len(all), nil
}

func (r *memoryRepo) ListAll(ctx context.Context) ([]Viagem, error) {
	result := make([]Viagem, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.viagens[id])
	}
	return result, nil
}

func (r *memoryRepo) FindByDocRef(ctx context.Context, ref string) (*Viagem, error) {
	for _, id := range r.order {
		v := r.viagens[id]
		for _, field := range []string{v.NumeroNF, v.NumeroCTe, v.ChaveID} {
			if field != "" && normalizeKey(field) == ref {
				return &v, nil
			}
		}
	}
	return nil, httpx.ErrNotFound
}

type recordingNotifier struct {
	changed []string
}

func (n *recordingNotifier) ShipmentChanged(ctx context.Context, id string) {
	n.changed = append(n.changed, id)
}

func TestCreateStampsIDAndOwner(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)

	ctx := identity.ContextWithPrincipal(context.Background(), identity.Principal{ID: "user-1"})
	created, err := svc.Create(ctx, Viagem{Contratante: "ACME"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.CriadoPor)
	assert.Equal(t, StatusPendente, created.Status)
	assert.Equal(t, []string{created.ID}, notifier.changed)
}

func TestCreateRejectsFracionadaWithoutCTe(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), Viagem{TipoCarga: TipoFracionada})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Viagem{
		TipoCarga: TipoFracionada,
		NumeroCTe: "123",
		DataCTe:   "2025-01-10",
	})
	require.NoError(t, err)
}

func TestCreateRejectsBoletoWithoutDueDate(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	_, err := svc.Create(context.Background(), Viagem{
		MetodoPagamento: PagamentoBoleto,
		NumeroBoleto:    "555",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDedicadaNeverRequiresCTe(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	_, err := svc.Create(context.Background(), Viagem{TipoCarga: TipoDedicada})
	require.NoError(t, err)
}

func TestUpdatePersistsRawStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	a, err := svc.Create(context.Background(), Viagem{NumeroCarga: "4", Status: StatusPendente})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Viagem{NumeroCarga: "4", Status: StatusEmRota})
	require.NoError(t, err)

	// The group derives Em rota, but the stored leg status stays Pendente.
	view, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusEmRota, view.StatusCarga)
	assert.Equal(t, StatusPendente, view.Status)
	assert.Equal(t, StatusPendente, repo.viagens[a.ID].Status)
}

func TestListFiltersByDerivedStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), Viagem{NumeroCarga: "1", Status: StatusPendente})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Viagem{NumeroCarga: "1", Status: StatusEntregue})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Viagem{NumeroCarga: "2", Status: StatusEntregue})
	require.NoError(t, err)

	// cargo 1 derives Em rota (mixed), cargo 2 derives Entregue
	emRota, total, err := svc.List(context.Background(), ListQuery{Status: StatusEmRota})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, emRota, 2)

	entregue, _, err := svc.List(context.Background(), ListQuery{Status: StatusEntregue})
	require.NoError(t, err)
	require.Len(t, entregue, 1)
	assert.Equal(t, "2", entregue[0].NumeroCarga)
}

func TestListPagination(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	for range 5 {
		_, err := svc.Create(context.Background(), Viagem{})
		require.NoError(t, err)
	}

	page1, total, err := svc.List(context.Background(), ListQuery{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := svc.List(context.Background(), ListQuery{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestDeleteNotifies(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)

	created, err := svc.Create(context.Background(), Viagem{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID, created.ID}, notifier.changed)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), httpx.ErrNotFound)
}

func TestCargasOrderedByFirstAppearance(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	for _, carga := range []string{"20", "10", "20"} {
		_, err := svc.Create(context.Background(), Viagem{NumeroCarga: carga})
		require.NoError(t, err)
	}

	groups, err := svc.Cargas(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	keys := []string{groups[0].NumeroCarga, groups[1].NumeroCarga}
	assert.Equal(t, []string{"20", "10"}, keys)
	assert.False(t, sort.StringsAreSorted(keys))
}

func TestFindByDocRefNormalizesReference(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), Viagem{
		NumeroNF:    "NF-555",
		NumeroCTe:   "CTE 001",
		TipoCarga:   TipoFracionada,
		DataCTe:     "2025-02-01",
		Contratante: "Atacado Norte",
	})
	require.NoError(t, err)

	view, err := svc.FindByDocRef(context.Background(), "  cte 001  ")
	require.NoError(t, err)
	assert.Equal(t, "Atacado Norte", view.Contratante)

	_, err = svc.FindByDocRef(context.Background(), "nada")
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.FindByDocRef(context.Background(), "   ")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
