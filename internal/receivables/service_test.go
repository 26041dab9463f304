package receivables

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// memoryRepo mirrors the merge semantics of the SQL upsert: the key makes it
// idempotent and a non-Pendente status set by a person is kept.
type memoryRepo struct {
	records map[string]Financeiro
	order   []string
	writes  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]Financeiro)}
}

func (m *memoryRepo) Upsert(_ context.Context, f Financeiro) error {
	current, ok := m.records[f.ID]
	if !ok {
		m.records[f.ID] = f
		m.order = append(m.order, f.ID)
		m.writes++
		return nil
	}
	merged := f
	if current.StatusFinanceiro != StatusPendente && f.StatusFinanceiro == StatusPendente {
		merged.StatusFinanceiro = current.StatusFinanceiro
	}
	merged.DataPagamento = current.DataPagamento
	merged.Observacao = current.Observacao
	if merged == current {
		return nil
	}
	m.records[f.ID] = merged
	m.writes++
	return nil
}

func (m *memoryRepo) SetStatus(_ context.Context, id string, status StatusFinanceiro, dataPagamento string) error {
	f, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
	}
	f.StatusFinanceiro = status
	f.DataPagamento = dataPagamento
	m.records[id] = f
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (*Financeiro, error) {
	f, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
	}
	return &f, nil
}

func (m *memoryRepo) List(_ context.Context) ([]Financeiro, error) {
	result := make([]Financeiro, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.records[id])
	}
	return result, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
	}
	delete(m.records, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func sampleView(id string) shipments.ViagemView {
	return shipments.ViagemView{
		Viagem: shipments.Viagem{
			ID:                   id,
			NumeroNF:             "NF-100",
			NumeroCarga:          "12",
			Contratante:          "Distribuidora Sul",
			Cidade:               "Curitiba",
			Status:               shipments.StatusPendente,
			ValorFrete:           1500,
			ValorDistribuicao:    300,
			MetodoPagamento:      shipments.PagamentoBoleto,
			NumeroBoleto:         "B-77",
			DataVencimentoBoleto: "2025-04-10",
		},
		StatusCarga: shipments.StatusEmRota,
	}
}

func TestDeriveKey(t *testing.T) {
	v := shipments.Viagem{ID: "abc-123"}
	assert.Equal(t, "viagem_abc-123", DeriveKey(v))

	v = shipments.Viagem{NumeroNF: " NF 100/2 "}
	assert.Equal(t, "nf_nf_100_2", DeriveKey(v))
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()

	f := FromViagem(sampleView("v1"))
	require.NoError(t, repo.Upsert(context.Background(), f))
	first := repo.records[f.ID]

	require.NoError(t, repo.Upsert(context.Background(), FromViagem(sampleView("v1"))))
	assert.Equal(t, first, repo.records[f.ID])
	assert.Equal(t, 1, repo.writes)
}

func TestPagoNeverRegresses(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	f := FromViagem(sampleView("v1"))
	require.NoError(t, repo.Upsert(context.Background(), f))

	_, err := svc.SetStatus(context.Background(), f.ID, StatusPago, "2025-04-01")
	require.NoError(t, err)

	// A later sync from the unchanged viagem still sends Pendente.
	require.NoError(t, repo.Upsert(context.Background(), FromViagem(sampleView("v1"))))

	got, err := repo.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPago, got.StatusFinanceiro)
	assert.Equal(t, "2025-04-01", got.DataPagamento)
}

func TestSyncPicksUpShipmentEdits(t *testing.T) {
	repo := newMemoryRepo()

	require.NoError(t, repo.Upsert(context.Background(), FromViagem(sampleView("v1"))))

	edited := sampleView("v1")
	edited.ValorFrete = 1800
	edited.StatusCarga = shipments.StatusEntregue
	require.NoError(t, repo.Upsert(context.Background(), FromViagem(edited)))

	got := repo.records["viagem_v1"]
	assert.Equal(t, 1800.0, got.ValorFrete)
	assert.Equal(t, shipments.StatusEntregue, got.StatusViagem)
}

func TestVencidoDerivation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	svc.today = func() string { return "2025-05-01" }

	f := FromViagem(sampleView("v1"))
	require.NoError(t, repo.Upsert(context.Background(), f))

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Vencido)

	// Paying clears the overdue flag even past the due date.
	_, err = svc.SetStatus(context.Background(), f.ID, StatusPago, "")
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.False(t, view.Vencido)
	assert.Equal(t, "2025-05-01", view.DataPagamento)
}

func TestSetStatusValidation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	_, err := svc.SetStatus(context.Background(), "x", "Quitado", "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.SetStatus(context.Background(), "nope", StatusPago, "")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
