package veiculos

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

type memoryRepo struct {
	records map[string]Veiculo
}

func (m *memoryRepo) List(_ context.Context, _ shared.ListFilters) ([]Veiculo, int, error) {
	result := make([]Veiculo, 0, len(m.records))
	for _, v := range m.records {
		result = append(result, v)
	}
	return result, len(result), nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Veiculo, error) {
	v, ok := m.records[id]
	if !ok {
		return Veiculo{}, fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, id)
	}
	return v, nil
}

func (m *memoryRepo) Create(_ context.Context, v Veiculo) error {
	m.records[v.ID] = v
	return nil
}

func (m *memoryRepo) Update(_ context.Context, v Veiculo) error {
	if _, ok := m.records[v.ID]; !ok {
		return fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, v.ID)
	}
	m.records[v.ID] = v
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, id)
	}
	delete(m.records, id)
	return nil
}

func TestCreateNormalizesPlaca(t *testing.T) {
	svc := NewService(&memoryRepo{records: map[string]Veiculo{}})

	created, err := svc.Create(context.Background(), Veiculo{
		Modelo: "Volvo FH 540",
		Placa:  " abc 1d23 ",
		Tipo:   "Carreta",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ABC1D23", created.Placa)
}

func TestCreateRequiresModeloAndPlaca(t *testing.T) {
	svc := NewService(&memoryRepo{records: map[string]Veiculo{}})

	_, err := svc.Create(context.Background(), Veiculo{Placa: "ABC1D23"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Veiculo{Modelo: "Volvo FH 540"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRequiresExistingRecord(t *testing.T) {
	svc := NewService(&memoryRepo{records: map[string]Veiculo{}})

	_, err := svc.Update(context.Background(), Veiculo{ID: "missing", Modelo: "Scania R450", Placa: "XYZ9A87"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
