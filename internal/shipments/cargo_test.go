package shipments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leg(id, carga string, status Status) Viagem {
	return Viagem{ID: id, NumeroCarga: carga, Status: status}
}

func TestGroupByCargoIsAPartition(t *testing.T) {
	viagens := []Viagem{
		leg("a", "10", StatusPendente),
		leg("b", "10", StatusEntregue),
		leg("c", "", StatusEmRota),
		leg("d", "11", StatusPendente),
		leg("e", "", StatusPendente),
	}

	groups := GroupByCargo(viagens)

	var flattened []Viagem
	for _, g := range groups {
		flattened = append(flattened, g.Legs...)
	}
	require.Len(t, flattened, len(viagens))
	seen := make(map[string]bool)
	for _, v := range flattened {
		assert.False(t, seen[v.ID], "leg %s appears twice", v.ID)
		seen[v.ID] = true
	}
}

func TestGroupStatusRules(t *testing.T) {
	cases := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all delivered", []Status{StatusEntregue, StatusEntregue}, StatusEntregue},
		{"any on the road", []Status{StatusPendente, StatusEmRota, StatusEntregue}, StatusEmRota},
		{"all pending", []Status{StatusPendente, StatusPendente}, StatusPendente},
		{"mixed pending and delivered", []Status{StatusPendente, StatusEntregue}, StatusEmRota},
		{"single pending", []Status{StatusPendente}, StatusPendente},
		{"single delivered", []Status{StatusEntregue}, StatusEntregue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var viagens []Viagem
			for i, st := range tc.statuses {
				viagens = append(viagens, leg(string(rune('a'+i)), "7", st))
			}
			groups := GroupByCargo(viagens)
			require.Len(t, groups, 1)
			assert.Equal(t, tc.want, groups[0].Status)
		})
	}
}

// Delivering one leg of an all-pending group moves the group to Em rota, not
// Entregue, unless it was the last pending leg.
func TestGroupStatusProgression(t *testing.T) {
	viagens := []Viagem{
		leg("a", "5", StatusPendente),
		leg("b", "5", StatusPendente),
	}
	require.Equal(t, StatusPendente, GroupByCargo(viagens)[0].Status)

	viagens[0].Status = StatusEntregue
	require.Equal(t, StatusEmRota, GroupByCargo(viagens)[0].Status)

	viagens[1].Status = StatusEntregue
	require.Equal(t, StatusEntregue, GroupByCargo(viagens)[0].Status)
}

func TestEmptyCargaKeepsOwnStatus(t *testing.T) {
	views := DeriveViews([]Viagem{
		leg("a", "", StatusEmRota),
		leg("b", "9", StatusPendente),
		leg("c", "9", StatusEntregue),
	})

	assert.Equal(t, StatusEmRota, views[0].StatusCarga)
	assert.Equal(t, StatusEmRota, views[1].StatusCarga)
	assert.Equal(t, StatusEmRota, views[2].StatusCarga)
	// raw statuses untouched
	assert.Equal(t, StatusPendente, views[1].Status)
}

func TestGroupFinancialSummary(t *testing.T) {
	groups := GroupByCargo([]Viagem{
		{ID: "a", NumeroCarga: "3", ValorFrete: 1000, ValorDistribuicao: 300},
		{ID: "b", NumeroCarga: "3", ValorFrete: 500, ValorDistribuicao: 100},
	})
	require.Len(t, groups, 1)
	assert.Equal(t, 1500.0, groups[0].TotalFrete)
	assert.Equal(t, 400.0, groups[0].TotalDistribuicao)
	assert.Equal(t, 1100.0, groups[0].Margem)
}

func TestCTeIndexBackfill(t *testing.T) {
	viagens := []Viagem{
		{ID: "a", NumeroNF: "NF 100", NumeroCarga: "8", NumeroCTe: "CTE-1"},
		{ID: "b", NumeroNF: "nf100", NumeroCarga: "8"},
		{ID: "c", NumeroCarga: "8"},
	}

	views := DeriveViews(viagens)
	assert.Equal(t, "CTE-1", views[0].NumeroCTeRef)
	assert.Equal(t, "CTE-1", views[1].NumeroCTeRef, "normalized NF match")
	assert.Equal(t, "CTE-1", views[2].NumeroCTeRef, "cargo number match")
}

func TestNextCargoNumber(t *testing.T) {
	assert.Equal(t, int64(13), NextCargoNumber([]string{"7", "Carga-12", "", "3"}))
	assert.Equal(t, int64(1), NextCargoNumber(nil))
	assert.Equal(t, int64(1), NextCargoNumber([]string{"", "sem numero"}))
	assert.Equal(t, int64(100), NextCargoNumber([]string{"99", "Carga 45-2"}))
}

func TestNextCargoNumberSkipsDocumentKeys(t *testing.T) {
	chave := strings.Repeat("9", 44)
	assert.Equal(t, int64(8), NextCargoNumber([]string{"7", chave}))
	assert.Equal(t, int64(8), NextCargoNumber([]string{"carga 7 chave " + chave}))
	assert.Equal(t, int64(1), NextCargoNumber([]string{chave}))
	// Fifteen digits is still a number, sixteen is a key.
	assert.Equal(t, int64(999999999999999+1), NextCargoNumber([]string{strings.Repeat("9", 15)}))
	assert.Equal(t, int64(1), NextCargoNumber([]string{strings.Repeat("9", 16)}))
}
