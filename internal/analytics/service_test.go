package analytics

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/receivables"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

type stubShipments struct {
	views []shipments.ViagemView
	calls int
}

func (s *stubShipments) ListViews(_ context.Context) ([]shipments.ViagemView, error) {
	s.calls++
	return s.views, nil
}

func (s *stubShipments) Cargas(_ context.Context) ([]shipments.CargoGroup, error) {
	var legs []shipments.Viagem
	for _, v := range s.views {
		legs = append(legs, v.Viagem)
	}
	return shipments.GroupByCargo(legs), nil
}

type stubReceivables struct {
	views []receivables.View
}

func (s *stubReceivables) List(_ context.Context) ([]receivables.View, error) {
	return s.views, nil
}

type stubQuotes struct{ emAnalise, aprovadas int }

func (s *stubQuotes) CountByStatus(_ context.Context) (int, int, error) {
	return s.emAnalise, s.aprovadas, nil
}

func leg(id, carga string, status shipments.Status, frete, dist float64) shipments.ViagemView {
	return shipments.ViagemView{
		Viagem: shipments.Viagem{
			ID: id, NumeroCarga: carga, Status: status,
			ValorFrete: frete, ValorDistribuicao: dist,
		},
		StatusCarga: status,
	}
}

func newCacheForTest(t *testing.T) (*Cache, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), client
}

func TestDashboardRollup(t *testing.T) {
	sh := &stubShipments{views: []shipments.ViagemView{
		leg("v1", "10", shipments.StatusEntregue, 1000, 200),
		leg("v2", "10", shipments.StatusEntregue, 500, 100),
		leg("v3", "11", shipments.StatusEmRota, 800, 150),
	}}
	rec := &stubReceivables{views: []receivables.View{
		{Financeiro: receivables.Financeiro{StatusFinanceiro: receivables.StatusPago, ValorFrete: 1000}},
		{Financeiro: receivables.Financeiro{StatusFinanceiro: receivables.StatusPendente, ValorFrete: 1300}, Vencido: true},
	}}
	cache, _ := newCacheForTest(t)
	svc := NewService(sh, rec, &stubQuotes{emAnalise: 2, aprovadas: 5}, cache, slog.Default())

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.TotalViagens)
	assert.Equal(t, 2, d.TotalCargas)
	assert.Equal(t, 2, d.Entregues)
	assert.Equal(t, 1, d.EmRota)
	assert.Equal(t, 2300.0, d.TotalFrete)
	assert.Equal(t, 450.0, d.TotalDistribuicao)
	assert.Equal(t, 1850.0, d.Margem)
	assert.Equal(t, 1000.0, d.FretePago)
	assert.Equal(t, 1300.0, d.FretePendente)
	assert.Equal(t, 1, d.TitulosVencidos)
	assert.Equal(t, 2, d.CotacoesEmAnalise)
	assert.Equal(t, 5, d.CotacoesAprovadas)
}

func TestDashboardRanksClientes(t *testing.T) {
	views := []shipments.ViagemView{
		leg("v1", "10", shipments.StatusEntregue, 1000, 0),
		leg("v2", "10", shipments.StatusEntregue, 500, 0),
		leg("v3", "11", shipments.StatusPendente, 2000, 0),
	}
	views[0].Contratante = "Atacado Norte"
	views[1].Contratante = "Atacado Norte"
	views[2].Contratante = "Mercantil Rio Negro"

	cache, _ := newCacheForTest(t)
	svc := NewService(&stubShipments{views: views}, &stubReceivables{}, &stubQuotes{}, cache, slog.Default())

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, d.TopClientes, 2)
	assert.Equal(t, ClienteFrete{Cliente: "Mercantil Rio Negro", ValorFrete: 2000, Viagens: 1}, d.TopClientes[0])
	assert.Equal(t, ClienteFrete{Cliente: "Atacado Norte", ValorFrete: 1500, Viagens: 2}, d.TopClientes[1])

	var buf bytes.Buffer
	require.NoError(t, WriteDashboardCSV(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "Frete total;R$ 3.500,00")
	assert.Contains(t, out, "Mercantil Rio Negro;R$ 2.000,00;1")
}

func TestDashboardUsesCacheUntilInvalidated(t *testing.T) {
	sh := &stubShipments{views: []shipments.ViagemView{
		leg("v1", "10", shipments.StatusPendente, 100, 0),
	}}
	cache, _ := newCacheForTest(t)
	svc := NewService(sh, &stubReceivables{}, &stubQuotes{}, cache, slog.Default())

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sh.calls)

	svc.Invalidate(context.Background())

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sh.calls)
}

func TestDashboardWithoutRedis(t *testing.T) {
	sh := &stubShipments{views: []shipments.ViagemView{
		leg("v1", "10", shipments.StatusPendente, 100, 0),
	}}
	svc := NewService(sh, &stubReceivables{}, nil, nil, slog.Default())

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalViagens)
}
