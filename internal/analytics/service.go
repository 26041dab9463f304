// Package analytics rolls the live viagem and financeiro sets up into the
// dashboard KPIs. Rollups are cached in Redis with a version that bumps on
// every shipment change.
package analytics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rotacarga/rotacarga/internal/receivables"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// Dashboard is the KPI rollup served to the front page.
type Dashboard struct {
	TotalViagens      int     `json:"totalViagens"`
	Pendentes         int     `json:"pendentes"`
	EmRota            int     `json:"emRota"`
	Entregues         int     `json:"entregues"`
	TotalCargas       int     `json:"totalCargas"`
	TotalFrete        float64 `json:"totalFrete"`
	TotalDistribuicao float64 `json:"totalDistribuicao"`
	Margem            float64 `json:"margem"`
	FretePendente     float64 `json:"fretePendente"`
	FretePago         float64 `json:"fretePago"`
	TitulosVencidos   int     `json:"titulosVencidos"`
	CotacoesEmAnalise int     `json:"cotacoesEmAnalise"`
	CotacoesAprovadas int     `json:"cotacoesAprovadas"`

	TopClientes []ClienteFrete `json:"topClientes"`
}

// ClienteFrete is the revenue total of one contratante.
type ClienteFrete struct {
	Cliente    string  `json:"cliente"`
	ValorFrete float64 `json:"valorFrete"`
	Viagens    int     `json:"viagens"`
}

// ShipmentSource exposes the derived viagem views and cargo rollups.
type ShipmentSource interface {
	ListViews(ctx context.Context) ([]shipments.ViagemView, error)
	Cargas(ctx context.Context) ([]shipments.CargoGroup, error)
}

// ReceivableSource exposes the financeiro views with the overdue flag.
type ReceivableSource interface {
	List(ctx context.Context) ([]receivables.View, error)
}

// QuoteCounter exposes quote status counts.
type QuoteCounter interface {
	CountByStatus(ctx context.Context) (emAnalise, aprovadas int, err error)
}

// Service computes dashboard rollups.
type Service struct {
	shipments   ShipmentSource
	receivables ReceivableSource
	quotes      QuoteCounter
	cache       *Cache
	logger      *slog.Logger
}

// NewService builds a Service instance. cache may be nil.
func NewService(sh ShipmentSource, rec ReceivableSource, q QuoteCounter, cache *Cache, logger *slog.Logger) *Service {
	return &Service{shipments: sh, receivables: rec, quotes: q, cache: cache, logger: logger}
}

// Dashboard returns the KPI rollup, from cache when fresh.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "kpi")
	if err != nil {
		// Redis down: fall back on a direct computation.
		s.logger.Warn("dashboard cache key", slog.Any("error", err))
		return s.compute(ctx)
	}

	var d Dashboard
	err = s.cache.FetchJSON(ctx, key, &d, func(ctx context.Context) (any, error) {
		computed, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		return *computed, nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Invalidate bumps the cache version after a data change.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("dashboard cache bump", slog.Any("error", err))
	}
}

func (s *Service) compute(ctx context.Context) (*Dashboard, error) {
	views, err := s.shipments.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	cargas, err := s.shipments.Cargas(ctx)
	if err != nil {
		return nil, err
	}

	d := Dashboard{TotalViagens: len(views), TotalCargas: len(cargas)}
	porCliente := make(map[string]*ClienteFrete)
	for _, v := range views {
		switch v.StatusCarga {
		case shipments.StatusPendente:
			d.Pendentes++
		case shipments.StatusEmRota:
			d.EmRota++
		case shipments.StatusEntregue:
			d.Entregues++
		}
		d.TotalFrete += v.ValorFrete
		d.TotalDistribuicao += v.ValorDistribuicao
		if v.Contratante != "" {
			c := porCliente[v.Contratante]
			if c == nil {
				c = &ClienteFrete{Cliente: v.Contratante}
				porCliente[v.Contratante] = c
			}
			c.ValorFrete += v.ValorFrete
			c.Viagens++
		}
	}
	d.Margem = d.TotalFrete - d.TotalDistribuicao
	d.TopClientes = topClientes(porCliente, 5)

	recs, err := s.receivables.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		switch r.StatusFinanceiro {
		case receivables.StatusPago:
			d.FretePago += r.ValorFrete
		default:
			d.FretePendente += r.ValorFrete
		}
		if r.Vencido {
			d.TitulosVencidos++
		}
	}

	if s.quotes != nil {
		emAnalise, aprovadas, err := s.quotes.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		d.CotacoesEmAnalise = emAnalise
		d.CotacoesAprovadas = aprovadas
	}
	return &d, nil
}

// topClientes ranks contratantes by revenue. Ties break on name so the
// ordering is stable across runs.
func topClientes(porCliente map[string]*ClienteFrete, n int) []ClienteFrete {
	out := make([]ClienteFrete, 0, len(porCliente))
	for _, c := range porCliente {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ValorFrete != out[j].ValorFrete {
			return out[i].ValorFrete > out[j].ValorFrete
		}
		return out[i].Cliente < out[j].Cliente
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
