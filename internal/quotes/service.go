package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rotacarga/rotacarga/internal/geo"
	"github.com/rotacarga/rotacarga/internal/identity"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// RepositoryPort defines data access for quotes. Approve persists the
// generated legs and the status flip in one transaction.
type RepositoryPort interface {
	Create(ctx context.Context, c Cotacao) error
	Update(ctx context.Context, c Cotacao) error
	Get(ctx context.Context, id string) (*Cotacao, error)
	List(ctx context.Context) ([]Cotacao, error)
	Approve(ctx context.Context, c Cotacao, legs []shipments.Viagem) error
}

// SequencePort reserves blocks of cargo numbers.
type SequencePort interface {
	NextN(ctx context.Context, kind string, n int64) (int64, error)
}

// RoutePlanner orders delivery cities and prices the road route.
type RoutePlanner interface {
	Plan(ctx context.Context, origin string, destinations []string) (*geo.RoutePlan, error)
}

// SequenceKindCarga names the cargo-number sequence.
const SequenceKindCarga = "carga"

// Service handles quote business logic.
type Service struct {
	repo     RepositoryPort
	seq      SequencePort
	planner  RoutePlanner
	notifier shipments.ChangeNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, seq SequencePort, planner RoutePlanner, notifier shipments.ChangeNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, seq: seq, planner: planner, notifier: notifier, logger: logger, now: time.Now}
}

// Save inserts a new quote or updates an existing one in place. The quote
// number and status of an existing quote are preserved; only quotes still
// under review can change.
func (s *Service) Save(ctx context.Context, c Cotacao) (*Cotacao, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
		c.NumeroCotacao = NewNumeroCotacao(s.now())
		c.StatusCotacao = CotacaoEmAnalise
		if c.CriadoPor == "" {
			c.CriadoPor = identity.FromContext(ctx).ID
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		return &c, nil
	}

	existing, err := s.repo.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing.StatusCotacao == CotacaoAprovada {
		return nil, ErrAlreadyApproved
	}
	c.NumeroCotacao = existing.NumeroCotacao
	c.StatusCotacao = existing.StatusCotacao
	c.CriadoPor = existing.CriadoPor
	c.ViagensGeradas = existing.ViagensGeradas
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get loads one quote.
func (s *Service) Get(ctx context.Context, id string) (*Cotacao, error) {
	return s.repo.Get(ctx, id)
}

// List returns every quote, insertion ordered.
func (s *Service) List(ctx context.Context) ([]Cotacao, error) {
	return s.repo.List(ctx)
}

// PlanRoute orders the delivery cities nearest-first and fills in the road
// distance for the round trip. Failures leave the quote untouched.
func (s *Service) PlanRoute(ctx context.Context, origin string, cities []string) (*geo.RoutePlan, error) {
	return s.planner.Plan(ctx, origin, cities)
}

// Approve converts a quote into its cargo legs. The transition is one-way:
// approving an already approved quote fails and creates nothing. Legs and the
// status flip are persisted atomically, so a failure can never leave a
// partial cargo behind.
func (s *Service) Approve(ctx context.Context, id string) (*Cotacao, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.StatusCotacao == CotacaoAprovada {
		return nil, ErrAlreadyApproved
	}

	totalNotas := quote.NumeroNotasFiscais
	if totalNotas < 1 {
		totalNotas = 1
	}

	base, err := s.seq.NextN(ctx, SequenceKindCarga, int64(totalNotas))
	if err != nil {
		return nil, fmt.Errorf("quotes: reserve cargo numbers: %w", err)
	}

	legs := buildLegs(*quote, base, totalNotas, s.now())

	approved := *quote
	approved.StatusCotacao = CotacaoAprovada
	approved.ViagensGeradas = make([]string, len(legs))
	for i, leg := range legs {
		approved.ViagensGeradas[i] = leg.ID
	}

	if err := s.repo.Approve(ctx, approved, legs); err != nil {
		return nil, fmt.Errorf("quotes: approve: %w", err)
	}

	if s.notifier != nil {
		for _, leg := range legs {
			s.notifier.ShipmentChanged(ctx, leg.ID)
		}
	}
	if s.logger != nil {
		s.logger.Info("quote approved",
			slog.String("numeroCotacao", approved.NumeroCotacao),
			slog.Int("legs", len(legs)),
			slog.Int64("baseCarga", base),
		)
	}
	return &approved, nil
}

// buildLegs synthesizes one shipment per invoice, with consecutive cargo
// numbers and per-leg NF suffixes when the quote covers several invoices.
// Delivery cities rotate across legs; the freight value is split evenly so
// the cargo totals still match the quoted price.
func buildLegs(quote Cotacao, base int64, totalNotas int, now time.Time) []shipments.Viagem {
	tipo := shipments.TipoDedicada
	if quote.TipoCarga == TipoFracionado {
		tipo = shipments.TipoFracionada
	}

	fretePerLeg := quote.ValorFrete / float64(totalNotas)
	route := strings.Join(quote.CidadesEntrega, " > ")

	legs := make([]shipments.Viagem, totalNotas)
	for i := range totalNotas {
		numeroNF := quote.NumeroCotacao
		if totalNotas > 1 {
			numeroNF = fmt.Sprintf("%s-NF%d", quote.NumeroCotacao, i+1)
		}
		legs[i] = shipments.Viagem{
			ID:          uuid.NewString(),
			NumeroNF:    numeroNF,
			NumeroCarga: strconv.FormatInt(base+int64(i), 10),
			TipoCarga:   tipo,
			Contratante: quote.Cliente,
			Cidade:      quote.CidadesEntrega[i%len(quote.CidadesEntrega)],
			Status:      shipments.StatusPendente,
			ValorFrete:  fretePerLeg,
			DataSaida:   now.Format("2006-01-02"),
			CriadoPor:   quote.CriadoPor,
			Observacao: fmt.Sprintf("Gerada pela cotação %s. Origem %s, rota %s",
				quote.NumeroCotacao, quote.Origem, route),
		}
	}
	return legs
}
