package receivables

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/shared"
)

// RepositoryPort defines data access for financeiro records.
type RepositoryPort interface {
	Upsert(ctx context.Context, f Financeiro) error
	SetStatus(ctx context.Context, id string, status StatusFinanceiro, dataPagamento string) error
	Get(ctx context.Context, id string) (*Financeiro, error)
	List(ctx context.Context) ([]Financeiro, error)
	Delete(ctx context.Context, id string) error
}

// Service handles financeiro business logic.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	today  func() string
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, today: shared.Today}
}

// List returns every record with the overdue flag derived against today.
func (s *Service) List(ctx context.Context) ([]View, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	views := make([]View, len(records))
	for i, f := range records {
		views[i] = DeriveView(f, today)
	}
	return views, nil
}

// Get loads one record with the derived overdue flag.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := DeriveView(*f, s.today())
	return &view, nil
}

// SetStatus records a payment status change. Marking Pago without an explicit
// payment date stamps today.
func (s *Service) SetStatus(ctx context.Context, id string, status StatusFinanceiro, dataPagamento string) (*View, error) {
	switch status {
	case StatusPendente, StatusPago:
	default:
		return nil, fmt.Errorf("%w: status financeiro %q desconhecido", httpx.ErrValidation, status)
	}
	if status == StatusPago && dataPagamento == "" {
		dataPagamento = s.today()
	}
	if status == StatusPendente {
		dataPagamento = ""
	}
	if err := s.repo.SetStatus(ctx, id, status, dataPagamento); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a record. The viagem it mirrors is untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
