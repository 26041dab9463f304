package motoristas

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Service handles motorista business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Motorista, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Motorista, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, m Motorista) (Motorista, error) {
	if err := s.validate(m); err != nil {
		return Motorista{}, err
	}
	m.ID = uuid.NewString()
	if err := s.repo.Create(ctx, m); err != nil {
		return Motorista{}, err
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, m Motorista) (Motorista, error) {
	if strings.TrimSpace(m.ID) == "" {
		return Motorista{}, fmt.Errorf("%w: id é obrigatório", httpx.ErrValidation)
	}
	if err := s.validate(m); err != nil {
		return Motorista{}, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return Motorista{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(m Motorista) error {
	if strings.TrimSpace(m.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", httpx.ErrValidation)
	}
	return nil
}
