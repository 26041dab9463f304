package veiculos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Service handles veiculo business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Veiculo, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Veiculo, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, v Veiculo) (Veiculo, error) {
	if err := s.validate(v); err != nil {
		return Veiculo{}, err
	}
	v.ID = uuid.NewString()
	v.Placa = normalizePlaca(v.Placa)
	if err := s.repo.Create(ctx, v); err != nil {
		return Veiculo{}, err
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, v Veiculo) (Veiculo, error) {
	if strings.TrimSpace(v.ID) == "" {
		return Veiculo{}, fmt.Errorf("%w: id é obrigatório", httpx.ErrValidation)
	}
	if err := s.validate(v); err != nil {
		return Veiculo{}, err
	}
	v.Placa = normalizePlaca(v.Placa)
	if err := s.repo.Update(ctx, v); err != nil {
		return Veiculo{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(v Veiculo) error {
	if strings.TrimSpace(v.Modelo) == "" {
		return fmt.Errorf("%w: modelo é obrigatório", httpx.ErrValidation)
	}
	if strings.TrimSpace(v.Placa) == "" {
		return fmt.Errorf("%w: placa é obrigatória", httpx.ErrValidation)
	}
	return nil
}

func normalizePlaca(placa string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(placa), " ", ""))
}
