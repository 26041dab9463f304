package clientes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Service handles cliente business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Cliente, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Cliente, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Cliente) (Cliente, error) {
	if err := s.validate(c); err != nil {
		return Cliente{}, err
	}
	c.ID = uuid.NewString()
	if err := s.repo.Create(ctx, c); err != nil {
		return Cliente{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, c Cliente) (Cliente, error) {
	if strings.TrimSpace(c.ID) == "" {
		return Cliente{}, fmt.Errorf("%w: id é obrigatório", httpx.ErrValidation)
	}
	if err := s.validate(c); err != nil {
		return Cliente{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Cliente{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(c Cliente) error {
	if strings.TrimSpace(c.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", httpx.ErrValidation)
	}
	return nil
}
