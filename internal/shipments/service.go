package shipments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rotacarga/rotacarga/internal/identity"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// RepositoryPort defines the persistence methods the service needs.
type RepositoryPort interface {
	Create(ctx context.Context, v Viagem) error
	Update(ctx context.Context, v Viagem) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Viagem, error)
	List(ctx context.Context, filter ListFilter) ([]Viagem, int, error)
	ListAll(ctx context.Context) ([]Viagem, error)
	FindByDocRef(ctx context.Context, ref string) (*Viagem, error)
}

// ChangeNotifier is told after every successful write so downstream
// derivations (receivable reconciliation, dashboard cache) can catch up.
// Notification failures are logged, never surfaced: the write already
// happened and the periodic reconciliation pass will cover the gap.
type ChangeNotifier interface {
	ShipmentChanged(ctx context.Context, viagemID string)
}

// Service handles viagem business logic.
type Service struct {
	repo     RepositoryPort
	notifier ChangeNotifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, notifier ChangeNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Create validates and persists a new viagem, stamping ownership from the
// request principal.
func (s *Service) Create(ctx context.Context, v Viagem) (*Viagem, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CriadoPor == "" {
		v.CriadoPor = identity.FromContext(ctx).ID
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, v.ID)
	return &v, nil
}

// Update validates and rewrites an existing viagem. The raw per-leg status is
// persisted exactly as sent; the derived group status is never written back.
func (s *Service) Update(ctx context.Context, v Viagem) (*Viagem, error) {
	if strings.TrimSpace(v.ID) == "" {
		return nil, fmt.Errorf("shipments: update requires an id")
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, v.ID)
	return &v, nil
}

// Delete removes a viagem. Receivables are keyed separately and simply stop
// being refreshed; nothing cascades.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyChanged(ctx, id)
	return nil
}

// Get loads one viagem with its derived view fields.
func (s *Service) Get(ctx context.Context, id string) (*ViagemView, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, view := range DeriveViews(all) {
		if view.ID == v.ID {
			return &view, nil
		}
	}
	view := ViagemView{Viagem: *v, StatusCarga: v.Status}
	return &view, nil
}

// ListQuery narrows a derived listing.
type ListQuery struct {
	Status  Status
	Search  string
	Page    int
	PerPage int
}

// ListFiltered returns every derived view matching the status and search
// filters, without pagination. Exports go through here so the file always
// carries the whole live set.
func (s *Service) ListFiltered(ctx context.Context, status Status, search string) ([]ViagemView, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := DeriveViews(all)

	filtered := make([]ViagemView, 0, len(views))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, view := range views {
		if status != "" && view.StatusCarga != status {
			continue
		}
		if needle != "" && !matchesSearch(view.Viagem, needle) {
			continue
		}
		filtered = append(filtered, view)
	}
	return filtered, nil
}

// List returns derived views. Status filtering applies to the group-derived
// status, which is what the dashboard treats as authoritative for display.
func (s *Service) List(ctx context.Context, q ListQuery) ([]ViagemView, int, error) {
	filtered, err := s.ListFiltered(ctx, q.Status, q.Search)
	if err != nil {
		return nil, 0, err
	}

	total := len(filtered)
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= total {
		return []ViagemView{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func matchesSearch(v Viagem, search string) bool {
	for _, field := range []string{v.NumeroNF, v.NumeroCarga, v.NumeroCTe, v.Contratante, v.Destinatario, v.Cidade, v.Motorista} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// FindByDocRef matches a viagem by invoice number, CT-e number or access
// key, tolerant of case and whitespace, and returns its derived view.
func (s *Service) FindByDocRef(ctx context.Context, ref string) (*ViagemView, error) {
	norm := normalizeKey(ref)
	if norm == "" {
		return nil, fmt.Errorf("%w: referência vazia", httpx.ErrNotFound)
	}
	v, err := s.repo.FindByDocRef(ctx, norm)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, v.ID)
}

// ListViews returns the whole live set with derived fields, insertion
// ordered. Reconciliation and the dashboard read through here.
func (s *Service) ListViews(ctx context.Context) ([]ViagemView, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveViews(all), nil
}

// Cargas returns the per-cargo rollups for the whole live set.
func (s *Service) Cargas(ctx context.Context) ([]CargoGroup, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCargo(all), nil
}

func (s *Service) notifyChanged(ctx context.Context, id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.ShipmentChanged(ctx, id)
}
