package quotes

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotacarga/rotacarga/internal/geo"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

type memoryRepo struct {
	quotes map[string]Cotacao
	order  []string
	legs   []shipments.Viagem
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{quotes: make(map[string]Cotacao)}
}

func (m *memoryRepo) Create(_ context.Context, c Cotacao) error {
	m.quotes[c.ID] = c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memoryRepo) Update(_ context.Context, c Cotacao) error {
	if _, ok := m.quotes[c.ID]; !ok {
		return fmt.Errorf("%w: cotação %s", httpx.ErrNotFound, c.ID)
	}
	m.quotes[c.ID] = c
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (*Cotacao, error) {
	c, ok := m.quotes[id]
	if !ok {
		return nil, fmt.Errorf("%w: cotação %s", httpx.ErrNotFound, id)
	}
	return &c, nil
}

func (m *memoryRepo) List(_ context.Context) ([]Cotacao, error) {
	result := make([]Cotacao, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.quotes[id])
	}
	return result, nil
}

func (m *memoryRepo) Approve(_ context.Context, c Cotacao, legs []shipments.Viagem) error {
	current, ok := m.quotes[c.ID]
	if !ok {
		return fmt.Errorf("%w: cotação %s", httpx.ErrNotFound, c.ID)
	}
	if current.StatusCotacao == CotacaoAprovada {
		return ErrAlreadyApproved
	}
	m.quotes[c.ID] = c
	m.legs = append(m.legs, legs...)
	return nil
}

type stubSequence struct {
	next int64
}

func (s *stubSequence) NextN(_ context.Context, _ string, n int64) (int64, error) {
	base := s.next
	s.next += n
	return base, nil
}

type stubPlanner struct {
	plan *geo.RoutePlan
	err  error
}

func (s *stubPlanner) Plan(_ context.Context, _ string, _ []string) (*geo.RoutePlan, error) {
	return s.plan, s.err
}

type recordingNotifier struct {
	ids []string
}

func (n *recordingNotifier) ShipmentChanged(_ context.Context, id string) {
	n.ids = append(n.ids, id)
}

func newTestService(repo *memoryRepo, seq *stubSequence, notifier *recordingNotifier) *Service {
	svc := NewService(repo, seq, &stubPlanner{}, notifier, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func validQuote() Cotacao {
	return Cotacao{
		Cliente:            "Transportes Ipiranga",
		Origem:             "Campinas",
		TipoCarga:          TipoFracionado,
		CidadesEntrega:     []string{"Sorocaba", "Jundiaí", "Itu"},
		ValorFrete:         3000,
		NumeroNotasFiscais: 3,
	}
}

func TestSaveGeneratesNumberAndStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubSequence{next: 100}, &recordingNotifier{})

	created, err := svc.Save(context.Background(), validQuote())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Regexp(t, regexp.MustCompile(`^COT-20250315-103000-[0-9A-Z]{4}$`), created.NumeroCotacao)
	assert.Equal(t, CotacaoEmAnalise, created.StatusCotacao)
}

func TestSaveRejectsMissingFields(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubSequence{}, &recordingNotifier{})

	q := validQuote()
	q.CidadesEntrega = nil
	_, err := svc.Save(context.Background(), q)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdatePreservesNumberAndOwner(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubSequence{}, &recordingNotifier{})

	created, err := svc.Save(context.Background(), validQuote())
	require.NoError(t, err)

	edit := validQuote()
	edit.ID = created.ID
	edit.ValorFrete = 4500
	updated, err := svc.Save(context.Background(), edit)
	require.NoError(t, err)

	assert.Equal(t, created.NumeroCotacao, updated.NumeroCotacao)
	assert.Equal(t, 4500.0, updated.ValorFrete)
	assert.Equal(t, CotacaoEmAnalise, updated.StatusCotacao)
}

func TestApproveGeneratesConsecutiveLegs(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, &stubSequence{next: 42}, notifier)

	created, err := svc.Save(context.Background(), validQuote())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, CotacaoAprovada, approved.StatusCotacao)
	require.Len(t, repo.legs, 3)

	for i, leg := range repo.legs {
		assert.Equal(t, strconv.Itoa(42+i), leg.NumeroCarga)
		assert.Equal(t, fmt.Sprintf("%s-NF%d", created.NumeroCotacao, i+1), leg.NumeroNF)
		assert.Equal(t, shipments.StatusPendente, leg.Status)
		assert.Equal(t, shipments.TipoFracionada, leg.TipoCarga)
		assert.Equal(t, created.Cliente, leg.Contratante)
		assert.InDelta(t, 1000.0, leg.ValorFrete, 0.001)
	}
	// Delivery cities rotate across the legs.
	assert.Equal(t, "Sorocaba", repo.legs[0].Cidade)
	assert.Equal(t, "Jundiaí", repo.legs[1].Cidade)
	assert.Equal(t, "Itu", repo.legs[2].Cidade)

	assert.Equal(t, approved.ViagensGeradas, notifier.ids)
}

func TestApproveSingleNotaUsesPlainQuoteNumber(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubSequence{next: 7}, &recordingNotifier{})

	q := validQuote()
	q.NumeroNotasFiscais = 0
	q.TipoCarga = TipoDedicado
	created, err := svc.Save(context.Background(), q)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, repo.legs, 1)
	assert.Equal(t, created.NumeroCotacao, repo.legs[0].NumeroNF)
	assert.Equal(t, "7", repo.legs[0].NumeroCarga)
	assert.Equal(t, shipments.TipoDedicada, repo.legs[0].TipoCarga)
}

func TestApproveIsOneWay(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubSequence{next: 1}, &recordingNotifier{})

	created, err := svc.Save(context.Background(), validQuote())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	legsAfterFirst := len(repo.legs)

	_, err = svc.Approve(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Len(t, repo.legs, legsAfterFirst)

	// An approved quote can no longer be edited either.
	edit := validQuote()
	edit.ID = created.ID
	_, err = svc.Save(context.Background(), edit)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestNewNumeroCotacaoFormat(t *testing.T) {
	now := time.Date(2025, 12, 1, 23, 59, 59, 0, time.UTC)
	n := NewNumeroCotacao(now)
	assert.Regexp(t, regexp.MustCompile(`^COT-20251201-235959-[0-9A-Z]{4}$`), n)
}
