// Package quotes manages cotações: pre-sale freight proposals that, once
// approved, turn into cargo legs.
package quotes

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// StatusCotacao enumerates quote statuses. Aprovada is terminal.
type StatusCotacao string

const (
	CotacaoEmAnalise StatusCotacao = "Em análise"
	CotacaoAprovada  StatusCotacao = "Aprovada"
)

// Quote cargo types use the lowercase commercial wording; the shipment side
// uses the capitalized document wording.
const (
	TipoFracionado = "fracionado"
	TipoDedicado   = "dedicado"
)

// ErrAlreadyApproved rejects re-approval of a terminal quote.
var ErrAlreadyApproved = fmt.Errorf("%w: cotação já aprovada", httpx.ErrConflict)

// Cotacao is a pre-sale freight proposal.
type Cotacao struct {
	ID                 string        `json:"id"`
	NumeroCotacao      string        `json:"numeroCotacao"`
	Cliente            string        `json:"cliente"`
	Origem             string        `json:"origem"`
	TipoCarga          string        `json:"tipoCarga"`
	CidadesEntrega     []string      `json:"cidadesEntrega"`
	DistanciaKm        float64       `json:"distanciaKm"`
	PesoKg             float64       `json:"pesoKg"`
	VolumeM3           float64       `json:"volumeM3"`
	ValorFrete         float64       `json:"valorFrete"`
	ValidadeDias       int           `json:"validade"`
	NumeroNotasFiscais int           `json:"numeroNotasFiscais"`
	StatusCotacao      StatusCotacao `json:"statusCotacao"`
	Observacao         string        `json:"observacao,omitempty"`
	ViagensGeradas     []string      `json:"viagensGeradas,omitempty"`
	CriadoPor          string        `json:"criadoPor,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Validate enforces the minimum a quote needs before it can be saved.
func (c *Cotacao) Validate() error {
	if strings.TrimSpace(c.Cliente) == "" {
		return fmt.Errorf("%w: cliente é obrigatório", httpx.ErrValidation)
	}
	if strings.TrimSpace(c.Origem) == "" {
		return fmt.Errorf("%w: origem é obrigatória", httpx.ErrValidation)
	}
	if len(c.CidadesEntrega) == 0 {
		return fmt.Errorf("%w: pelo menos uma cidade de entrega", httpx.ErrValidation)
	}
	switch c.TipoCarga {
	case "", TipoFracionado, TipoDedicado:
	default:
		return fmt.Errorf("%w: tipo de carga %q desconhecido", httpx.ErrValidation, c.TipoCarga)
	}
	if c.NumeroNotasFiscais < 1 {
		c.NumeroNotasFiscais = 1
	}
	return nil
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewNumeroCotacao generates a quote number in the format
// COT-<yyyymmdd>-<hhmmss>-<4 random base36 chars>.
func NewNumeroCotacao(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return fmt.Sprintf("COT-%s-%s-%s", now.Format("20060102"), now.Format("150405"), suffix)
}
