// Package shipments manages viagens: the per-invoice transport legs that make
// up a cargo, plus the rollups derived from the live shipment set.
package shipments

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Status enumerates per-leg shipment statuses.
type Status string

const (
	StatusPendente Status = "Pendente"
	StatusEmRota   Status = "Em rota"
	StatusEntregue Status = "Entregue"
)

// TipoCarga distinguishes dedicated from break-bulk cargo.
type TipoCarga string

const (
	TipoDedicada   TipoCarga = "Dedicada"
	TipoFracionada TipoCarga = "Fracionada"
)

// MetodoPagamento enumerates accepted payment methods.
type MetodoPagamento string

const (
	PagamentoBoleto        MetodoPagamento = "Boleto"
	PagamentoPix           MetodoPagamento = "Pix"
	PagamentoTransferencia MetodoPagamento = "Transferencia"
	PagamentoDinheiro      MetodoPagamento = "Dinheiro"
)

// Viagem is one invoice leg of a cargo. Dates travel as ISO date strings
// (yyyy-mm-dd); most fields are optional free text, mirroring the document
// shape the mobile clients write.
type Viagem struct {
	ID                   string          `json:"id"`
	NumeroNF             string          `json:"numeroNF,omitempty"`
	NumeroCarga          string          `json:"numeroCarga,omitempty"`
	NumeroCTe            string          `json:"numeroCTe,omitempty"`
	DataCTe              string          `json:"dataCTe,omitempty"`
	ChaveID              string          `json:"chaveID,omitempty"`
	TipoCarga            TipoCarga       `json:"tipoCarga,omitempty"`
	Contratante          string          `json:"contratante,omitempty"`
	Destinatario         string          `json:"destinatario,omitempty"`
	Cidade               string          `json:"cidade,omitempty"`
	Motorista            string          `json:"motorista,omitempty"`
	Veiculo              string          `json:"veiculo,omitempty"`
	Status               Status          `json:"status"`
	ValorFrete           float64         `json:"valorFrete"`
	ValorDistribuicao    float64         `json:"valorDistribuicao"`
	MetodoPagamento      MetodoPagamento `json:"metodoPagamento,omitempty"`
	NumeroBoleto         string          `json:"numeroBoleto,omitempty"`
	DataVencimentoBoleto string          `json:"dataVencimentoBoleto,omitempty"`
	URLComprovante       string          `json:"urlComprovante,omitempty"`
	DataSaida            string          `json:"dataSaida,omitempty"`
	DataEntrega          string          `json:"dataEntrega,omitempty"`
	Observacao           string          `json:"observacao,omitempty"`
	CriadoPor            string          `json:"criadoPor,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ViagemView is a Viagem enriched with read-time derivations. The raw Status
// stays authoritative for history; StatusCarga is what dashboards and filters
// should display.
type ViagemView struct {
	Viagem
	StatusCarga  Status `json:"statusCarga"`
	NumeroCTeRef string `json:"numeroCTeRef,omitempty"`
}

// Validate enforces the boundary invariants before a viagem is persisted.
func (v *Viagem) Validate() error {
	switch v.Status {
	case StatusPendente, StatusEmRota, StatusEntregue:
	case "":
		v.Status = StatusPendente
	default:
		return fmt.Errorf("%w: status %q desconhecido", httpx.ErrValidation, v.Status)
	}

	switch v.TipoCarga {
	case "", TipoDedicada, TipoFracionada:
	default:
		return fmt.Errorf("%w: tipo de carga %q desconhecido", httpx.ErrValidation, v.TipoCarga)
	}

	if v.TipoCarga == TipoFracionada {
		if strings.TrimSpace(v.NumeroCTe) == "" || strings.TrimSpace(v.DataCTe) == "" {
			return fmt.Errorf("%w: carga fracionada exige numeroCTe e dataCTe", httpx.ErrValidation)
		}
	}

	if v.MetodoPagamento == PagamentoBoleto {
		if strings.TrimSpace(v.NumeroBoleto) == "" || strings.TrimSpace(v.DataVencimentoBoleto) == "" {
			return fmt.Errorf("%w: boleto exige numeroBoleto e dataVencimentoBoleto", httpx.ErrValidation)
		}
	}

	if v.ChaveID != "" && len(onlyDigits(v.ChaveID)) != 44 {
		return fmt.Errorf("%w: chave de acesso deve ter 44 digitos", httpx.ErrValidation)
	}

	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
