// Package receivables mirrors each viagem into a financeiro record: the
// accounts-receivable view of the shipment's commercial terms. Records are
// keyed deterministically so the mirror sync is an idempotent upsert, and a
// payment status set by a person is never downgraded by the sync.
package receivables

import (
	"strings"
	"time"
	"unicode"

	"github.com/rotacarga/rotacarga/internal/shipments"
)

// StatusFinanceiro enumerates payment statuses.
type StatusFinanceiro string

const (
	StatusPendente StatusFinanceiro = "Pendente"
	StatusPago     StatusFinanceiro = "Pago"
)

// Financeiro is one receivable record, nominally 1:1 with a viagem but
// independently editable.
type Financeiro struct {
	ID                string           `json:"id"`
	ViagemID          string           `json:"viagemId,omitempty"`
	NumeroNF          string           `json:"numeroNF,omitempty"`
	NumeroCarga       string           `json:"numeroCarga,omitempty"`
	NumeroCTe         string           `json:"numeroCTe,omitempty"`
	Contratante       string           `json:"contratante,omitempty"`
	Destinatario      string           `json:"destinatario,omitempty"`
	Cidade            string           `json:"cidade,omitempty"`
	StatusViagem      shipments.Status `json:"statusViagem,omitempty"`
	ValorFrete        float64          `json:"valorFrete"`
	ValorDistribuicao float64          `json:"valorDistribuicao"`
	MetodoPagamento   string           `json:"metodoPagamento,omitempty"`
	NumeroBoleto      string           `json:"numeroBoleto,omitempty"`
	DataVencimento    string           `json:"dataVencimento,omitempty"`
	StatusFinanceiro  StatusFinanceiro `json:"statusFinanceiro"`
	DataPagamento     string           `json:"dataPagamento,omitempty"`
	Observacao        string           `json:"observacao,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// View adds the read-time overdue flag: unpaid past the due date.
type View struct {
	Financeiro
	Vencido bool `json:"vencido"`
}

// DeriveView computes the overdue flag against the given date (ISO format).
func DeriveView(f Financeiro, today string) View {
	overdue := f.StatusFinanceiro != StatusPago &&
		f.DataVencimento != "" && f.DataVencimento < today
	return View{Financeiro: f, Vencido: overdue}
}

// DeriveKey builds the deterministic receivable key for a viagem: the viagem
// id when present, otherwise the sanitized invoice number. Re-syncing the
// same viagem always lands on the same record.
func DeriveKey(v shipments.Viagem) string {
	if v.ID != "" {
		return "viagem_" + v.ID
	}
	return "nf_" + sanitizeRef(v.NumeroNF)
}

// sanitizeRef keeps letters and digits and folds everything else to '_' so
// the invoice number is safe as a key segment.
func sanitizeRef(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// FromViagem synthesizes the receivable mirror of a viagem view. The result
// always carries Pendente; the upsert preserves any status a person has set.
func FromViagem(view shipments.ViagemView) Financeiro {
	return Financeiro{
		ID:                DeriveKey(view.Viagem),
		ViagemID:          view.ID,
		NumeroNF:          view.NumeroNF,
		NumeroCarga:       view.NumeroCarga,
		NumeroCTe:         view.NumeroCTeRef,
		Contratante:       view.Contratante,
		Destinatario:      view.Destinatario,
		Cidade:            view.Cidade,
		StatusViagem:      view.StatusCarga,
		ValorFrete:        view.ValorFrete,
		ValorDistribuicao: view.ValorDistribuicao,
		MetodoPagamento:   string(view.MetodoPagamento),
		NumeroBoleto:      view.NumeroBoleto,
		DataVencimento:    view.DataVencimentoBoleto,
		StatusFinanceiro:  StatusPendente,
	}
}
