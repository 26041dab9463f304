// Package clientes manages the shipper registry referenced by viagens and
// cotações.
package clientes

import "time"

// Cliente is a shipper/customer reference entity.
type Cliente struct {
	ID         string    `json:"id"`
	Nome       string    `json:"nome"`
	Contato    string    `json:"contato,omitempty"`
	Email      string    `json:"email,omitempty"`
	Documento  string    `json:"documento,omitempty"`
	Cidade     string    `json:"cidade,omitempty"`
	Observacao string    `json:"observacao,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
