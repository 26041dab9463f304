// Package motoristas manages the driver registry referenced by viagens.
package motoristas

import "time"

// Motorista is a driver reference entity.
type Motorista struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Contato      string    `json:"contato,omitempty"`
	CNH          string    `json:"cnh,omitempty"`
	CategoriaCNH string    `json:"categoriaCNH,omitempty"`
	Observacao   string    `json:"observacao,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
