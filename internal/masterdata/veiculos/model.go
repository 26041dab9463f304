// Package veiculos manages the vehicle registry referenced by viagens.
package veiculos

import "time"

// Veiculo is a vehicle reference entity.
type Veiculo struct {
	ID          string    `json:"id"`
	Modelo      string    `json:"modelo"`
	Placa       string    `json:"placa"`
	Tipo        string    `json:"tipo,omitempty"`
	CapacidadeT float64   `json:"capacidadeT,omitempty"`
	Observacao  string    `json:"observacao,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
