package quotes

// CotacaoRequest is the write payload for quotes.
type CotacaoRequest struct {
	Cliente            string   `json:"cliente" validate:"required"`
	Origem             string   `json:"origem" validate:"required"`
	TipoCarga          string   `json:"tipoCarga" validate:"omitempty,oneof=fracionado dedicado"`
	CidadesEntrega     []string `json:"cidadesEntrega" validate:"required,min=1,dive,required"`
	DistanciaKm        float64  `json:"distanciaKm" validate:"gte=0"`
	PesoKg             float64  `json:"pesoKg" validate:"gte=0"`
	VolumeM3           float64  `json:"volumeM3" validate:"gte=0"`
	ValorFrete         float64  `json:"valorFrete" validate:"gte=0"`
	ValidadeDias       int      `json:"validade" validate:"gte=0"`
	NumeroNotasFiscais int      `json:"numeroNotasFiscais" validate:"gte=0"`
	Observacao         string   `json:"observacao"`
}

// ToCotacao maps the payload onto the domain model.
func (r CotacaoRequest) ToCotacao(id string) Cotacao {
	return Cotacao{
		ID:                 id,
		Cliente:            r.Cliente,
		Origem:             r.Origem,
		TipoCarga:          r.TipoCarga,
		CidadesEntrega:     r.CidadesEntrega,
		DistanciaKm:        r.DistanciaKm,
		PesoKg:             r.PesoKg,
		VolumeM3:           r.VolumeM3,
		ValorFrete:         r.ValorFrete,
		ValidadeDias:       r.ValidadeDias,
		NumeroNotasFiscais: r.NumeroNotasFiscais,
		Observacao:         r.Observacao,
	}
}

// RoutePlanRequest asks for a nearest-first ordering of delivery cities.
type RoutePlanRequest struct {
	Origem         string   `json:"origem" validate:"required"`
	CidadesEntrega []string `json:"cidadesEntrega" validate:"required,min=1,dive,required"`
}
