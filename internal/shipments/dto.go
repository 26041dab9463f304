package shipments

// ViagemRequest is the JSON payload for creating or updating a viagem.
type ViagemRequest struct {
	NumeroNF             string  `json:"numeroNF"`
	NumeroCarga          string  `json:"numeroCarga"`
	NumeroCTe            string  `json:"numeroCTe"`
	DataCTe              string  `json:"dataCTe"`
	ChaveID              string  `json:"chaveID"`
	TipoCarga            string  `json:"tipoCarga" validate:"omitempty,oneof=Dedicada Fracionada"`
	Contratante          string  `json:"contratante"`
	Destinatario         string  `json:"destinatario"`
	Cidade               string  `json:"cidade"`
	Motorista            string  `json:"motorista"`
	Veiculo              string  `json:"veiculo"`
	Status               string  `json:"status" validate:"omitempty,oneof=Pendente 'Em rota' Entregue"`
	ValorFrete           float64 `json:"valorFrete" validate:"gte=0"`
	ValorDistribuicao    float64 `json:"valorDistribuicao" validate:"gte=0"`
	MetodoPagamento      string  `json:"metodoPagamento" validate:"omitempty,oneof=Boleto Pix Transferencia Dinheiro"`
	NumeroBoleto         string  `json:"numeroBoleto"`
	DataVencimentoBoleto string  `json:"dataVencimentoBoleto" validate:"omitempty,datetime=2006-01-02"`
	URLComprovante       string  `json:"urlComprovante"`
	DataSaida            string  `json:"dataSaida" validate:"omitempty,datetime=2006-01-02"`
	DataEntrega          string  `json:"dataEntrega" validate:"omitempty,datetime=2006-01-02"`
	Observacao           string  `json:"observacao"`
}

// ToViagem converts the request into the domain model.
func (req ViagemRequest) ToViagem(id string) Viagem {
	return Viagem{
		ID:                   id,
		NumeroNF:             req.NumeroNF,
		NumeroCarga:          req.NumeroCarga,
		NumeroCTe:            req.NumeroCTe,
		DataCTe:              req.DataCTe,
		ChaveID:              req.ChaveID,
		TipoCarga:            TipoCarga(req.TipoCarga),
		Contratante:          req.Contratante,
		Destinatario:         req.Destinatario,
		Cidade:               req.Cidade,
		Motorista:            req.Motorista,
		Veiculo:              req.Veiculo,
		Status:               Status(req.Status),
		ValorFrete:           req.ValorFrete,
		ValorDistribuicao:    req.ValorDistribuicao,
		MetodoPagamento:      MetodoPagamento(req.MetodoPagamento),
		NumeroBoleto:         req.NumeroBoleto,
		DataVencimentoBoleto: req.DataVencimentoBoleto,
		URLComprovante:       req.URLComprovante,
		DataSaida:            req.DataSaida,
		DataEntrega:          req.DataEntrega,
		Observacao:           req.Observacao,
	}
}
