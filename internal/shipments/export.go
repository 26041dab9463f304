package shipments

import (
	"encoding/csv"
	"io"

	"github.com/rotacarga/rotacarga/internal/shared"
)

// WriteViagensCSV serialises viagem views as semicolon-delimited CSV, the
// layout the finance spreadsheets import. Currency uses comma decimals and
// dates are dd/mm/yyyy.
func WriteViagensCSV(w io.Writer, views []ViagemView) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	header := []string{
		"NF", "Carga", "CT-e", "Chave", "Tipo", "Contratante", "Destinatario",
		"Cidade", "Motorista", "Veiculo", "Status", "Frete", "Distribuicao",
		"Pagamento", "Saida", "Entrega",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, v := range views {
		record := []string{
			v.NumeroNF,
			v.NumeroCarga,
			v.NumeroCTeRef,
			v.ChaveID,
			string(v.TipoCarga),
			v.Contratante,
			v.Destinatario,
			v.Cidade,
			v.Motorista,
			v.Veiculo,
			string(v.StatusCarga),
			shared.FormatBRL(v.ValorFrete),
			shared.FormatBRL(v.ValorDistribuicao),
			string(v.MetodoPagamento),
			shared.FormatDate(v.DataSaida),
			shared.FormatDate(v.DataEntrega),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
