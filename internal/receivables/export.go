package receivables

import (
	"encoding/csv"
	"io"

	"github.com/rotacarga/rotacarga/internal/shared"
)

// WriteFinanceiroCSV exports receivables in the semicolon separated layout
// spreadsheets in pt-BR locales expect.
func WriteFinanceiroCSV(w io.Writer, views []View) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"NF", "Carga", "Contratante", "Cidade", "Frete", "Distribuição", "Vencimento", "Status", "Pagamento", "Vencido"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, v := range views {
		vencido := "Não"
		if v.Vencido {
			vencido = "Sim"
		}
		record := []string{
			v.NumeroNF,
			v.NumeroCarga,
			v.Contratante,
			v.Cidade,
			shared.FormatBRL(v.ValorFrete),
			shared.FormatBRL(v.ValorDistribuicao),
			shared.FormatDate(v.DataVencimento),
			string(v.StatusFinanceiro),
			shared.FormatDate(v.DataPagamento),
			vencido,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
